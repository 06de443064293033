package feed

import (
	"encoding/json"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

// Server-to-client message types.
const (
	TypeWelcome           = "welcome"
	TypeInitialState      = "initial_state"
	TypeMetricsUpdate     = "metrics_update"
	TypeConnectionsUpdate = "connections_update"
	TypeAlertsUpdate      = "alerts_update"
	TypeAlert             = "alert"
	TypeAuthState         = "auth_state"
	TypePong              = "pong"
)

// Client-to-server message types.
const (
	TypeLogin  = "login"
	TypeLogout = "logout"
	TypePing   = "ping"
)

// Client request commands, kept from the original command channel.
const (
	CommandGetMetrics     = "get_metrics"
	CommandGetConnections = "get_connections"
	CommandGetAlerts      = "get_alerts"
)

// Message is the outbound wire envelope.
type Message struct {
	MessageType string      `json:"message_type"`
	Data        interface{} `json:"data,omitempty"`
}

// ClientMessage is the inbound wire envelope. Requests arrive either as a
// message_type (login, logout, ping) or as a command (get_metrics, ...).
type ClientMessage struct {
	MessageType string          `json:"message_type,omitempty"`
	Command     string          `json:"command,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// Credentials is the payload of a login message.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// WelcomePayload greets a freshly connected client.
type WelcomePayload struct {
	Message string `json:"message"`
}

// StatePayload carries the dashboard state triple. initial_state also
// includes a metrics sample.
type StatePayload struct {
	Metrics           *models.SystemMetrics `json:"metrics,omitempty"`
	ActiveConnections []*models.Connection  `json:"active_connections"`
	BlockedIPs        []string              `json:"blocked_ips"`
	Alerts            []*models.Alert       `json:"alerts"`
}

// AlertsPayload answers a get_alerts request.
type AlertsPayload struct {
	Alerts []*models.Alert `json:"alerts"`
}

// AuthStatePayload reports the session state.
type AuthStatePayload struct {
	Authenticated bool `json:"authenticated"`
}
