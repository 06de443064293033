/*
 * Copyright 2025 Big Yellow Jacket Security.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package feed is the WebSocket push surface of the dashboard. Clients get a
// welcome and a full state snapshot on connect, then metric ticks, state
// updates, and session changes as they happen.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/auth"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/macaddr"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

const (
	defaultMetricsInterval = 5 * time.Second

	// writeWait bounds a single frame write so a wedged peer cannot hold
	// the write pump forever.
	writeWait = 10 * time.Second

	// sendBufferSize is the per-client outbound queue. A client that falls
	// this far behind is dropped.
	sendBufferSize = 32

	// maxAlerts caps the retained alert history, newest first.
	maxAlerts = 1000
)

// Server owns the dashboard state snapshot and every connected client.
type Server struct {
	logger   logger.Logger
	sessions *auth.Sessions
	sampler  *Sampler
	upgrader websocket.Upgrader
	interval time.Duration

	stateMu     sync.RWMutex
	connections []*models.Connection
	alerts      []*models.Alert
	blockedIPs  []string

	clientsMu sync.Mutex
	clients   map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan *Message
}

// NewServer builds the feed around the session tracker. The config supplies
// the allowed origins and the metrics broadcast interval.
func NewServer(cfg *models.DashboardConfig, sessions *auth.Sessions, log logger.Logger) *Server {
	interval := time.Duration(cfg.MetricsInterval)
	if interval <= 0 {
		interval = defaultMetricsInterval
	}

	allowed := make([]string, len(cfg.AllowedOrigins))
	copy(allowed, cfg.AllowedOrigins)

	s := &Server{
		logger:   log,
		sessions: sessions,
		sampler:  NewSampler(log),
		interval: interval,
		clients:  make(map[*client]struct{}),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.checkOrigin(r, allowed)
		},
	}

	return s
}

// checkOrigin admits browser clients from the configured origins. Requests
// without an Origin header (native clients, tests) are allowed.
func (s *Server) checkOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, a := range allowed {
		if a == origin || a == "*" {
			return true
		}
	}

	s.logger.Warn().
		Str("origin", origin).
		Msg("Rejecting feed client from disallowed origin")

	return false
}

// ServeHTTP upgrades the connection and serves it until the client leaves.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("Feed upgrade failed")

		return
	}

	c := &client{
		conn: conn,
		send: make(chan *Message, sendBufferSize),
	}

	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()

	s.logger.Info().
		Str("remote_addr", r.RemoteAddr).
		Msg("Feed client connected")

	go c.writePump(s.logger)

	s.sendTo(c, &Message{
		MessageType: TypeWelcome,
		Data:        WelcomePayload{Message: "welcome"},
	})
	s.sendTo(c, &Message{
		MessageType: TypeInitialState,
		Data:        s.statePayload(s.sampler.Sample(r.Context())),
	})
	s.sendTo(c, &Message{
		MessageType: TypeAuthState,
		Data:        AuthStatePayload{Authenticated: s.sessions.Authenticated()},
	})

	s.readPump(r.Context(), c)

	s.removeClient(c)

	s.logger.Info().
		Str("remote_addr", r.RemoteAddr).
		Msg("Feed client disconnected")
}

// Run broadcasts metric ticks and session changes until the context ends.
func (s *Server) Run(ctx context.Context) {
	updates, cancel := s.sessions.Subscribe()
	defer cancel()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Feed broadcaster started")

	for {
		select {
		case <-ctx.Done():
			return
		case authenticated, ok := <-updates:
			if !ok {
				return
			}

			s.broadcast(&Message{
				MessageType: TypeAuthState,
				Data:        AuthStatePayload{Authenticated: authenticated},
			})
		case <-ticker.C:
			s.broadcast(&Message{
				MessageType: TypeMetricsUpdate,
				Data:        s.sampler.Sample(ctx),
			})
		}
	}
}

// Close drops every connected client.
func (s *Server) Close() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for c := range s.clients {
		s.removeLocked(c)
		_ = c.conn.Close()
	}
}

// ClientCount reports how many clients are connected.
func (s *Server) ClientCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	return len(s.clients)
}

// UpdateConnections replaces the connection snapshot and broadcasts it.
// Each connection with a MAC is enriched with its classification first.
func (s *Server) UpdateConnections(conns []*models.Connection) {
	enriched := make([]*models.Connection, len(conns))

	for i, conn := range conns {
		cc := *conn
		if cc.MAC != "" {
			info := macaddr.New(cc.MAC)
			cc.MACInfo = &info
		}

		enriched[i] = &cc
	}

	s.stateMu.Lock()
	s.connections = enriched
	s.stateMu.Unlock()

	s.broadcast(&Message{
		MessageType: TypeConnectionsUpdate,
		Data:        s.statePayload(nil),
	})
}

// AddAlert prepends the alert to the history and broadcasts it.
func (s *Server) AddAlert(alert *models.Alert) {
	s.stateMu.Lock()

	s.alerts = append([]*models.Alert{alert}, s.alerts...)
	if len(s.alerts) > maxAlerts {
		s.alerts = s.alerts[:maxAlerts]
	}

	s.stateMu.Unlock()

	s.logger.Info().
		Str("alert_id", alert.ID).
		Str("severity", string(alert.Severity)).
		Str("type", string(alert.Type)).
		Msg("Alert raised")

	s.broadcast(&Message{
		MessageType: TypeAlert,
		Data:        alert,
	})
}

// SetBlockedIPs replaces the blocked address list and broadcasts the state.
func (s *Server) SetBlockedIPs(ips []string) {
	blocked := make([]string, len(ips))
	copy(blocked, ips)

	s.stateMu.Lock()
	s.blockedIPs = blocked
	s.stateMu.Unlock()

	s.broadcast(&Message{
		MessageType: TypeConnectionsUpdate,
		Data:        s.statePayload(nil),
	})
}

// statePayload snapshots the dashboard state. Slices are copied so later
// updates cannot race encoding in the write pumps.
func (s *Server) statePayload(metrics *models.SystemMetrics) *StatePayload {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	p := &StatePayload{
		Metrics:           metrics,
		ActiveConnections: make([]*models.Connection, len(s.connections)),
		BlockedIPs:        make([]string, len(s.blockedIPs)),
		Alerts:            make([]*models.Alert, len(s.alerts)),
	}

	copy(p.ActiveConnections, s.connections)
	copy(p.BlockedIPs, s.blockedIPs)
	copy(p.Alerts, s.alerts)

	return p
}

func (s *Server) alertsSnapshot() []*models.Alert {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	alerts := make([]*models.Alert, len(s.alerts))
	copy(alerts, s.alerts)

	return alerts
}

// readPump consumes client frames until the connection ends.
func (s *Server) readPump(ctx context.Context, c *client) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().
					Err(err).
					Str("remote_addr", c.conn.RemoteAddr().String()).
					Msg("Feed client read ended abnormally")
			}

			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Debug().
				Err(err).
				Str("remote_addr", c.conn.RemoteAddr().String()).
				Msg("Dropping unparseable client frame")

			continue
		}

		s.handleClientMessage(ctx, c, &msg)
	}
}

func (s *Server) handleClientMessage(ctx context.Context, c *client, msg *ClientMessage) {
	switch {
	case msg.MessageType == TypeLogin:
		var creds Credentials
		if msg.Data != nil {
			_ = json.Unmarshal(msg.Data, &creds)
		}

		if err := s.sessions.Login(creds.Username, creds.Password); err != nil {
			s.logger.Warn().
				Str("user", creds.Username).
				Msg("Feed login rejected")

			// A successful login reaches every client through the session
			// subscription; only the failure is answered directly.
			s.sendTo(c, &Message{
				MessageType: TypeAuthState,
				Data:        AuthStatePayload{Authenticated: false},
			})
		}
	case msg.MessageType == TypeLogout:
		s.sessions.Logout()
	case msg.MessageType == TypePing:
		s.sendTo(c, &Message{MessageType: TypePong})
	case msg.Command == CommandGetMetrics:
		s.sendTo(c, &Message{
			MessageType: TypeMetricsUpdate,
			Data:        s.sampler.Sample(ctx),
		})
	case msg.Command == CommandGetConnections:
		s.sendTo(c, &Message{
			MessageType: TypeConnectionsUpdate,
			Data:        s.statePayload(nil),
		})
	case msg.Command == CommandGetAlerts:
		s.sendTo(c, &Message{
			MessageType: TypeAlertsUpdate,
			Data:        AlertsPayload{Alerts: s.alertsSnapshot()},
		})
	default:
		s.logger.Debug().
			Str("message_type", msg.MessageType).
			Str("command", msg.Command).
			Msg("Ignoring unknown client message")
	}
}

// broadcast queues the message for every client, dropping any whose buffer
// is full.
func (s *Server) broadcast(msg *Message) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.logger.Warn().
				Str("remote_addr", c.conn.RemoteAddr().String()).
				Msg("Dropping slow feed client")
			s.removeLocked(c)
		}
	}
}

// sendTo queues a message for one client if it is still registered.
func (s *Server) sendTo(c *client, msg *Message) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		s.logger.Warn().
			Str("remote_addr", c.conn.RemoteAddr().String()).
			Msg("Dropping slow feed client")
		s.removeLocked(c)
	}
}

func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	s.removeLocked(c)
}

// removeLocked unregisters the client and closes its queue exactly once.
// Callers hold clientsMu.
func (s *Server) removeLocked(c *client) {
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// writePump drains the client queue onto the wire, then closes the socket.
func (c *client) writePump(log logger.Logger) {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := c.conn.WriteJSON(msg); err != nil {
			log.Debug().
				Err(err).
				Str("remote_addr", c.conn.RemoteAddr().String()).
				Msg("Feed write failed")
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
}
