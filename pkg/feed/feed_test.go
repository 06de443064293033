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

package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/auth"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

// frame mirrors Message with the payload left raw for inspection.
type frame struct {
	MessageType string          `json:"message_type"`
	Data        json.RawMessage `json:"data"`
}

func newTestFeed(t *testing.T, origins ...string) (*Server, *auth.Sessions, *httptest.Server) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	sessions := auth.NewSessions(
		&models.AuthConfig{Users: map[string]string{"admin": string(hash)}},
		logger.NewTestLogger(),
	)

	cfg := &models.DashboardConfig{
		AllowedOrigins: origins,
		// Long enough that no tick interferes with the frames under test.
		MetricsInterval: models.Duration(time.Hour),
	}

	srv := NewServer(cfg, sessions, logger.NewTestLogger())

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})

	return srv, sessions, ts
}

func runBroadcaster(t *testing.T, srv *Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		srv.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func dialFeed(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var f frame
	require.NoError(t, conn.ReadJSON(&f))

	return f
}

// drainHandshake consumes the three frames every client receives on connect.
func drainHandshake(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	require.Equal(t, TypeWelcome, readFrame(t, conn).MessageType)
	require.Equal(t, TypeInitialState, readFrame(t, conn).MessageType)
	require.Equal(t, TypeAuthState, readFrame(t, conn).MessageType)
}

func TestHandshakeFrames(t *testing.T) {
	_, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)

	welcome := readFrame(t, conn)
	assert.Equal(t, TypeWelcome, welcome.MessageType)
	assert.JSONEq(t, `{"message":"welcome"}`, string(welcome.Data))

	initial := readFrame(t, conn)
	assert.Equal(t, TypeInitialState, initial.MessageType)

	var state StatePayload
	require.NoError(t, json.Unmarshal(initial.Data, &state))
	assert.NotNil(t, state.Metrics)
	assert.Empty(t, state.ActiveConnections)
	assert.Empty(t, state.BlockedIPs)
	assert.Empty(t, state.Alerts)

	// The state triple is present even when empty, never null.
	assert.Contains(t, string(initial.Data), `"active_connections":[]`)
	assert.Contains(t, string(initial.Data), `"blocked_ips":[]`)
	assert.Contains(t, string(initial.Data), `"alerts":[]`)

	authFrame := readFrame(t, conn)
	assert.Equal(t, TypeAuthState, authFrame.MessageType)
	assert.JSONEq(t, `{"authenticated":false}`, string(authFrame.Data))
}

func TestPingPong(t *testing.T) {
	_, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{MessageType: TypePing}))

	assert.Equal(t, TypePong, readFrame(t, conn).MessageType)
}

func TestLoginLogoutFlow(t *testing.T) {
	srv, sessions, ts := newTestFeed(t)
	runBroadcaster(t, srv)

	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	// Wrong password is answered directly and changes nothing.
	require.NoError(t, conn.WriteJSON(ClientMessage{
		MessageType: TypeLogin,
		Data:        json.RawMessage(`{"username":"admin","password":"wrong"}`),
	}))

	denied := readFrame(t, conn)
	assert.Equal(t, TypeAuthState, denied.MessageType)
	assert.JSONEq(t, `{"authenticated":false}`, string(denied.Data))
	assert.False(t, sessions.Authenticated())

	// A good login is broadcast through the session subscription.
	require.NoError(t, conn.WriteJSON(ClientMessage{
		MessageType: TypeLogin,
		Data:        json.RawMessage(`{"username":"admin","password":"secret"}`),
	}))

	granted := readFrame(t, conn)
	assert.Equal(t, TypeAuthState, granted.MessageType)
	assert.JSONEq(t, `{"authenticated":true}`, string(granted.Data))
	assert.True(t, sessions.Authenticated())

	require.NoError(t, conn.WriteJSON(ClientMessage{MessageType: TypeLogout}))

	ended := readFrame(t, conn)
	assert.Equal(t, TypeAuthState, ended.MessageType)
	assert.JSONEq(t, `{"authenticated":false}`, string(ended.Data))
	assert.False(t, sessions.Authenticated())
}

func TestConnectionsUpdateEnrichesMACs(t *testing.T) {
	srv, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	srv.UpdateConnections([]*models.Connection{
		{
			Host:     "10.0.0.7",
			Port:     443,
			Protocol: "TCP",
			State:    models.StateEstablished,
			MAC:      "08:00:27:aa:bb:cc",
		},
		{
			Host:     "93.184.216.34",
			Port:     80,
			Protocol: "TCP",
			State:    models.StateTimeWait,
		},
	})

	update := readFrame(t, conn)
	require.Equal(t, TypeConnectionsUpdate, update.MessageType)

	var state StatePayload
	require.NoError(t, json.Unmarshal(update.Data, &state))
	require.Len(t, state.ActiveConnections, 2)

	enriched := state.ActiveConnections[0]
	require.NotNil(t, enriched.MACInfo)
	assert.Equal(t, "08:00:27:AA:BB:CC", enriched.MACInfo.Address)
	assert.Equal(t, "VirtualBox", enriched.MACInfo.Vendor)
	assert.True(t, enriched.MACInfo.IsMulticast)

	assert.Nil(t, state.ActiveConnections[1].MACInfo)
}

func TestAlertBroadcastAndFetch(t *testing.T) {
	srv, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	alert := &models.Alert{
		ID:       "a-1",
		Type:     models.AlertThreatDetected,
		Severity: models.SeverityHigh,
		Status:   models.AlertActive,
		Title:    "Suspicious outbound connection",
	}

	srv.AddAlert(alert)

	pushed := readFrame(t, conn)
	require.Equal(t, TypeAlert, pushed.MessageType)

	var got models.Alert
	require.NoError(t, json.Unmarshal(pushed.Data, &got))
	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, models.SeverityHigh, got.Severity)

	require.NoError(t, conn.WriteJSON(ClientMessage{Command: CommandGetAlerts}))

	reply := readFrame(t, conn)
	require.Equal(t, TypeAlertsUpdate, reply.MessageType)

	var payload AlertsPayload
	require.NoError(t, json.Unmarshal(reply.Data, &payload))
	require.Len(t, payload.Alerts, 1)
	assert.Equal(t, "a-1", payload.Alerts[0].ID)
}

func TestAlertHistoryNewestFirst(t *testing.T) {
	srv, _, _ := newTestFeed(t)

	srv.AddAlert(&models.Alert{ID: "first"})
	srv.AddAlert(&models.Alert{ID: "second"})

	alerts := srv.alertsSnapshot()
	require.Len(t, alerts, 2)
	assert.Equal(t, "second", alerts[0].ID)
	assert.Equal(t, "first", alerts[1].ID)
}

func TestBlockedIPsBroadcast(t *testing.T) {
	srv, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	srv.SetBlockedIPs([]string{"203.0.113.9"})

	update := readFrame(t, conn)
	require.Equal(t, TypeConnectionsUpdate, update.MessageType)

	var state StatePayload
	require.NoError(t, json.Unmarshal(update.Data, &state))
	assert.Equal(t, []string{"203.0.113.9"}, state.BlockedIPs)
}

func TestGetMetricsCommand(t *testing.T) {
	_, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Command: CommandGetMetrics}))

	reply := readFrame(t, conn)
	assert.Equal(t, TypeMetricsUpdate, reply.MessageType)
	assert.Contains(t, string(reply.Data), `"system"`)
}

func TestUnknownClientMessageIgnored(t *testing.T) {
	_, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{MessageType: "mystery"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection survives both; a ping still answers.
	require.NoError(t, conn.WriteJSON(ClientMessage{MessageType: TypePing}))
	assert.Equal(t, TypePong, readFrame(t, conn).MessageType)
}

func TestOriginFiltering(t *testing.T) {
	_, _, ts := newTestFeed(t, "http://localhost:5173")

	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{
		"Origin": []string{"http://evil.example"},
	})
	require.Error(t, err)

	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		_ = resp.Body.Close()
	}

	conn := dialFeed(t, ts, http.Header{
		"Origin": []string{"http://localhost:5173"},
	})
	drainHandshake(t, conn)
}

func TestCloseDisconnectsClients(t *testing.T) {
	srv, _, ts := newTestFeed(t)
	conn := dialFeed(t, ts, nil)
	drainHandshake(t, conn)

	require.Equal(t, 1, srv.ClientCount())

	srv.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, srv.ClientCount())
}
