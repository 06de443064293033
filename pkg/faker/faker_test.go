package faker

import (
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/macaddr"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

func newFixedGenerator(seed int64) *Generator {
	g := New(seed)
	g.now = func() time.Time {
		return time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)
	}

	return g
}

func TestSameSeedSameSequence(t *testing.T) {
	first := newFixedGenerator(42)
	second := newFixedGenerator(42)

	assert.Equal(t, first.Connections(5), second.Connections(5))
	assert.Equal(t, first.Alerts(5), second.Alerts(5))
	assert.Equal(t, first.BlockedIPs(5), second.BlockedIPs(5))
}

func TestDifferentSeedsDiverge(t *testing.T) {
	first := newFixedGenerator(1)
	second := newFixedGenerator(2)

	assert.NotEqual(t, first.Connections(3), second.Connections(3))
}

func TestMACsClassify(t *testing.T) {
	g := newFixedGenerator(42)

	var known, unknown int

	for i := 0; i < 200; i++ {
		mac := g.MAC()
		require.True(t, macaddr.IsValid(mac), "generated MAC %q must be valid", mac)

		if macaddr.Vendor(mac) == macaddr.UnknownVendor {
			unknown++
		} else {
			known++
		}
	}

	// The prefix table mixes virtualization OUIs with plain hardware ones.
	assert.Positive(t, known)
	assert.Positive(t, unknown)
}

func TestConnectionShape(t *testing.T) {
	g := newFixedGenerator(7)

	validStates := map[models.ConnectionState]bool{
		models.StateEstablished: true,
		models.StateListen:      true,
		models.StateTimeWait:    true,
		models.StateCloseWait:   true,
		models.StateSynSent:     true,
	}

	var sawPrivate, sawPublic bool

	for _, conn := range g.Connections(100) {
		require.NotEmpty(t, conn.Host)
		require.NotNil(t, net.ParseIP(conn.Host), "host %q must be an IP", conn.Host)
		assert.Positive(t, conn.Port)
		assert.Contains(t, []string{"TCP", "UDP"}, conn.Protocol)
		assert.True(t, validStates[conn.State], "unexpected state %q", conn.State)

		require.NotNil(t, conn.Assessment)
		assert.Equal(t, conn.Assessment.RiskLevel == "low", conn.IsSafe)

		require.NotNil(t, conn.Process)
		assert.Positive(t, conn.Process.PID)

		assert.False(t, conn.FirstSeen.IsZero())
		assert.False(t, conn.LastSeen.IsZero())
		assert.GreaterOrEqual(t, conn.Latency, 0.0)
		assert.Less(t, conn.Latency, 250.0)

		if conn.IsPrivate {
			sawPrivate = true

			assert.True(t, net.ParseIP(conn.Host).IsPrivate())
			assert.NotEmpty(t, conn.MAC)
		} else {
			sawPublic = true

			assert.False(t, net.ParseIP(conn.Host).IsPrivate())
			assert.Empty(t, conn.MAC)
			assert.NotEmpty(t, conn.Organization)
			assert.NotEmpty(t, conn.Country)
		}
	}

	assert.True(t, sawPrivate)
	assert.True(t, sawPublic)
}

func TestAlertVocabulary(t *testing.T) {
	g := newFixedGenerator(11)

	validSeverities := map[models.AlertSeverity]bool{
		models.SeverityLow:      true,
		models.SeverityMedium:   true,
		models.SeverityHigh:     true,
		models.SeverityCritical: true,
	}
	validStatuses := map[models.AlertStatus]bool{
		models.AlertActive:       true,
		models.AlertAcknowledged: true,
		models.AlertResolved:     true,
	}

	for _, alert := range g.Alerts(50) {
		_, err := uuid.Parse(alert.ID)
		require.NoError(t, err, "alert id %q must be a uuid", alert.ID)

		assert.True(t, validSeverities[alert.Severity], "unexpected severity %q", alert.Severity)
		assert.True(t, validStatuses[alert.Status], "unexpected status %q", alert.Status)
		assert.Contains(t, alertTitles, alert.Type)
		assert.NotEmpty(t, alert.Title)
		assert.NotEmpty(t, alert.Description)
		assert.Equal(t, time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC), alert.Timestamp)
	}
}

func TestBlockedIPsArePublic(t *testing.T) {
	g := newFixedGenerator(3)

	ips := g.BlockedIPs(20)
	require.Len(t, ips, 20)

	for _, ip := range ips {
		parsed := net.ParseIP(ip)
		require.NotNil(t, parsed, "blocked entry %q must be an IP", ip)
		assert.False(t, parsed.IsPrivate())
		assert.False(t, parsed.IsLoopback())
	}
}
