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

// Package faker produces plausible connection and alert traffic for running
// the dashboard without a live probe. Output is driven by a fixed seed so a
// demo setup replays the same world every start.
package faker

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

const (
	minEphemeralPort = 32768
	maxPort          = 65535

	maxTransferBytes = 10 << 20
	maxLatencyMs     = 250.0

	// Share of generated connections that point at public endpoints.
	publicEndpointPercent = 70

	percentageBase = 100
)

// ouiPrefixes seeds generated MACs. The virtualization prefixes resolve to a
// vendor in the classifier; the hardware ones intentionally do not.
var ouiPrefixes = []string{
	"00:50:56", // VMware
	"00:0C:29", // VMware
	"08:00:27", // VirtualBox
	"52:54:00", // QEMU/KVM
	"00:16:3E", // Xen
	"00:15:5D", // Hyper-V
	"00:1C:42", // Parallels
	"00:1B:44", // Dell
	"3C:97:0E", // HP
	"A4:BB:6D", // Apple
	"F0:DE:F1", // Intel
	"00:1A:A0", // Cisco
}

var serverPorts = []int{443, 80, 22, 53, 8080, 3306, 5432, 6379, 8766}

var protocols = []string{"TCP", "TCP", "TCP", "TCP", "UDP"}

var connectionStates = []models.ConnectionState{
	models.StateEstablished,
	models.StateEstablished,
	models.StateEstablished,
	models.StateListen,
	models.StateTimeWait,
	models.StateCloseWait,
	models.StateSynSent,
}

var processNames = []string{
	"chrome", "firefox", "nginx", "sshd", "postgres", "node", "python3",
	"dockerd", "curl", "slack",
}

var organizations = []string{
	"Cloudflare, Inc.", "Google LLC", "Amazon Technologies Inc.",
	"Akamai International", "Microsoft Corporation", "OVH SAS",
	"Hetzner Online GmbH", "Fastly, Inc.",
}

var countries = []string{"US", "DE", "FR", "NL", "GB", "SG", "JP", "IE"}

// publicFirstOctets are first octets that never collide with private,
// loopback, or multicast space.
var publicFirstOctets = []int{8, 23, 34, 52, 93, 104, 151, 185, 203}

var alertTypes = []models.AlertType{
	models.AlertThreatDetected,
	models.AlertIPBlocked,
	models.AlertSystemAnomaly,
	models.AlertSecurityBreach,
	models.AlertPerformanceIssue,
	models.AlertConfigurationChange,
}

var alertTitles = map[models.AlertType][]string{
	models.AlertThreatDetected: {
		"Suspicious outbound connection",
		"Connection to known malicious host",
		"Port scan detected",
	},
	models.AlertIPBlocked: {
		"IP blocked by firewall policy",
		"Repeated connection attempts blocked",
	},
	models.AlertSystemAnomaly: {
		"Unusual process network activity",
		"Unexpected listening port",
	},
	models.AlertSecurityBreach: {
		"Unauthorized access attempt",
		"Possible credential exfiltration",
	},
	models.AlertPerformanceIssue: {
		"Connection latency above threshold",
		"Bandwidth saturation detected",
	},
	models.AlertConfigurationChange: {
		"Firewall rule modified",
		"Monitoring policy updated",
	},
}

// Generator emits simulated dashboard traffic. Not safe for concurrent use;
// the dashboard drives it from a single goroutine.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New builds a generator. The same seed yields the same sequence of values.
func New(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // simulation data, not security material
		now: time.Now,
	}
}

// MAC returns an address built from one of the seeded OUI prefixes.
func (g *Generator) MAC() string {
	prefix := ouiPrefixes[g.rng.Intn(len(ouiPrefixes))]

	return fmt.Sprintf("%s:%02X:%02X:%02X",
		prefix,
		g.rng.Intn(256),
		g.rng.Intn(256),
		g.rng.Intn(256))
}

// PrivateIP returns an RFC 1918 address.
func (g *Generator) PrivateIP() string {
	if g.rng.Intn(2) == 0 {
		return fmt.Sprintf("192.168.%d.%d", g.rng.Intn(254)+1, g.rng.Intn(254)+1)
	}

	return fmt.Sprintf("10.%d.%d.%d", g.rng.Intn(254)+1, g.rng.Intn(254)+1, g.rng.Intn(254)+1)
}

// PublicIP returns an address outside private, loopback, and multicast space.
func (g *Generator) PublicIP() string {
	first := publicFirstOctets[g.rng.Intn(len(publicFirstOctets))]

	return fmt.Sprintf("%d.%d.%d.%d", first, g.rng.Intn(254)+1, g.rng.Intn(254)+1, g.rng.Intn(254)+1)
}

// Connection returns one simulated connection.
func (g *Generator) Connection() *models.Connection {
	isPublic := g.rng.Intn(percentageBase) < publicEndpointPercent
	now := g.now().UTC()

	conn := &models.Connection{
		Protocol:      protocols[g.rng.Intn(len(protocols))],
		State:         connectionStates[g.rng.Intn(len(connectionStates))],
		IsPrivate:     !isPublic,
		Latency:       g.rng.Float64() * maxLatencyMs,
		BytesSent:     int64(g.rng.Intn(maxTransferBytes)),
		BytesReceived: int64(g.rng.Intn(maxTransferBytes)),
		FirstSeen:     now.Add(-time.Duration(g.rng.Intn(120)) * time.Minute),
		LastSeen:      now.Add(-time.Duration(g.rng.Intn(55)) * time.Second),
		Process: &models.ProcessInfo{
			PID:  g.rng.Intn(60000) + 100,
			Name: processNames[g.rng.Intn(len(processNames))],
		},
	}

	if isPublic {
		conn.Host = g.PublicIP()
		conn.Port = serverPorts[g.rng.Intn(len(serverPorts))]
		conn.Organization = organizations[g.rng.Intn(len(organizations))]
		conn.Country = countries[g.rng.Intn(len(countries))]
	} else {
		conn.Host = g.PrivateIP()
		conn.Port = g.rng.Intn(maxPort-minEphemeralPort) + minEphemeralPort
		conn.MAC = g.MAC()
	}

	conn.Assessment = g.assessment()
	conn.IsSafe = conn.Assessment.RiskLevel == "low"

	return conn
}

// Connections returns n simulated connections.
func (g *Generator) Connections(n int) []*models.Connection {
	conns := make([]*models.Connection, n)
	for i := range conns {
		conns[i] = g.Connection()
	}

	return conns
}

func (g *Generator) assessment() *models.SecurityAssessment {
	roll := g.rng.Intn(percentageBase)

	switch {
	case roll < 70:
		return &models.SecurityAssessment{
			RiskLevel:  "low",
			TrustScore: float64(g.rng.Intn(30) + 70),
		}
	case roll < 90:
		return &models.SecurityAssessment{
			RiskLevel:      "medium",
			RiskFactors:    []string{"uncommon destination port"},
			TrustScore:     float64(g.rng.Intn(30) + 40),
			Recommendation: "monitor",
		}
	default:
		return &models.SecurityAssessment{
			RiskLevel:        "high",
			RiskFactors:      []string{"known scanning source", "unusual transfer volume"},
			ThreatIndicators: []string{"ip_reputation"},
			TrustScore:       float64(g.rng.Intn(40)),
			Recommendation:   "block",
		}
	}
}

// Alert returns one simulated alert.
func (g *Generator) Alert() *models.Alert {
	id, _ := uuid.NewRandomFromReader(g.rng)

	alertType := alertTypes[g.rng.Intn(len(alertTypes))]
	titles := alertTitles[alertType]

	return &models.Alert{
		ID:          id.String(),
		Type:        alertType,
		Severity:    g.severity(),
		Status:      g.status(),
		Title:       titles[g.rng.Intn(len(titles))],
		Description: fmt.Sprintf("Observed on %s traffic from %s", protocols[g.rng.Intn(len(protocols))], g.PublicIP()),
		SourceIP:    g.PublicIP(),
		TargetIP:    g.PrivateIP(),
		Timestamp:   g.now().UTC(),
	}
}

// Alerts returns n simulated alerts.
func (g *Generator) Alerts(n int) []*models.Alert {
	alerts := make([]*models.Alert, n)
	for i := range alerts {
		alerts[i] = g.Alert()
	}

	return alerts
}

// BlockedIPs returns n addresses for the blocked list.
func (g *Generator) BlockedIPs(n int) []string {
	ips := make([]string, n)
	for i := range ips {
		ips[i] = g.PublicIP()
	}

	return ips
}

func (g *Generator) severity() models.AlertSeverity {
	roll := g.rng.Intn(percentageBase)

	switch {
	case roll < 30:
		return models.SeverityLow
	case roll < 70:
		return models.SeverityMedium
	case roll < 90:
		return models.SeverityHigh
	default:
		return models.SeverityCritical
	}
}

func (g *Generator) status() models.AlertStatus {
	roll := g.rng.Intn(percentageBase)

	switch {
	case roll < 70:
		return models.AlertActive
	case roll < 90:
		return models.AlertAcknowledged
	default:
		return models.AlertResolved
	}
}
