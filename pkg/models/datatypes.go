package models

import (
	"time"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/macaddr"
)

// AlertSeverity ranks how urgent an alert is.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus tracks the triage state of an alert.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// AlertType classifies what raised the alert.
type AlertType string

const (
	AlertThreatDetected      AlertType = "threat_detected"
	AlertIPBlocked           AlertType = "ip_blocked"
	AlertSystemAnomaly       AlertType = "system_anomaly"
	AlertSecurityBreach      AlertType = "security_breach"
	AlertPerformanceIssue    AlertType = "performance_issue"
	AlertConfigurationChange AlertType = "configuration_change"
)

// Alert is a security alert as shown on the dashboard.
type Alert struct {
	ID          string            `json:"id"`
	Type        AlertType         `json:"type"`
	Severity    AlertSeverity     `json:"severity"`
	Status      AlertStatus       `json:"status"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	SourceIP    string            `json:"source_ip,omitempty"`
	TargetIP    string            `json:"target_ip,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// ConnectionState mirrors the socket states reported by the probe.
type ConnectionState string

const (
	StateEstablished ConnectionState = "ESTABLISHED"
	StateListen      ConnectionState = "LISTEN"
	StateTimeWait    ConnectionState = "TIME_WAIT"
	StateCloseWait   ConnectionState = "CLOSE_WAIT"
	StateSynSent     ConnectionState = "SYN_SENT"
)

// ProcessInfo describes the local process that owns a connection.
type ProcessInfo struct {
	PID           int     `json:"pid"`
	Name          string  `json:"name,omitempty"`
	Path          string  `json:"path,omitempty"`
	Username      string  `json:"username,omitempty"`
	CPUPercent    float64 `json:"cpu_percent,omitempty"`
	MemoryPercent float64 `json:"memory_percent,omitempty"`
}

// SecurityAssessment summarizes the risk evaluation of an endpoint.
type SecurityAssessment struct {
	RiskLevel        string   `json:"risk_level"`
	RiskFactors      []string `json:"risk_factors,omitempty"`
	Recommendation   string   `json:"recommendation,omitempty"`
	ThreatIndicators []string `json:"threat_indicators,omitempty"`
	TrustScore       float64  `json:"trust_score"`
}

// Connection is one observed endpoint pair with its enrichment. MACInfo is
// filled by the feed before broadcast, never persisted by the probe itself.
type Connection struct {
	Host          string              `json:"host"`
	Port          int                 `json:"port"`
	Protocol      string              `json:"protocol"`
	State         ConnectionState     `json:"state"`
	MAC           string              `json:"mac_address,omitempty"`
	MACInfo       *macaddr.MacAddress `json:"mac_info,omitempty"`
	Process       *ProcessInfo        `json:"process,omitempty"`
	Assessment    *SecurityAssessment `json:"security_assessment,omitempty"`
	Organization  string              `json:"organization,omitempty"`
	Country       string              `json:"country,omitempty"`
	IsPrivate     bool                `json:"is_private"`
	IsSafe        bool                `json:"is_safe"`
	Latency       float64             `json:"latency"`
	BytesSent     int64               `json:"bytes_sent"`
	BytesReceived int64               `json:"bytes_received"`
	FirstSeen     time.Time           `json:"first_seen,omitempty"`
	LastSeen      time.Time           `json:"last_seen,omitempty"`
}

// SystemMetrics is the metrics_update payload. The nesting matches what the
// dashboard frontend consumes.
type SystemMetrics struct {
	System SystemStats `json:"system"`
}

// SystemStats groups the per-resource samples.
type SystemStats struct {
	CPU     CPUStats     `json:"cpu"`
	Memory  MemoryStats  `json:"memory"`
	Disk    DiskStats    `json:"disk"`
	Network NetworkStats `json:"network"`
}

// CPUStats reports aggregate processor load.
type CPUStats struct {
	Percent   float64 `json:"percent"`
	Cores     int     `json:"cores"`
	Frequency float64 `json:"frequency"`
}

// MemoryStats reports physical memory usage in bytes.
type MemoryStats struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// DiskStats reports usage of the root filesystem in bytes.
type DiskStats struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Percent float64 `json:"percent"`
}

// NetworkStats reports cumulative interface counters.
type NetworkStats struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}
