package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Duration
		wantErr  bool
	}{
		{name: "string form", input: `"30s"`, expected: Duration(30 * time.Second)},
		{name: "numeric nanoseconds", input: `5000000000`, expected: Duration(5 * time.Second)},
		{name: "compound string", input: `"1h15m"`, expected: Duration(75 * time.Minute)},
		{name: "invalid string", input: `"soon"`, wantErr: true},
		{name: "invalid type", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestStorageConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr string
	}{
		{
			name: "memory needs nothing",
			cfg:  StorageConfig{Backend: BackendMemory},
		},
		{
			name: "file with dir",
			cfg:  StorageConfig{Backend: BackendFile, Dir: "/var/lib/byj"},
		},
		{
			name:    "file without dir",
			cfg:     StorageConfig{Backend: BackendFile},
			wantErr: "storage.dir is required",
		},
		{
			name: "redis with address",
			cfg:  StorageConfig{Backend: BackendRedis, Address: "localhost:6379"},
		},
		{
			name:    "redis without address",
			cfg:     StorageConfig{Backend: BackendRedis},
			wantErr: "storage.address is required",
		},
		{
			name: "nats with address and bucket",
			cfg:  StorageConfig{Backend: BackendNATS, Address: "nats://localhost:4222", Bucket: "byj"},
		},
		{
			name:    "nats without bucket",
			cfg:     StorageConfig{Backend: BackendNATS, Address: "nats://localhost:4222"},
			wantErr: "storage.bucket is required",
		},
		{
			name: "postgres with dsn",
			cfg:  StorageConfig{Backend: BackendPostgres, DSN: "postgres://byj@localhost/byj"},
		},
		{
			name:    "postgres without dsn",
			cfg:     StorageConfig{Backend: BackendPostgres},
			wantErr: "storage.dsn is required",
		},
		{
			name:    "unknown backend",
			cfg:     StorageConfig{Backend: "etcd"},
			wantErr: "unknown storage backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDashboardConfigValidate(t *testing.T) {
	cfg := &DashboardConfig{
		Storage: StorageConfig{Backend: BackendMemory},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen address is required")

	cfg.ListenAddr = ":8766"
	require.NoError(t, cfg.Validate())

	cfg.Storage = StorageConfig{Backend: BackendFile}
	require.Error(t, cfg.Validate())
}

func TestDashboardConfigDecode(t *testing.T) {
	raw := `{
		"listen_addr": ":8766",
		"allowed_origins": ["http://localhost:5173"],
		"metrics_interval": "5s",
		"storage": {"backend": "file", "dir": "/var/lib/bigyellowjacket"},
		"auth": {"users": {"admin": "$2a$10$abcdefghijklmnopqrstuv"}},
		"simulation": {"enabled": true, "connections": 24, "alerts": 6}
	}`

	var cfg DashboardConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, ":8766", cfg.ListenAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, Duration(5*time.Second), cfg.MetricsInterval)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	require.NotNil(t, cfg.Auth)
	assert.Contains(t, cfg.Auth.Users, "admin")
	require.NotNil(t, cfg.Simulation)
	assert.True(t, cfg.Simulation.Enabled)
	assert.Equal(t, 24, cfg.Simulation.Connections)

	require.NoError(t, cfg.Validate())
}
