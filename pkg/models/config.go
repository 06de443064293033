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

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
)

// Duration wraps time.Duration so config files can carry either a string
// ("30s", "5m") or integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

var (
	errInvalidDuration        = fmt.Errorf("invalid duration")
	errListenAddrRequired     = fmt.Errorf("listen address is required")
	errUnknownStorageBackend  = fmt.Errorf("unknown storage backend")
	errStorageDirRequired     = fmt.Errorf("storage.dir is required for the file backend")
	errStorageAddressRequired = fmt.Errorf("storage.address is required")
	errStorageBucketRequired  = fmt.Errorf("storage.bucket is required for the nats backend")
	errStorageDSNRequired     = fmt.Errorf("storage.dsn is required for the postgres backend")
)

// StorageBackend selects a persistence medium for the preference slot.
type StorageBackend string

const (
	BackendMemory   StorageBackend = "memory"
	BackendFile     StorageBackend = "file"
	BackendRedis    StorageBackend = "redis"
	BackendNATS     StorageBackend = "nats"
	BackendPostgres StorageBackend = "postgres"
)

// StorageConfig selects and parameterizes the persistence medium. Only the
// fields of the chosen backend are consulted.
type StorageConfig struct {
	Backend StorageBackend `json:"backend"`
	Dir     string         `json:"dir,omitempty"`     // file: root directory
	Address string         `json:"address,omitempty"` // redis addr or nats URL
	Bucket  string         `json:"bucket,omitempty"`  // nats: KV bucket name
	DSN     string         `json:"dsn,omitempty"`     // postgres connection string
	Key     string         `json:"key,omitempty"`     // preference slot override
}

// Validate ensures the storage selection is usable.
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case BackendMemory:
	case BackendFile:
		if s.Dir == "" {
			return errStorageDirRequired
		}
	case BackendRedis:
		if s.Address == "" {
			return errStorageAddressRequired
		}
	case BackendNATS:
		if s.Address == "" {
			return errStorageAddressRequired
		}

		if s.Bucket == "" {
			return errStorageBucketRequired
		}
	case BackendPostgres:
		if s.DSN == "" {
			return errStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownStorageBackend, s.Backend)
	}

	return nil
}

// SimulationConfig drives the sample-data generator for UI work.
type SimulationConfig struct {
	Enabled     bool  `json:"enabled"`
	Connections int   `json:"connections,omitempty"`
	Alerts      int   `json:"alerts,omitempty"`
	Seed        int64 `json:"seed,omitempty"`
}

// DashboardConfig is the configuration of the dashboard feed service and the
// preference tooling that shares its storage.
type DashboardConfig struct {
	ListenAddr      string            `json:"listen_addr"`
	AllowedOrigins  []string          `json:"allowed_origins,omitempty"`
	MetricsInterval Duration          `json:"metrics_interval,omitempty"`
	Storage         StorageConfig     `json:"storage"`
	Auth            *AuthConfig       `json:"auth,omitempty"`
	Simulation      *SimulationConfig `json:"simulation,omitempty"`
	Logging         *logger.Config    `json:"logging,omitempty"`
}

// Validate ensures the dashboard configuration is complete enough to serve.
func (c *DashboardConfig) Validate() error {
	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	return c.Storage.Validate()
}
