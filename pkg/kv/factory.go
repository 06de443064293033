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

package kv

import (
	"context"
	"fmt"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/prefs"
)

// Open constructs the medium selected by cfg. Callers own the returned
// store and must Close it.
func Open(ctx context.Context, cfg *models.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case models.BackendMemory:
		return NewMemoryStore(), nil
	case models.BackendFile:
		return NewFileStore(cfg.Dir)
	case models.BackendRedis:
		return NewRedisStore(ctx, cfg.Address)
	case models.BackendNATS:
		return NewNatsStore(ctx, cfg.Address, cfg.Bucket)
	case models.BackendPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Every backend also satisfies the preference store's narrower medium
// contract.
var (
	_ prefs.Medium = (*MemoryStore)(nil)
	_ prefs.Medium = (*FileStore)(nil)
	_ prefs.Medium = (*RedisStore)(nil)
	_ prefs.Medium = (*NatsStore)(nil)
	_ prefs.Medium = (*PostgresStore)(nil)
)
