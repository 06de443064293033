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

// Package prefs owns the persisted record of dashboard display preferences:
// typed reads that always yield a complete record, merge-writes that never
// drop absent fields, and session-edge clearing of sensitive stamps.
package prefs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

// DefaultKey is the slot the record lives under when no override is given.
const DefaultKey = "bigyellowjacket.preferences"

// DefaultSortDirection is assumed for tables without a stored direction.
const DefaultSortDirection = "asc"

// Medium is the consumer-side contract of the storage behind the slot.
// Implementations live in pkg/kv; anything with these three methods serves.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Source reports where a loaded record came from.
type Source int

const (
	// SourceStored means the slot held a parseable document.
	SourceStored Source = iota
	// SourceAbsent means nothing was stored and defaults were returned.
	SourceAbsent
	// SourceCorrupt means the stored bytes failed to parse.
	SourceCorrupt
	// SourceUnavailable means the medium itself failed.
	SourceUnavailable
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored"
	case SourceAbsent:
		return "absent"
	case SourceCorrupt:
		return "corrupt"
	case SourceUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Store owns the preference slot. Reads degrade to defaults and writes are
// logged and swallowed; no storage failure ever reaches a caller.
type Store struct {
	medium Medium
	key    string
	logger logger.Logger
	now    func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock overrides the timestamp source used by MarkViewed.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wraps a medium. The zero configuration uses DefaultKey and the
// wall clock.
func NewStore(medium Medium, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		key:    DefaultKey,
		logger: log,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load returns the complete record. Absent, corrupt or unreadable storage
// degrades to the default record; Load never fails.
func (s *Store) Load(ctx context.Context) *models.Preferences {
	record, _ := s.LoadWithSource(ctx)
	return record
}

// LoadWithSource is Load plus provenance for callers that surface it.
func (s *Store) LoadWithSource(ctx context.Context) (*models.Preferences, Source) {
	record := models.DefaultPreferences()

	raw, found, err := s.medium.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Preference slot unreadable, using defaults")
		return record, SourceUnavailable
	}

	if !found {
		return record, SourceAbsent
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Stored preferences unparseable, using defaults")
		return record, SourceCorrupt
	}

	s.overlay(record, envelope)

	return record, SourceStored
}

// overlay replaces each default top-level field present in the stored
// envelope wholesale. A missing key keeps the entire default sub-record; a
// key that fails to decode keeps its default; unknown keys are dropped.
func (s *Store) overlay(p *models.Preferences, envelope map[string]json.RawMessage) {
	for key, raw := range envelope {
		var err error

		switch key {
		case "theme":
			err = json.Unmarshal(raw, &p.Theme)
		case "autoRefresh":
			err = json.Unmarshal(raw, &p.AutoRefresh)
		case "refreshInterval":
			err = json.Unmarshal(raw, &p.RefreshInterval)
		case "dashboardLayout":
			err = json.Unmarshal(raw, &p.DashboardLayout)
		case "widgetSettings":
			settings := map[string]json.RawMessage{}
			if err = json.Unmarshal(raw, &settings); err == nil {
				p.WidgetSettings = settings
			}
		case "alertFilters":
			var filters models.AlertFilters
			if err = json.Unmarshal(raw, &filters); err == nil {
				p.AlertFilters = filters
			}
		case "connectionFilters":
			var filters models.ConnectionFilters
			if err = json.Unmarshal(raw, &filters); err == nil {
				p.ConnectionFilters = filters
			}
		case "tablePageSize":
			err = json.Unmarshal(raw, &p.TablePageSize)
		case "sortBy":
			sortBy := map[string]string{}
			if err = json.Unmarshal(raw, &sortBy); err == nil {
				p.SortBy = sortBy
			}
		case "lastViewed":
			var viewed models.LastViewed
			if err = json.Unmarshal(raw, &viewed); err == nil {
				p.LastViewed = viewed
			}
		default:
			continue
		}

		if err != nil {
			s.logger.Warn().Err(err).Str("field", key).Msg("Dropping unparseable preference field")
		}
	}
}

// Save merges the patch over the current record and writes the result back.
// Write failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, patch *models.PreferencesPatch) {
	merged := s.Load(ctx)
	patch.Apply(merged)

	data, err := json.Marshal(merged)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to serialize preferences")
		return
	}

	if err := s.medium.Put(ctx, s.key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Failed to persist preferences")
	}
}

// Clear removes the slot entirely. Failures are logged and swallowed.
func (s *Store) Clear(ctx context.Context) {
	if err := s.medium.Delete(ctx, s.key); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Failed to clear preferences")
	}
}

// Theme returns the stored theme name.
func (s *Store) Theme(ctx context.Context) string {
	return s.Load(ctx).Theme
}

// SetTheme persists only the theme field.
func (s *Store) SetTheme(ctx context.Context, theme string) {
	s.Save(ctx, &models.PreferencesPatch{Theme: &theme})
}

// AutoRefresh returns whether the dashboard refreshes itself.
func (s *Store) AutoRefresh(ctx context.Context) bool {
	return s.Load(ctx).AutoRefresh
}

// SetAutoRefresh persists only the auto-refresh flag.
func (s *Store) SetAutoRefresh(ctx context.Context, enabled bool) {
	s.Save(ctx, &models.PreferencesPatch{AutoRefresh: &enabled})
}

// RefreshInterval returns the refresh period in milliseconds.
func (s *Store) RefreshInterval(ctx context.Context) int {
	return s.Load(ctx).RefreshInterval
}

// SetRefreshInterval persists only the refresh period.
func (s *Store) SetRefreshInterval(ctx context.Context, ms int) {
	s.Save(ctx, &models.PreferencesPatch{RefreshInterval: &ms})
}

// DashboardLayout returns the active layout name.
func (s *Store) DashboardLayout(ctx context.Context) string {
	return s.Load(ctx).DashboardLayout
}

// SetDashboardLayout persists only the layout name.
func (s *Store) SetDashboardLayout(ctx context.Context, layout string) {
	s.Save(ctx, &models.PreferencesPatch{DashboardLayout: &layout})
}

// MarkViewed stamps the category's last-viewed time with the current time
// in RFC3339. Unknown categories are ignored.
func (s *Store) MarkViewed(ctx context.Context, category models.ViewCategory) {
	viewed := s.Load(ctx).LastViewed
	stamp := s.now().UTC().Format(time.RFC3339)

	switch category {
	case models.ViewAlerts:
		viewed.Alerts = stamp
	case models.ViewConnections:
		viewed.Connections = stamp
	case models.ViewThreats:
		viewed.Threats = stamp
	default:
		s.logger.Warn().Str("category", string(category)).Msg("Ignoring unknown view category")
		return
	}

	s.Save(ctx, &models.PreferencesPatch{LastViewed: &viewed})
}

// TablePreferences is the per-table view handed to table widgets.
type TablePreferences struct {
	PageSize int             `json:"pageSize"`
	SortBy   string          `json:"sortBy"`
	Filters  json.RawMessage `json:"filters,omitempty"`
}

// TableUpdate carries the sub-fields a table widget may change. Nil fields
// are left untouched.
type TableUpdate struct {
	PageSize *int            `json:"pageSize,omitempty"`
	SortBy   *string         `json:"sortBy,omitempty"`
	Filters  json.RawMessage `json:"filters,omitempty"`
}

// TablePreferences returns the view for one table: the shared page size,
// the table's sort direction (DefaultSortDirection when unset) and the
// table's stored filters.
func (s *Store) TablePreferences(ctx context.Context, tableID string) TablePreferences {
	record := s.Load(ctx)

	sortBy, ok := record.SortBy[tableID]
	if !ok {
		sortBy = DefaultSortDirection
	}

	return TablePreferences{
		PageSize: record.TablePageSize,
		SortBy:   sortBy,
		Filters:  record.WidgetSettings[tableID],
	}
}

// UpdateTablePreferences writes only the sub-fields present in upd. The
// sortBy map is merged per table id rather than replaced, and per-table
// filters live under the table's widget-settings entry, merged the same
// way, so updating one table never disturbs another.
func (s *Store) UpdateTablePreferences(ctx context.Context, tableID string, upd TableUpdate) {
	record := s.Load(ctx)
	patch := &models.PreferencesPatch{}

	if upd.PageSize != nil {
		patch.TablePageSize = upd.PageSize
	}

	if upd.SortBy != nil {
		sortBy := make(map[string]string, len(record.SortBy)+1)
		for k, v := range record.SortBy {
			sortBy[k] = v
		}

		sortBy[tableID] = *upd.SortBy
		patch.SortBy = sortBy
	}

	if upd.Filters != nil {
		settings := make(map[string]json.RawMessage, len(record.WidgetSettings)+1)
		for k, v := range record.WidgetSettings {
			settings[k] = v
		}

		settings[tableID] = upd.Filters
		patch.WidgetSettings = settings
	}

	s.Save(ctx, patch)
}
