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
)

// Theme values the dashboard understands.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ViewCategory names a dashboard feed whose last-viewed time is tracked.
type ViewCategory string

const (
	ViewAlerts      ViewCategory = "alerts"
	ViewConnections ViewCategory = "connections"
	ViewThreats     ViewCategory = "threats"
)

// Preferences is the single persisted record of dashboard display settings.
// JSON field names follow the dashboard schema.
type Preferences struct {
	Theme             string                     `json:"theme"`
	AutoRefresh       bool                       `json:"autoRefresh"`
	RefreshInterval   int                        `json:"refreshInterval"`
	DashboardLayout   string                     `json:"dashboardLayout"`
	WidgetSettings    map[string]json.RawMessage `json:"widgetSettings"`
	AlertFilters      AlertFilters               `json:"alertFilters"`
	ConnectionFilters ConnectionFilters          `json:"connectionFilters"`
	TablePageSize     int                        `json:"tablePageSize"`
	SortBy            map[string]string          `json:"sortBy"`
	LastViewed        LastViewed                 `json:"lastViewed"`
}

// AlertFilters narrows the alert table by severity, triage status and age.
type AlertFilters struct {
	Severity  []string `json:"severity"`
	Status    []string `json:"status"`
	DateRange string   `json:"dateRange"`
}

// ConnectionFilters narrows the connection table.
type ConnectionFilters struct {
	Protocol []string `json:"protocol"`
	Status   []string `json:"status"`
}

// LastViewed records when each feed was last opened, RFC3339 or empty.
type LastViewed struct {
	Alerts      string `json:"alerts"`
	Connections string `json:"connections"`
	Threats     string `json:"threats"`
}

// RefreshInterval and TablePageSize defaults for a fresh install.
const (
	DefaultRefreshIntervalMs = 30000
	DefaultTablePageSize     = 25
	DefaultDateRange         = "24h"
	DefaultDashboardLayout   = "default"
)

// DefaultPreferences returns the record used when nothing is stored. Callers
// receive a fresh instance and may mutate it freely.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Theme:           ThemeLight,
		AutoRefresh:     true,
		RefreshInterval: DefaultRefreshIntervalMs,
		DashboardLayout: DefaultDashboardLayout,
		WidgetSettings:  map[string]json.RawMessage{},
		AlertFilters: AlertFilters{
			Severity:  []string{},
			Status:    []string{},
			DateRange: DefaultDateRange,
		},
		ConnectionFilters: ConnectionFilters{
			Protocol: []string{},
			Status:   []string{},
		},
		TablePageSize: DefaultTablePageSize,
		SortBy:        map[string]string{},
		LastViewed:    LastViewed{},
	}
}

// PreferencesPatch carries a partial update. A nil field leaves the stored
// value untouched; a present field replaces it wholesale. Sub-records are
// never merged element by element here.
type PreferencesPatch struct {
	Theme             *string                    `json:"theme,omitempty"`
	AutoRefresh       *bool                      `json:"autoRefresh,omitempty"`
	RefreshInterval   *int                       `json:"refreshInterval,omitempty"`
	DashboardLayout   *string                    `json:"dashboardLayout,omitempty"`
	WidgetSettings    map[string]json.RawMessage `json:"widgetSettings,omitempty"`
	AlertFilters      *AlertFilters              `json:"alertFilters,omitempty"`
	ConnectionFilters *ConnectionFilters         `json:"connectionFilters,omitempty"`
	TablePageSize     *int                       `json:"tablePageSize,omitempty"`
	SortBy            map[string]string          `json:"sortBy,omitempty"`
	LastViewed        *LastViewed                `json:"lastViewed,omitempty"`
}

// Apply overlays the present fields of the patch onto base.
func (p *PreferencesPatch) Apply(base *Preferences) {
	if p == nil || base == nil {
		return
	}

	if p.Theme != nil {
		base.Theme = *p.Theme
	}

	if p.AutoRefresh != nil {
		base.AutoRefresh = *p.AutoRefresh
	}

	if p.RefreshInterval != nil {
		base.RefreshInterval = *p.RefreshInterval
	}

	if p.DashboardLayout != nil {
		base.DashboardLayout = *p.DashboardLayout
	}

	if p.WidgetSettings != nil {
		base.WidgetSettings = p.WidgetSettings
	}

	if p.AlertFilters != nil {
		base.AlertFilters = *p.AlertFilters
	}

	if p.ConnectionFilters != nil {
		base.ConnectionFilters = *p.ConnectionFilters
	}

	if p.TablePageSize != nil {
		base.TablePageSize = *p.TablePageSize
	}

	if p.SortBy != nil {
		base.SortBy = p.SortBy
	}

	if p.LastViewed != nil {
		base.LastViewed = *p.LastViewed
	}
}
