package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()

	assert.Equal(t, ThemeLight, p.Theme)
	assert.True(t, p.AutoRefresh)
	assert.Equal(t, DefaultRefreshIntervalMs, p.RefreshInterval)
	assert.Equal(t, DefaultDashboardLayout, p.DashboardLayout)
	assert.NotNil(t, p.WidgetSettings)
	assert.Empty(t, p.WidgetSettings)
	assert.Empty(t, p.AlertFilters.Severity)
	assert.Empty(t, p.AlertFilters.Status)
	assert.Equal(t, DefaultDateRange, p.AlertFilters.DateRange)
	assert.Empty(t, p.ConnectionFilters.Protocol)
	assert.Empty(t, p.ConnectionFilters.Status)
	assert.Equal(t, DefaultTablePageSize, p.TablePageSize)
	assert.NotNil(t, p.SortBy)
	assert.Empty(t, p.SortBy)
	assert.Equal(t, LastViewed{}, p.LastViewed)
}

func TestDefaultPreferencesReturnsFreshInstance(t *testing.T) {
	a := DefaultPreferences()
	a.Theme = ThemeDark
	a.SortBy["connections"] = "desc"

	b := DefaultPreferences()

	assert.Equal(t, ThemeLight, b.Theme)
	assert.Empty(t, b.SortBy)
}

func TestPreferencesPatchApply(t *testing.T) {
	theme := ThemeDark
	pageSize := 50
	interval := 60000

	tests := []struct {
		name  string
		setup func(p *Preferences)
		patch *PreferencesPatch
		check func(t *testing.T, p *Preferences)
	}{
		{
			name:  "nil patch leaves defaults untouched",
			patch: nil,
			check: func(t *testing.T, p *Preferences) {
				assert.Equal(t, DefaultPreferences(), p)
			},
		},
		{
			name:  "theme only",
			patch: &PreferencesPatch{Theme: &theme},
			check: func(t *testing.T, p *Preferences) {
				assert.Equal(t, ThemeDark, p.Theme)

				want := DefaultPreferences()
				want.Theme = ThemeDark
				assert.Equal(t, want, p)
			},
		},
		{
			name: "sub-record replaced wholesale",
			patch: &PreferencesPatch{
				AlertFilters: &AlertFilters{Severity: []string{"critical"}},
			},
			check: func(t *testing.T, p *Preferences) {
				assert.Equal(t, []string{"critical"}, p.AlertFilters.Severity)
				// Absent sub-fields of a replaced record do not survive.
				assert.Empty(t, p.AlertFilters.DateRange)
			},
		},
		{
			name: "sortBy map replaced, not merged",
			patch: &PreferencesPatch{
				SortBy: map[string]string{"alerts": "desc"},
			},
			check: func(t *testing.T, p *Preferences) {
				assert.Equal(t, map[string]string{"alerts": "desc"}, p.SortBy)
			},
		},
		{
			name: "numeric fields",
			patch: &PreferencesPatch{
				TablePageSize:   &pageSize,
				RefreshInterval: &interval,
			},
			check: func(t *testing.T, p *Preferences) {
				assert.Equal(t, 50, p.TablePageSize)
				assert.Equal(t, 60000, p.RefreshInterval)
				assert.Equal(t, ThemeLight, p.Theme)
			},
		},
		{
			name: "lastViewed cleared",
			setup: func(p *Preferences) {
				p.LastViewed = LastViewed{Alerts: "2025-08-25T10:00:00Z"}
			},
			patch: &PreferencesPatch{
				LastViewed: &LastViewed{},
			},
			check: func(t *testing.T, p *Preferences) {
				assert.Equal(t, LastViewed{}, p.LastViewed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultPreferences()
			if tt.setup != nil {
				tt.setup(base)
			}

			tt.patch.Apply(base)
			tt.check(t, base)
		})
	}
}

func TestPreferencesPatchDecode(t *testing.T) {
	var patch PreferencesPatch

	err := json.Unmarshal([]byte(`{"theme":"dark","tablePageSize":100}`), &patch)
	require.NoError(t, err)

	require.NotNil(t, patch.Theme)
	assert.Equal(t, ThemeDark, *patch.Theme)
	require.NotNil(t, patch.TablePageSize)
	assert.Equal(t, 100, *patch.TablePageSize)

	assert.Nil(t, patch.AutoRefresh)
	assert.Nil(t, patch.AlertFilters)
	assert.Nil(t, patch.SortBy)
	assert.Nil(t, patch.LastViewed)
}

func TestPreferencesJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultPreferences())
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"theme", "autoRefresh", "refreshInterval", "dashboardLayout",
		"widgetSettings", "alertFilters", "connectionFilters",
		"tablePageSize", "sortBy", "lastViewed",
	} {
		assert.Contains(t, m, key)
	}
}
