// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"planview/internal/snap"
)

const prefsFile = "preferences.json"

// Keys used by the main window.
const (
	KeyLastDir         = "lastDirectory"
	KeyLastProject     = "lastProject"
	KeyUnderlayOpacity = "underlayOpacity"
	KeySnapEndpoint    = "snapEndpoint"
	KeySnapMidpoint    = "snapMidpoint"
	KeySnapThresholdPx = "snapThresholdPx"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/planview/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	p.path = filepath.Join(configDir, "planview", prefsFile)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Float returns a float64 preference, or fallback if not set.
func (p *Prefs) Float(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch n := p.values[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.values[key].(string); ok {
		return s
	}
	return ""
}

// SetString stores a string preference.
func (p *Prefs) SetString(key, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// SnapSettings assembles the stored snap settings, falling back to defaults
// for unset keys.
func (p *Prefs) SnapSettings() snap.Settings {
	def := snap.DefaultSettings()
	return snap.Settings{
		EnableEndpoint: p.Bool(KeySnapEndpoint, def.EnableEndpoint),
		EnableMidpoint: p.Bool(KeySnapMidpoint, def.EnableMidpoint),
		ThresholdPx:    p.Float(KeySnapThresholdPx, def.ThresholdPx),
	}
}

// SetSnapSettings stores snap settings.
func (p *Prefs) SetSnapSettings(s snap.Settings) {
	p.SetBool(KeySnapEndpoint, s.EnableEndpoint)
	p.SetBool(KeySnapMidpoint, s.EnableMidpoint)
	p.SetFloat(KeySnapThresholdPx, s.ThresholdPx)
}
