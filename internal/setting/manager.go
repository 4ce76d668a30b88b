package setting

import (
	"fmt"
	"sort"
	"sync"
)

// Manager maps ruleset ids to validated settings. Lookups are safe for
// concurrent use; the settings themselves are never modified.
type Manager struct {
	mu       sync.RWMutex
	settings map[string]*GameSetting
}

func NewManager(settings ...*GameSetting) (*Manager, error) {
	m := &Manager{settings: map[string]*GameSetting{}}
	for _, gs := range settings {
		if err := m.Register(gs); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register adds gs. Registering the same id twice is an error.
func (m *Manager) Register(gs *GameSetting) error {
	if gs == nil {
		return fmt.Errorf("register game setting: nil setting")
	}
	if gs.GameSettingID == "" {
		return fmt.Errorf("register game setting %q: empty id", gs.GameSettingName)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.settings[gs.GameSettingID]; ok {
		return fmt.Errorf("register game setting: duplicate id %q", gs.GameSettingID)
	}
	m.settings[gs.GameSettingID] = gs
	return nil
}

// Get returns the setting registered under id.
func (m *Manager) Get(id string) (*GameSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if gs, ok := m.settings[id]; ok {
		return gs, nil
	}
	ids := make([]string, 0, len(m.settings))
	for k := range m.settings {
		ids = append(ids, k)
	}
	return nil, UnknownSettingError{ID: id, Suggestion: closest(id, ids)}
}

// IDs lists the registered ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.settings))
	for k := range m.settings {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}
