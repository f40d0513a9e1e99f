package state

import "sync"

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryManager returns a Manager backed by a map.
func NewMemoryManager() Manager {
	return &memoryManager{sessions: make(map[int64]*Session)}
}

// session returns the live session for chatID, creating it. Callers hold mu.
func (m *memoryManager) session(chatID int64) *Session {
	s, ok := m.sessions[chatID]
	if !ok {
		s = &Session{State: StateIdle, TempData: make(map[string]any)}
		m.sessions[chatID] = s
	}
	return s
}

func (m *memoryManager) SetState(chatID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).State = st
}

func (m *memoryManager) GetState(chatID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[chatID]; ok {
		return s.State
	}
	return StateIdle
}

func (m *memoryManager) SetTemp(chatID int64, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).TempData[key] = value
}

func (m *memoryManager) GetTemp(chatID int64, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return nil, false
	}
	v, ok := s.TempData[key]
	return v, ok
}

func (m *memoryManager) GetTempString(chatID int64, key string) (string, bool) {
	v, ok := m.GetTemp(chatID, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetTempStrings returns a copy so callers can append without racing the store.
func (m *memoryManager) GetTempStrings(chatID int64, key string) ([]string, bool) {
	v, ok := m.GetTemp(chatID, key)
	if !ok {
		return nil, false
	}
	ss, ok := v.([]string)
	if !ok {
		return nil, false
	}
	return append([]string(nil), ss...), true
}

func (m *memoryManager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}
