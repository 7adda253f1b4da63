package client

import (
	"encoding/json"

	"tableside/internal/localstore"
	"tableside/internal/logger"
)

// SessionKey is the fixed namespace the staff session lives under.
const SessionKey = "tableside_staff_session"

// Session is the persisted staff user object.
type Session struct {
	UserID int    `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

// SessionStore persists the staff session. It is cleared on logout or when
// any request comes back 401.
type SessionStore struct {
	storage localstore.Store
	logger  *logger.Logger
}

// NewSessionStore creates a session store over the given storage.
func NewSessionStore(storage localstore.Store, log *logger.Logger) *SessionStore {
	return &SessionStore{storage: storage, logger: log}
}

// Current returns the persisted session, or nil when absent or corrupt.
// A corrupt value is discarded and logged.
func (s *SessionStore) Current() *Session {
	raw, ok := s.storage.Get(SessionKey)
	if !ok {
		return nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Error("session_restore_failed", "Discarding corrupt persisted session", "", err, nil)
		s.storage.Remove(SessionKey)
		return nil
	}
	return &session
}

// Save persists the session.
func (s *SessionStore) Save(session *Session) {
	data, err := json.Marshal(session)
	if err != nil {
		s.logger.Error("session_persist_failed", "Failed to serialize session", "", err, nil)
		return
	}
	s.storage.Set(SessionKey, string(data))
}

// Clear drops the persisted session.
func (s *SessionStore) Clear() {
	s.storage.Remove(SessionKey)
}
