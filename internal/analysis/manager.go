package analysis

import (
	"sync"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/signature"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/sink"
)

// SessionManager hands out one Session per session id. Sessions share the
// engine and forwarder but keep their own history and single-flight gate.
// SessionManager 按会话 ID 分配 Session。
type SessionManager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	engine    *signature.Engine
	forwarder *sink.Forwarder
	notifier  Notifier
	maxUpload int64
}

// NewSessionManager creates an empty manager.
func NewSessionManager(engine *signature.Engine, forwarder *sink.Forwarder, notifier Notifier, maxUpload int64) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Session),
		engine:    engine,
		forwarder: forwarder,
		notifier:  notifier,
		maxUpload: maxUpload,
	}
}

// Session returns the session for id, creating it on first use.
func (m *SessionManager) Session(id string) *Session {
	if id == "" {
		id = "default"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[id]; ok {
		return existing
	}
	session := NewSession(id, m.engine, m.forwarder, m.notifier, m.maxUpload)
	m.sessions[id] = session
	return session
}
