package chatbot

import (
	"sync"
	"time"

	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
)

const (
	// DefaultSessionIdle is how long an unused session is kept.
	DefaultSessionIdle = 30 * time.Minute
	// DefaultMaxSessions caps the session table.
	DefaultMaxSessions = 10000
)

// Sessions hands out one Orchestrator per client so that the in-flight
// rule applies per conversation rather than per server.
type Sessions struct {
	kb     KnowledgeBase
	ai     AIClient
	cfg    Config
	logger *observability.Logger
	idle   time.Duration
	limit  int
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	orch     *Orchestrator
	lastUsed time.Time
}

// NewSessions creates a session table holding at most limit sessions.
// idle <= 0 uses DefaultSessionIdle and limit <= 0 uses DefaultMaxSessions.
func NewSessions(kb KnowledgeBase, ai AIClient, cfg Config, idle time.Duration, limit int, logger *observability.Logger) *Sessions {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Sessions{
		kb:       kb,
		ai:       ai,
		cfg:      cfg,
		logger:   logger,
		idle:     idle,
		limit:    limit,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Get returns the orchestrator for clientID, creating it on first use.
// Idle sessions that are not processing are dropped on the way. When the
// table is full the least recently used session that is not processing
// makes room; if every session is busy the new one is not kept.
func (s *Sessions) Get(clientID string) *Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if id != clientID && now.Sub(sess.lastUsed) > s.idle && !sess.orch.Processing() {
			delete(s.sessions, id)
		}
	}

	sess, ok := s.sessions[clientID]
	if !ok {
		sess = &session{orch: New(s.kb, s.ai, s.cfg, s.logger)}
		if len(s.sessions) >= s.limit && !s.evictOldest() {
			s.logger.Warn().Int("sessions", len(s.sessions)).Msg("session table full")
			return sess.orch
		}
		s.sessions[clientID] = sess
	}
	sess.lastUsed = now
	return sess.orch
}

// evictOldest drops the least recently used idle session. Callers hold mu.
func (s *Sessions) evictOldest() bool {
	var oldestID string
	var oldest *session
	for id, sess := range s.sessions {
		if sess.orch.Processing() {
			continue
		}
		if oldest == nil || sess.lastUsed.Before(oldest.lastUsed) {
			oldestID, oldest = id, sess
		}
	}
	if oldest == nil {
		return false
	}
	delete(s.sessions, oldestID)
	return true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
