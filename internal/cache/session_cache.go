package cache

import (
	"context"
	"errors"
	"quizbank/internal/model"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// SessionCache maps quiz session ids to the questions handed out under them
type SessionCache interface {
	// ResolveOrCreate returns candidateID if it names a live session,
	// otherwise registers an empty session under a fresh id.
	ResolveOrCreate(ctx context.Context, candidateID string) (string, error)
	AttachQuestions(ctx context.Context, id string, questions []model.Question) error
	Get(ctx context.Context, id string) (*model.Session, error)
}

type memoryEntry struct {
	session   model.Session
	expiresAt time.Time
}

// MemorySessionCache keeps sessions in process memory with a sliding TTL
type MemorySessionCache struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionCache creates an in-process session cache
func NewMemorySessionCache(ttl time.Duration) *MemorySessionCache {
	return &MemorySessionCache{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MemorySessionCache) ResolveOrCreate(_ context.Context, candidateID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if candidateID != "" {
		if e, ok := c.sessions[candidateID]; ok && now.Before(e.expiresAt) {
			e.expiresAt = now.Add(c.ttl)
			return candidateID, nil
		}
	}

	id := newSessionID()
	c.sessions[id] = &memoryEntry{
		session:   model.Session{ID: id, Questions: []model.Question{}, CreatedAt: now, UpdatedAt: now},
		expiresAt: now.Add(c.ttl),
	}
	return id, nil
}

func (c *MemorySessionCache) AttachQuestions(_ context.Context, id string, questions []model.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.sessions[id]
	if !ok {
		e = &memoryEntry{session: model.Session{ID: id, CreatedAt: now}}
		c.sessions[id] = e
	}
	e.session.Questions = cloneQuestions(questions)
	e.session.UpdatedAt = now
	e.expiresAt = now.Add(c.ttl)
	return nil
}

func (c *MemorySessionCache) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.sessions[id]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, ErrSessionNotFound
	}
	session := e.session
	session.Questions = cloneQuestions(e.session.Questions)
	return &session, nil
}

// Len returns the number of stored sessions, expired ones included until swept
func (c *MemorySessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// Sweep drops expired sessions and returns how many were removed
func (c *MemorySessionCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, e := range c.sessions {
		if !now.Before(e.expiresAt) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (c *MemorySessionCache) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func newSessionID() string {
	return uuid.New().String()
}

func cloneQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out
}
