package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// SessionRecord is the server-side state behind a cookie session: a claims
// snapshot plus its validity window. The cookie itself only ever carries the
// opaque ID.
type SessionRecord struct {
	ID        string         `json:"id"`
	Claims    *SessionClaims `json:"claims"`
	IssuedAt  time.Time      `json:"issued_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Sliding   bool           `json:"sliding"`
}

// Expired reports whether the record's absolute expiry has passed
func (s *SessionRecord) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore persists session records. Implementations return (nil, nil)
// for unknown ids; the manager maps misses and expiry to auth errors.
type SessionStore interface {
	Create(ctx context.Context, rec *SessionRecord) error
	Get(ctx context.Context, id string) (*SessionRecord, error)
	Update(ctx context.Context, rec *SessionRecord) error
	Delete(ctx context.Context, id string) error
}

// GenerateSessionID returns a 256 bit random identifier. The id is the only
// secret binding a client to its server-side session, so it comes straight
// from the CSPRNG.
func GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate session id")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MemoryStore is a mutex-guarded in-process SessionStore. Expired records
// are dropped lazily on read.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]SessionRecord
}

var _ SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]SessionRecord),
	}
}

func (m *MemoryStore) Create(_ context.Context, rec *SessionRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New("session record requires an id", errors.CategoryBadInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[rec.ID] = *rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*SessionRecord, error) {
	m.mu.RLock()
	rec, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if rec.Expired(time.Now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, nil
	}

	return &rec, nil
}

func (m *MemoryStore) Update(_ context.Context, rec *SessionRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New("session record requires an id", errors.CategoryBadInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[rec.ID]; !ok {
		return ErrUnableToFindSession
	}

	m.sessions[rec.ID] = *rec
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of live records, counting not yet reaped expired
// ones. Intended for tests and diagnostics.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
