package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memSessions is the fallback store used when no Redis is configured.
// Sessions live only as long as the process.
type memSessions struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]memSession
}

type memSession struct {
	profile Profile
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &memSessions{ttl: ttl, data: make(map[string]memSession)}
}

func (s *memSessions) Create(ctx context.Context, profile Profile) (string, error) {
	sid := uuid.NewString()
	s.mu.Lock()
	s.data[sid] = memSession{profile: profile, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return sid, nil
}

func (s *memSessions) Get(ctx context.Context, sid string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[sid]
	if !ok {
		return nil, ErrNoSession
	}
	if time.Now().After(sess.expires) {
		delete(s.data, sid)
		return nil, ErrNoSession
	}
	sess.expires = time.Now().Add(s.ttl)
	s.data[sid] = sess
	p := sess.profile
	return &p, nil
}

func (s *memSessions) Destroy(ctx context.Context, sid string) error {
	s.mu.Lock()
	delete(s.data, sid)
	s.mu.Unlock()
	return nil
}
