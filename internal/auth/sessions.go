package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName carries the opaque session id to the browser.
const CookieName = "xo_sid"

var ErrNoSession = errors.New("no active session")

// Profile is the normalized identity an OAuth provider yields on login.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// SessionStore maps opaque session ids to logged-in profiles. Sessions
// expire server-side; Get on a missing or expired id returns ErrNoSession.
type SessionStore interface {
	Create(ctx context.Context, profile Profile) (string, error)
	Get(ctx context.Context, sid string) (*Profile, error)
	Destroy(ctx context.Context, sid string) error
}

type redisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore keeps sessions in Redis so they survive restarts and
// are shared across instances.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &redisSessions{rdb: rdb, ttl: ttl}
}

func sessionKey(sid string) string { return "sess:" + strings.TrimSpace(sid) }

func (s *redisSessions) Create(ctx context.Context, profile Profile) (string, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(sid), raw, s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *redisSessions) Get(ctx context.Context, sid string) (*Profile, error) {
	if strings.TrimSpace(sid) == "" {
		return nil, ErrNoSession
	}
	raw, err := s.rdb.Get(ctx, sessionKey(sid)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	// Sliding expiry: a session in active use stays alive.
	_ = s.rdb.Expire(ctx, sessionKey(sid), s.ttl).Err()
	return &p, nil
}

func (s *redisSessions) Destroy(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}
