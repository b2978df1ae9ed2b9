package score

import (
	"context"
	"strings"
	"sync"
)

// memrepo is a development and test repository used when no database is
// configured. The single mutex makes every UpdateStats call atomic per
// player, matching the contract of the Postgres implementation.
type memrepo struct {
	mu sync.RWMutex

	users map[string]*User
	stats map[string]*PlayerStats
	order []string // insertion order, keeps ListPlayers deterministic
}

func NewMemoryRepository() Repository {
	return &memrepo{
		users: make(map[string]*User),
		stats: make(map[string]*PlayerStats),
	}
}

func (m *memrepo) Close() error { return nil }

func (m *memrepo) UpsertUser(ctx context.Context, user *User) error {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return ErrUserNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		cp := *user
		m.users[user.ID] = &cp
		m.ensureKnownLocked(user.ID)
		return nil
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Photo = user.Photo
	if existing.Nickname == "" {
		existing.Nickname = user.Nickname
	}
	return nil
}

func (m *memrepo) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memrepo) SetNickname(ctx context.Context, id, nickname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Nickname = nickname
	return nil
}

func (m *memrepo) GetStats(ctx context.Context, id string) (*PlayerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stats[id]
	if !ok {
		return &PlayerStats{}, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memrepo) UpdateStats(ctx context.Context, id string, mutate func(*PlayerStats) error) (*PlayerStats, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrUserNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[id]
	if !ok {
		s = &PlayerStats{}
	}
	work := *s
	if err := mutate(&work); err != nil {
		return nil, err
	}
	m.stats[id] = &work
	if _, known := m.users[id]; !known {
		m.users[id] = &User{ID: id}
	}
	m.ensureKnownLocked(id)
	cp := work
	return &cp, nil
}

func (m *memrepo) ListPlayers(ctx context.Context) ([]*PlayerRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*PlayerRow, 0, len(m.order))
	for _, id := range m.order {
		stats, ok := m.stats[id]
		if !ok {
			continue
		}
		user := m.users[id]
		if user == nil {
			user = &User{ID: id}
		}
		out = append(out, &PlayerRow{User: *user, PlayerStats: *stats})
	}
	return out, nil
}

func (m *memrepo) ensureKnownLocked(id string) {
	for _, known := range m.order {
		if known == id {
			return
		}
	}
	m.order = append(m.order, id)
}
