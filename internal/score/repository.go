package score

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("player not found")

// Repository is the durable store behind the ledger. UpdateStats is the only
// mutation path for counters and must apply the read-modify-write atomically
// per player id, creating a zeroed row first when none exists.
type Repository interface {
	UpsertUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	SetNickname(ctx context.Context, id, nickname string) error
	GetStats(ctx context.Context, id string) (*PlayerStats, error)
	UpdateStats(ctx context.Context, id string, mutate func(*PlayerStats) error) (*PlayerStats, error)
	ListPlayers(ctx context.Context) ([]*PlayerRow, error)
	Close() error
}
