package score

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type pgRepository struct {
	db *sql.DB
}

// NewPostgresRepository opens the database, verifies connectivity and
// bootstraps the schema.
func NewPostgresRepository(databaseURL string) (Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	r := &pgRepository{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return r, nil
}

func (r *pgRepository) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			photo TEXT NOT NULL DEFAULT '',
			nickname TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS stats (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			score INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			draws INTEGER NOT NULL DEFAULT 0,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *pgRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *pgRepository) UpsertUser(ctx context.Context, user *User) error {
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("nil or anonymous user payload")
	}
	const q = `
		INSERT INTO users (id, name, email, photo, nickname, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			photo = EXCLUDED.photo,
			nickname = CASE WHEN users.nickname = '' THEN EXCLUDED.nickname ELSE users.nickname END,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, q, user.ID, user.Name, user.Email, user.Photo, user.Nickname); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *pgRepository) GetUser(ctx context.Context, id string) (*User, error) {
	const q = `SELECT id, name, email, photo, nickname FROM users WHERE id = $1`
	var u User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.Photo, &u.Nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *pgRepository) SetNickname(ctx context.Context, id, nickname string) error {
	const q = `UPDATE users SET nickname = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, nickname)
	if err != nil {
		return fmt.Errorf("set nickname: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *pgRepository) GetStats(ctx context.Context, id string) (*PlayerStats, error) {
	const q = `SELECT score, streak, wins, losses, draws, last_updated FROM stats WHERE user_id = $1`
	var s PlayerStats
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.Score, &s.Streak, &s.Wins, &s.Losses, &s.Draws, &s.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return &PlayerStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &s, nil
}

// UpdateStats runs the read-modify-write under a row lock so that two
// transactions for the same player can never interleave. A missing row is
// created zeroed inside the same transaction.
func (r *pgRepository) UpdateStats(ctx context.Context, id string, mutate func(*PlayerStats) error) (*PlayerStats, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("empty player id")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin stats tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id); err != nil {
		return nil, fmt.Errorf("ensure user row: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, id); err != nil {
		return nil, fmt.Errorf("ensure stats row: %w", err)
	}

	var s PlayerStats
	err = tx.QueryRowContext(ctx,
		`SELECT score, streak, wins, losses, draws, last_updated FROM stats WHERE user_id = $1 FOR UPDATE`, id).
		Scan(&s.Score, &s.Streak, &s.Wins, &s.Losses, &s.Draws, &s.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("lock stats row: %w", err)
	}

	if err := mutate(&s); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE stats SET score = $2, streak = $3, wins = $4, losses = $5, draws = $6, last_updated = $7
		 WHERE user_id = $1`,
		id, s.Score, s.Streak, s.Wins, s.Losses, s.Draws, s.LastUpdated); err != nil {
		return nil, fmt.Errorf("write stats row: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stats tx: %w", err)
	}
	return &s, nil
}

func (r *pgRepository) ListPlayers(ctx context.Context) ([]*PlayerRow, error) {
	const q = `
		SELECT s.user_id, u.name, u.email, u.photo, u.nickname,
			s.score, s.streak, s.wins, s.losses, s.draws, s.last_updated
		FROM stats s
		INNER JOIN users u ON u.id = s.user_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []*PlayerRow
	for rows.Next() {
		var row PlayerRow
		if err := rows.Scan(&row.User.ID, &row.User.Name, &row.User.Email, &row.User.Photo, &row.User.Nickname,
			&row.Score, &row.Streak, &row.Wins, &row.Losses, &row.Draws, &row.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
