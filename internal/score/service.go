package score

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/xo-arena/internal/cache"
)

var (
	ErrInvalidNickname = errors.New("invalid nickname")
)

const (
	nicknameMinLen = 3
	nicknameMaxLen = 24

	leaderboardCacheKey = "scores:leaderboard"
)

var nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// Service owns the result-recording transaction and every derived read over
// the ledger.
type Service struct {
	repo   Repository
	boards *cache.Cache
	logger *zap.Logger
}

func NewService(repo Repository, boards *cache.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, boards: boards, logger: logger}
}

// Overview is one player's stats snapshot plus its derived fields, shaped
// for the /api/user response.
type Overview struct {
	User    User
	Stats   PlayerStats
	WinRate float64
	Rank    Rank
}

// EnsureUser upserts the login identity and guarantees both a nickname and a
// zeroed ledger row exist.
func (s *Service) EnsureUser(ctx context.Context, user User) error {
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("empty user id")
	}
	if strings.TrimSpace(user.Nickname) == "" {
		user.Nickname = DefaultNickname(user.ID)
	}
	if err := s.repo.UpsertUser(ctx, &user); err != nil {
		return err
	}
	// Creates the zeroed stats row when absent; existing counters are kept.
	if _, err := s.repo.UpdateStats(ctx, user.ID, func(*PlayerStats) error { return nil }); err != nil {
		return err
	}
	return nil
}

// RecordResult applies one declared outcome to the player's ledger and
// reports the post-transaction stats plus whether the streak bonus fired.
func (s *Service) RecordResult(ctx context.Context, userID string, result Result) (*PlayerStats, bool, error) {
	bonus := false
	stats, err := s.repo.UpdateStats(ctx, userID, func(st *PlayerStats) error {
		switch result {
		case ResultWin:
			st.Wins++
			st.Score++
			st.Streak++
			if st.Streak >= 3 {
				st.Score++
				st.Streak = 0
				bonus = true
			}
		case ResultLoss:
			st.Losses++
			st.Score--
			st.Streak = 0
		case ResultDraw:
			st.Draws++
			st.Streak = 0
		default:
			return ErrInvalidResult
		}
		st.LastUpdated = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if cerr := s.boards.Invalidate(ctx, leaderboardCacheKey); cerr != nil {
		s.logger.Warn("leaderboard_cache_invalidate", zap.Error(cerr))
	}
	s.logger.Info("result_record",
		zap.String("user_id", userID),
		zap.String("result", string(result)),
		zap.Int("score", stats.Score),
		zap.Int("streak", stats.Streak),
		zap.Bool("bonus", bonus),
	)
	return stats, bonus, nil
}

// PlayerOverview assembles the identity row, counters and derived fields for
// one player. Unknown players come back zeroed with a generated nickname,
// matching the pre-first-game shape.
func (s *Service) PlayerOverview(ctx context.Context, userID string) (*Overview, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		user = &User{ID: userID, Nickname: DefaultNickname(userID)}
	} else if err != nil {
		return nil, err
	}
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	winRate := stats.WinRate()
	return &Overview{
		User:    *user,
		Stats:   *stats,
		WinRate: winRate,
		Rank:    Classify(winRate, stats.Score, stats.Wins),
	}, nil
}

// UpdateNickname validates and persists a nickname, returning the trimmed
// value that was stored.
func (s *Service) UpdateNickname(ctx context.Context, userID, nickname string) (string, error) {
	trimmed := strings.TrimSpace(nickname)
	if len(trimmed) < nicknameMinLen || len(trimmed) > nicknameMaxLen {
		return "", ErrInvalidNickname
	}
	if !nicknamePattern.MatchString(trimmed) {
		return "", ErrInvalidNickname
	}
	if err := s.repo.SetNickname(ctx, userID, trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// Leaderboard builds the full ordered board, serving a recent snapshot from
// the cache when one exists. Slightly stale reads are fine here.
func (s *Service) Leaderboard(ctx context.Context) ([]Entry, error) {
	var cached []Entry
	if hit, err := s.boards.GetJSON(ctx, leaderboardCacheKey, &cached); err != nil {
		s.logger.Warn("leaderboard_cache_read", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	rows, err := s.repo.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	entries := BuildLeaderboard(rows)
	if err := s.boards.SetJSON(ctx, leaderboardCacheKey, entries); err != nil {
		s.logger.Warn("leaderboard_cache_write", zap.Error(err))
	}
	return entries, nil
}

// Summary returns the top slice and, when the requester sits below it, their
// own entry with its true position.
func (s *Service) Summary(ctx context.Context, playerID string) ([]Entry, *Entry, error) {
	entries, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, nil, err
	}
	top, own := Summarize(entries, playerID)
	return top, own, nil
}

// DefaultNickname derives the initial nickname from the identity tail, e.g.
// "player04821". Ids with fewer than five usable characters are left-padded
// with zeros; fully unusable ids get a random suffix.
func DefaultNickname(id string) string {
	var clean []byte
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			clean = append(clean, byte(r))
		}
	}
	suffix := string(clean)
	if len(suffix) > 5 {
		suffix = suffix[len(suffix)-5:]
	}
	if suffix == "" {
		const digits = "0123456789"
		b := make([]byte, 5)
		for i := range b {
			b[i] = digits[rand.IntN(len(digits))]
		}
		suffix = string(b)
	}
	for len(suffix) < 5 {
		suffix = "0" + suffix
	}
	return strings.ToLower("player" + suffix)
}
