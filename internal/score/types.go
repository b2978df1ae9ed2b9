package score

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidResult = errors.New("invalid game result")

// Result is a player's declared match outcome.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// ParseResult validates the wire literal. Anything outside win/loss/draw is
// rejected before it can touch the ledger.
func ParseResult(s string) (Result, error) {
	switch Result(strings.TrimSpace(s)) {
	case ResultWin:
		return ResultWin, nil
	case ResultLoss:
		return ResultLoss, nil
	case ResultDraw:
		return ResultDraw, nil
	default:
		return "", ErrInvalidResult
	}
}

// User is the externally supplied player identity.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Nickname string `json:"nickname"`
}

// PlayerStats is the durable per-player ledger row. Score may go negative;
// the streak resets to zero on any loss or draw and on the third win of a
// run, when the bonus point is granted.
type PlayerStats struct {
	Score       int       `json:"score"`
	Streak      int       `json:"streak"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Draws       int       `json:"draws"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (s PlayerStats) TotalGames() int {
	return s.Wins + s.Losses + s.Draws
}

// WinRate is wins over total games, 0 for a player with no games.
func (s PlayerStats) WinRate() float64 {
	total := s.TotalGames()
	if total == 0 {
		return 0
	}
	return float64(s.Wins) / float64(total)
}

// PlayerRow is the joined identity+ledger row produced by a full scan.
type PlayerRow struct {
	User
	PlayerStats
}
