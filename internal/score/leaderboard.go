package score

import (
	"sort"
	"time"
)

// Entry is one leaderboard line: identity, ledger counters and the derived
// win rate, rank and 1-based position.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Nickname    string    `json:"nickname"`
	Photo       string    `json:"photo"`
	Score       int       `json:"score"`
	Streak      int       `json:"streak"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	Draws       int       `json:"draws"`
	WinRate     float64   `json:"winRate"`
	Rank        Rank      `json:"rank"`
	Position    int       `json:"position"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// SummaryTopSize bounds the scoreboard summary view.
const SummaryTopSize = 5

// BuildLeaderboard orders all rows by win rate, then score, then wins, all
// descending, and annotates positions. The sort is stable so exact ties keep
// the scan order, which makes the output deterministic for a fixed input.
func BuildLeaderboard(rows []*PlayerRow) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		winRate := row.WinRate()
		entries = append(entries, Entry{
			ID:          row.User.ID,
			Name:        row.User.Name,
			Nickname:    row.User.Nickname,
			Photo:       row.User.Photo,
			Score:       row.Score,
			Streak:      row.Streak,
			Wins:        row.Wins,
			Losses:      row.Losses,
			Draws:       row.Draws,
			WinRate:     winRate,
			Rank:        Classify(winRate, row.Score, row.Wins),
			LastUpdated: row.LastUpdated,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WinRate != entries[j].WinRate {
			return entries[i].WinRate > entries[j].WinRate
		}
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Wins > entries[j].Wins
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// Summarize returns the top entries plus the requesting player's own entry
// when it sits outside the top, carrying its true position from the full
// ordering. The player entry is nil when playerID is empty, unknown, or
// already inside the top slice.
func Summarize(entries []Entry, playerID string) ([]Entry, *Entry) {
	top := entries
	if len(top) > SummaryTopSize {
		top = top[:SummaryTopSize]
	}
	if playerID == "" {
		return top, nil
	}
	for i := range top {
		if top[i].ID == playerID {
			return top, nil
		}
	}
	for i := range entries {
		if entries[i].ID == playerID {
			own := entries[i]
			return top, &own
		}
	}
	return top, nil
}
