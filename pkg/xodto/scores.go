package xodto

import "time"

// ScoreEntry is one leaderboard line as served by the /api/scores family.
type ScoreEntry struct {
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
	Rank        string    `json:"rank"`
	Position    int       `json:"position"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// SummaryResponse is the /api/scores/summary payload: the top slice plus the
// requester's own entry when it falls outside it.
type SummaryResponse struct {
	Top    []ScoreEntry `json:"top"`
	Player *ScoreEntry  `json:"player"`
}

// ScoresEvent is pushed on the scoreboard socket after every recorded
// result.
type ScoresEvent struct {
	Type string       `json:"type"` // "scores"
	Top  []ScoreEntry `json:"top"`
}
