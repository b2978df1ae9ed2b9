package xodto

// ResultRequest is the POST /api/game/result body. The result literal must
// be one of "win", "loss" or "draw".
type ResultRequest struct {
	Result string `json:"result"`
}

// ResultResponse carries the post-transaction ledger plus derived fields.
type ResultResponse struct {
	Score        int     `json:"score"`
	Streak       int     `json:"streak"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	WinRate      float64 `json:"winRate"`
	Rank         string  `json:"rank"`
	BonusAwarded bool    `json:"bonusAwarded"`
}

// PlayCommand is a client message on the live-play socket.
type PlayCommand struct {
	Type  string `json:"type"`            // "move" or "reset"
	Cell  int    `json:"cell,omitempty"`  // move target, 0..8
	First string `json:"first,omitempty"` // reset: "player", "bot" or empty for random
}

// PlayEvent is a server message on the live-play socket.
type PlayEvent struct {
	Type       string          `json:"type"` // "state", "result" or "error"
	Board      []string        `json:"board,omitempty"`
	PlayerMark string          `json:"playerMark,omitempty"`
	BotMark    string          `json:"botMark,omitempty"`
	PlayerTurn bool            `json:"playerTurn,omitempty"`
	Finished   bool            `json:"finished,omitempty"`
	Outcome    string          `json:"outcome,omitempty"`
	Stats      *ResultResponse `json:"stats,omitempty"`
	Error      string          `json:"error,omitempty"`
}
