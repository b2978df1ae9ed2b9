package xodto

// UserInfo is the identity block nested in the /api/user response.
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Nickname string `json:"nickname"`
}

// UserResponse is the /api/user payload: identity plus the current ledger
// snapshot and derived fields.
type UserResponse struct {
	User     UserInfo `json:"user"`
	Score    int      `json:"score"`
	Streak   int      `json:"streak"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
	Draws    int      `json:"draws"`
	WinRate  float64  `json:"winRate"`
	Rank     string   `json:"rank"`
	Nickname string   `json:"nickname"`
}

// NicknameRequest is the PUT /api/user/nickname body.
type NicknameRequest struct {
	Nickname string `json:"nickname"`
}

// NicknameResponse echoes the stored nickname.
type NicknameResponse struct {
	Nickname string `json:"nickname"`
}
