package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"
)

var (
	ErrGameFinished  = errors.New("game already finished")
	ErrNotPlayerTurn = errors.New("not the player's turn")
	ErrCellOccupied  = errors.New("cell already occupied")
	ErrInvalidCell   = errors.New("cell index out of range")
	ErrSessionClosed = errors.New("session closed")
)

// FirstMover forces who opens a session. FirstRandom flips a coin.
type FirstMover string

const (
	FirstRandom FirstMover = ""
	FirstPlayer FirstMover = "player"
	FirstBot    FirstMover = "bot"
)

const (
	defaultMoveDelay = 450 * time.Millisecond
	defaultOpenDelay = 500 * time.Millisecond
)

// Snapshot is an immutable view of a session, safe to hand across
// goroutines and to serialize as-is.
type Snapshot struct {
	Board      Board   `json:"board"`
	PlayerMark Mark    `json:"playerMark"`
	BotMark    Mark    `json:"botMark"`
	PlayerTurn bool    `json:"playerTurn"`
	Finished   bool    `json:"finished"`
	Outcome    Outcome `json:"outcome,omitempty"`
}

type SessionConfig struct {
	Policy     *Policy
	PlayerMark Mark          // defaults to O; the bot takes the complement
	First      FirstMover    // defaults to FirstRandom
	MoveDelay  time.Duration // bot "thinking" pause after a player move
	OpenDelay  time.Duration // bot pause before an opening move
	OnUpdate   func(Snapshot)
	Rand       *rand.Rand
}

// Session is a single match between the player and the scripted opponent.
// The bot's reply runs as a delayed cancellable task; a reset, a new move or
// Close always cancels a pending reply before anything else happens, so a
// stale timer can never mutate a session that has moved on. Exactly one cell
// changes per accepted transition and the board is frozen once terminal.
type Session struct {
	mu sync.Mutex

	policy     *Policy
	playerMark Mark
	botMark    Mark
	moveDelay  time.Duration
	openDelay  time.Duration
	onUpdate   func(Snapshot)
	rng        *rand.Rand

	board      Board
	playerTurn bool
	outcome    Outcome

	timer  *time.Timer
	gen    uint64
	closed bool
}

func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		policy:     cfg.Policy,
		playerMark: cfg.PlayerMark,
		moveDelay:  cfg.MoveDelay,
		openDelay:  cfg.OpenDelay,
		onUpdate:   cfg.OnUpdate,
		rng:        cfg.Rand,
	}
	if s.policy == nil {
		s.policy = NewPolicy(Behavior{FinishChance: 1, BlockChance: 1, CenterChance: 1, CornerChance: 1}, nil)
	}
	if s.playerMark != MarkX && s.playerMark != MarkO {
		s.playerMark = MarkO
	}
	s.botMark = s.playerMark.Opponent()
	if s.moveDelay <= 0 {
		s.moveDelay = defaultMoveDelay
	}
	if s.openDelay <= 0 {
		s.openDelay = defaultOpenDelay
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s.mu.Lock()
	s.resetLocked(cfg.First)
	s.mu.Unlock()
	return s
}

// Snapshot returns the current session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Move plays the player's mark at cell. Rejected moves leave the session
// untouched. On acceptance the bot's reply is scheduled unless the game just
// ended.
func (s *Session) Move(cell int) (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	if s.outcome != OutcomeOngoing {
		s.mu.Unlock()
		return Snapshot{}, ErrGameFinished
	}
	if !s.playerTurn {
		s.mu.Unlock()
		return Snapshot{}, ErrNotPlayerTurn
	}
	if cell < 0 || cell >= len(s.board) {
		s.mu.Unlock()
		return Snapshot{}, ErrInvalidCell
	}
	if s.board[cell] != MarkNone {
		s.mu.Unlock()
		return Snapshot{}, ErrCellOccupied
	}

	s.board[cell] = s.playerMark
	if outcome := Evaluate(s.board, s.playerMark); outcome != OutcomeOngoing {
		s.outcome = outcome
		s.cancelPendingLocked()
	} else {
		s.playerTurn = false
		s.scheduleBotLocked(s.moveDelay)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap, nil
}

// Reset cancels any pending bot reply and starts a fresh game, optionally
// forcing the first mover.
func (s *Session) Reset(first FirstMover) Snapshot {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}
	}
	s.resetLocked(first)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Close cancels any pending bot reply and permanently retires the session.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancelPendingLocked()
	s.mu.Unlock()
}

func (s *Session) resetLocked(first FirstMover) {
	s.cancelPendingLocked()
	s.board = Board{}
	s.outcome = OutcomeOngoing

	switch first {
	case FirstPlayer:
		s.playerTurn = true
	case FirstBot:
		s.playerTurn = false
	default:
		s.playerTurn = s.rng.IntN(2) == 0
	}
	if !s.playerTurn {
		s.scheduleBotLocked(s.openDelay)
	}
}

// scheduleBotLocked arms the delayed bot move. The generation counter makes
// an already-fired but not-yet-run callback a no-op after any cancel.
func (s *Session) scheduleBotLocked(delay time.Duration) {
	s.cancelPendingLocked()
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() { s.botPlay(gen) })
}

func (s *Session) cancelPendingLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) botPlay(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen || s.outcome != OutcomeOngoing || s.playerTurn {
		s.mu.Unlock()
		return
	}
	s.timer = nil

	cell, err := s.policy.ChooseMove(s.board, s.botMark)
	if err != nil {
		s.mu.Unlock()
		return
	}
	s.board[cell] = s.botMark
	if outcome := Evaluate(s.board, s.playerMark); outcome != OutcomeOngoing {
		s.outcome = outcome
	} else {
		s.playerTurn = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Board:      s.board,
		PlayerMark: s.playerMark,
		BotMark:    s.botMark,
		PlayerTurn: s.playerTurn && s.outcome == OutcomeOngoing,
		Finished:   s.outcome != OutcomeOngoing,
		Outcome:    s.outcome,
	}
}

func (s *Session) notify(snap Snapshot) {
	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}
