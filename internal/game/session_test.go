package game

import (
	"math/rand/v2"
	"testing"
	"time"
)

func testSession(t *testing.T, first FirstMover, updates chan Snapshot) *Session {
	t.Helper()
	var onUpdate func(Snapshot)
	if updates != nil {
		onUpdate = func(s Snapshot) { updates <- s }
	}
	s := NewSession(SessionConfig{
		Policy:    deterministicPolicy(1),
		First:     first,
		MoveDelay: 5 * time.Millisecond,
		OpenDelay: 5 * time.Millisecond,
		OnUpdate:  onUpdate,
		Rand:      rand.New(rand.NewPCG(1, 1)),
	})
	t.Cleanup(s.Close)
	return s
}

func waitUpdate(t *testing.T, updates chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-updates:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for session update")
		return Snapshot{}
	}
}

func TestSessionForcedFirstMover(t *testing.T) {
	s := testSession(t, FirstPlayer, nil)
	snap := s.Snapshot()
	if !snap.PlayerTurn || snap.Finished {
		t.Fatalf("expected player to move first: %+v", snap)
	}
	if snap.PlayerMark != MarkO || snap.BotMark != MarkX {
		t.Fatalf("unexpected mark assignment: %+v", snap)
	}
}

func TestSessionBotOpensAfterDelay(t *testing.T) {
	updates := make(chan Snapshot, 16)
	testSession(t, FirstBot, updates)
	snap := waitUpdate(t, updates)
	if len(EmptyCells(snap.Board)) != 8 {
		t.Fatalf("expected one bot mark on the board: %+v", snap)
	}
	if !snap.PlayerTurn {
		t.Fatalf("expected turn back to player: %+v", snap)
	}
}

func TestSessionMoveRejections(t *testing.T) {
	updates := make(chan Snapshot, 16)
	s := testSession(t, FirstPlayer, updates)

	if _, err := s.Move(9); err != ErrInvalidCell {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
	if _, err := s.Move(-1); err != ErrInvalidCell {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}

	if _, err := s.Move(0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	waitUpdate(t, updates)         // accepted player move
	snap := waitUpdate(t, updates) // bot reply, turn is back with the player

	if _, err := s.Move(0); err != ErrCellOccupied {
		t.Fatalf("expected ErrCellOccupied on own mark, got %v", err)
	}
	if _, err := s.Move(4); err != ErrCellOccupied {
		t.Fatalf("expected ErrCellOccupied on bot mark, got %v", err)
	}
	if s.Snapshot().Board != snap.Board {
		t.Fatalf("rejected moves must not mutate the board")
	}
}

func TestSessionMoveOutOfTurn(t *testing.T) {
	s := NewSession(SessionConfig{
		Policy:    deterministicPolicy(1),
		First:     FirstPlayer,
		MoveDelay: time.Hour, // keeps the turn with the bot
		Rand:      rand.New(rand.NewPCG(1, 1)),
	})
	defer s.Close()

	if _, err := s.Move(0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := s.Move(1); err != ErrNotPlayerTurn {
		t.Fatalf("expected ErrNotPlayerTurn, got %v", err)
	}
}

func TestSessionBotRepliesAfterPlayerMove(t *testing.T) {
	updates := make(chan Snapshot, 16)
	s := testSession(t, FirstPlayer, updates)

	if _, err := s.Move(0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	// First update is the accepted player move, second the bot reply.
	waitUpdate(t, updates)
	snap := waitUpdate(t, updates)
	if len(EmptyCells(snap.Board)) != 7 {
		t.Fatalf("expected bot reply on the board: %+v", snap)
	}
	// Deterministic policy with a free center always takes cell 4.
	if snap.Board[4] != MarkX {
		t.Fatalf("expected bot on center, got %+v", snap)
	}
	if !snap.PlayerTurn {
		t.Fatalf("expected player's turn after bot reply")
	}
}

func TestSessionResetCancelsPendingBotMove(t *testing.T) {
	s := NewSession(SessionConfig{
		Policy:    deterministicPolicy(1),
		First:     FirstPlayer,
		MoveDelay: time.Hour, // never fires within the test
		Rand:      rand.New(rand.NewPCG(1, 1)),
	})
	defer s.Close()

	if _, err := s.Move(0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	snap := s.Reset(FirstPlayer)
	if snap.Board != (Board{}) {
		t.Fatalf("expected an empty board after reset: %+v", snap)
	}

	time.Sleep(20 * time.Millisecond)
	snap = s.Snapshot()
	if snap.Board != (Board{}) {
		t.Fatalf("stale bot move fired into a reset session: %+v", snap)
	}
	if !snap.PlayerTurn {
		t.Fatalf("expected forced player turn after reset")
	}
}

func TestSessionTerminalFreezesBoard(t *testing.T) {
	updates := make(chan Snapshot, 32)
	s := testSession(t, FirstPlayer, updates)

	// Against the deterministic policy this line is forced: O 0 → X 4
	// (center), O 1 → X 2 (block), O 3 → X 6 (finishes the 2-4-6 diagonal).
	var snap Snapshot
	for _, cell := range []int{0, 1, 3} {
		if _, err := s.Move(cell); err != nil {
			t.Fatalf("Move(%d): %v", cell, err)
		}
		waitUpdate(t, updates)        // accepted player move
		snap = waitUpdate(t, updates) // bot reply
	}

	if !snap.Finished || snap.Outcome != OutcomeLoss {
		t.Fatalf("expected a bot win: %+v", snap)
	}
	if snap.Board[4] != MarkX || snap.Board[2] != MarkX || snap.Board[6] != MarkX {
		t.Fatalf("unexpected bot line: %+v", snap)
	}
	if _, err := s.Move(7); err != ErrGameFinished {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}
	if s.Snapshot().Board != snap.Board {
		t.Fatalf("board mutated after terminal state")
	}
}
