package game

import (
	"math/rand/v2"
	"testing"
)

func deterministicPolicy(seed uint64) *Policy {
	return NewPolicy(Behavior{FinishChance: 1, BlockChance: 1, CenterChance: 1, CornerChance: 1},
		rand.New(rand.NewPCG(seed, seed)))
}

func TestPolicyFinishesOwnWin(t *testing.T) {
	p := deterministicPolicy(1)
	// X can both win at 2 and block O at 5; winning comes first.
	b := boardOf(MarkX, MarkX, MarkNone, MarkO, MarkO, MarkNone)
	cell, err := p.ChooseMove(b, MarkX)
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if cell != 2 {
		t.Fatalf("expected finishing move 2, got %d", cell)
	}
}

func TestPolicyBlocksOpponentWin(t *testing.T) {
	p := deterministicPolicy(2)
	b := boardOf(MarkO, MarkO, MarkNone, MarkX)
	cell, err := p.ChooseMove(b, MarkX)
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if cell != 2 {
		t.Fatalf("expected blocking move 2, got %d", cell)
	}
}

func TestPolicyPrefersCenterThenCorner(t *testing.T) {
	p := deterministicPolicy(3)
	cell, err := p.ChooseMove(boardOf(MarkO), MarkX)
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if cell != 4 {
		t.Fatalf("expected center, got %d", cell)
	}

	b := boardOf(MarkO, MarkNone, MarkNone, MarkNone, MarkX)
	corners := map[int]bool{2: true, 6: true, 8: true}
	for seed := uint64(0); seed < 20; seed++ {
		cell, err := deterministicPolicy(seed).ChooseMove(b, MarkX)
		if err != nil {
			t.Fatalf("ChooseMove: %v", err)
		}
		if !corners[cell] {
			t.Fatalf("expected an empty corner, got %d", cell)
		}
	}
}

func TestPolicyFallbackAnyEmptyCell(t *testing.T) {
	// Center and all corners taken; only edges remain.
	b := boardOf(MarkX, MarkNone, MarkO, MarkNone, MarkX, MarkNone, MarkO, MarkNone, MarkX)
	edges := map[int]bool{1: true, 3: true, 5: true, 7: true}
	for seed := uint64(0); seed < 20; seed++ {
		p := NewPolicy(Behavior{}, rand.New(rand.NewPCG(seed, seed)))
		cell, err := p.ChooseMove(b, MarkO)
		if err != nil {
			t.Fatalf("ChooseMove: %v", err)
		}
		if !edges[cell] {
			t.Fatalf("expected an edge cell, got %d", cell)
		}
	}
}

func TestPolicyZeroChancesSkipToFallback(t *testing.T) {
	// A winning move exists but every gate is closed, so the pick is any
	// empty cell, not necessarily the finish.
	b := boardOf(MarkX, MarkX)
	p := NewPolicy(Behavior{}, rand.New(rand.NewPCG(7, 7)))
	empty := map[int]bool{}
	for _, c := range EmptyCells(b) {
		empty[c] = true
	}
	cell, err := p.ChooseMove(b, MarkX)
	if err != nil {
		t.Fatalf("ChooseMove: %v", err)
	}
	if !empty[cell] {
		t.Fatalf("expected an empty cell, got %d", cell)
	}
}

func TestPolicyFullBoard(t *testing.T) {
	b := boardOf(MarkX, MarkO, MarkX, MarkX, MarkO, MarkO, MarkO, MarkX, MarkX)
	if _, err := deterministicPolicy(4).ChooseMove(b, MarkX); err != ErrNoMoves {
		t.Fatalf("expected ErrNoMoves, got %v", err)
	}
}

func TestPolicyDeterministicExhaustive(t *testing.T) {
	// Every board with exactly one immediate X win: the deterministic policy
	// must play it. Enumerate lines with two X and one empty, pad elsewhere.
	for _, line := range winLines {
		for hole := 0; hole < 3; hole++ {
			var b Board
			for i, idx := range line {
				if i != hole {
					b[idx] = MarkX
				}
			}
			p := deterministicPolicy(uint64(line[0]*3 + hole))
			cell, err := p.ChooseMove(b, MarkX)
			if err != nil {
				t.Fatalf("ChooseMove: %v", err)
			}
			if cell != line[hole] {
				t.Fatalf("line %v hole %d: expected %d, got %d", line, hole, line[hole], cell)
			}
		}
	}
}
