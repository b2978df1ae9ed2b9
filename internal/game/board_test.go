package game

import "testing"

func boardOf(cells ...Mark) Board {
	var b Board
	copy(b[:], cells)
	return b
}

func TestEvaluateRowWin(t *testing.T) {
	b := boardOf(MarkO, MarkO, MarkO, MarkX, MarkX)
	if got := Evaluate(b, MarkO); got != OutcomeWin {
		t.Fatalf("expected win for O, got %q", got)
	}
	if got := Evaluate(b, MarkX); got != OutcomeLoss {
		t.Fatalf("expected loss for X, got %q", got)
	}
}

func TestEvaluateColumnAndDiagonalWins(t *testing.T) {
	cases := []struct {
		name  string
		cells []int
	}{
		{"left column", []int{0, 3, 6}},
		{"middle column", []int{1, 4, 7}},
		{"main diagonal", []int{0, 4, 8}},
		{"anti diagonal", []int{2, 4, 6}},
	}
	for _, tc := range cases {
		var b Board
		for _, idx := range tc.cells {
			b[idx] = MarkX
		}
		if got := Evaluate(b, MarkX); got != OutcomeWin {
			t.Fatalf("%s: expected win, got %q", tc.name, got)
		}
	}
}

func TestEvaluateDraw(t *testing.T) {
	// X O X / X O O / O X X — full board, no line.
	b := boardOf(MarkX, MarkO, MarkX, MarkX, MarkO, MarkO, MarkO, MarkX, MarkX)
	if got := Evaluate(b, MarkX); got != OutcomeDraw {
		t.Fatalf("expected draw, got %q", got)
	}
}

func TestEvaluateOngoing(t *testing.T) {
	if got := Evaluate(Board{}, MarkX); got != OutcomeOngoing {
		t.Fatalf("empty board: expected ongoing, got %q", got)
	}
	b := boardOf(MarkX, MarkO, MarkX, MarkNone, MarkO)
	if got := Evaluate(b, MarkX); got != OutcomeOngoing {
		t.Fatalf("partial board: expected ongoing, got %q", got)
	}
}

func TestEmptyCells(t *testing.T) {
	b := boardOf(MarkX, MarkNone, MarkO, MarkNone)
	got := EmptyCells(b)
	want := []int{1, 3, 4, 5, 6, 7, 8}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCriticalCell(t *testing.T) {
	b := boardOf(MarkX, MarkX) // 2 needed to finish the top row
	if got := criticalCell(b, MarkX); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := criticalCell(b, MarkO); got != -1 {
		t.Fatalf("expected no critical cell for O, got %d", got)
	}
	// Two own marks but the line is already taken by the opponent.
	b = boardOf(MarkX, MarkX, MarkO)
	if got := criticalCell(b, MarkX); got != -1 {
		t.Fatalf("expected -1 on a closed line, got %d", got)
	}
}
