package game

// Mark is the content of a single board cell.
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

// Opponent returns the complementary mark.
func (m Mark) Opponent() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkNone
	}
}

// Board is a 3x3 grid in row-major order, cells 0..8.
type Board [9]Mark

// Outcome is a finished-game verdict relative to one player.
type Outcome string

const (
	OutcomeOngoing Outcome = ""
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomeDraw    Outcome = "draw"
)

// winLines are the 8 winning triples: rows, columns and both diagonals.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Evaluate reports the board state from playerMark's point of view:
// OutcomeWin when a completed line carries playerMark, OutcomeLoss when it
// carries the opposing mark, OutcomeDraw when all cells are occupied with no
// completed line, and OutcomeOngoing otherwise.
func Evaluate(board Board, playerMark Mark) Outcome {
	for _, line := range winLines {
		a, b, c := line[0], line[1], line[2]
		if board[a] != MarkNone && board[a] == board[b] && board[a] == board[c] {
			if board[a] == playerMark {
				return OutcomeWin
			}
			return OutcomeLoss
		}
	}
	for _, cell := range board {
		if cell == MarkNone {
			return OutcomeOngoing
		}
	}
	return OutcomeDraw
}

// EmptyCells returns the indexes of all unoccupied cells in ascending order.
func EmptyCells(board Board) []int {
	out := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == MarkNone {
			out = append(out, i)
		}
	}
	return out
}

// criticalCell finds the empty cell of a line whose two other cells already
// hold mark, i.e. the move that completes (or denies) a three-in-a-row.
// Returns -1 when no such cell exists.
func criticalCell(board Board, mark Mark) int {
	for _, line := range winLines {
		filled := 0
		empty := -1
		for _, idx := range line {
			switch board[idx] {
			case mark:
				filled++
			case MarkNone:
				empty = idx
			}
		}
		if filled == 2 && empty >= 0 {
			return empty
		}
	}
	return -1
}
