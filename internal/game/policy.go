package game

import (
	"errors"
	"math/rand/v2"
)

var ErrNoMoves = errors.New("no empty cell to play")

// centerCell and cornerCells drive the positional preference steps.
const centerCell = 4

var cornerCells = [4]int{0, 2, 6, 8}

// Behavior is the move-selection probability table. Each chance gates one
// decision step; on a miss control falls through to the next step. All
// values at 1.0 yield the deterministic opponent.
type Behavior struct {
	FinishChance float64 `yaml:"finish_chance" json:"finishChance"`
	BlockChance  float64 `yaml:"block_chance" json:"blockChance"`
	CenterChance float64 `yaml:"center_chance" json:"centerChance"`
	CornerChance float64 `yaml:"corner_chance" json:"cornerChance"`
}

// Policy selects bot moves according to a Behavior. The random source is
// injected so tests can seed it.
type Policy struct {
	behavior Behavior
	rng      *rand.Rand
}

func NewPolicy(behavior Behavior, rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Policy{behavior: behavior, rng: rng}
}

func (p *Policy) Behavior() Behavior { return p.behavior }

// ChooseMove picks a cell for ownMark on board. Steps in order: complete an
// own three-in-a-row, block the opponent's, take the center, take a random
// empty corner, then any random empty cell. Returns ErrNoMoves on a full
// board.
func (p *Policy) ChooseMove(board Board, ownMark Mark) (int, error) {
	empty := EmptyCells(board)
	if len(empty) == 0 {
		return 0, ErrNoMoves
	}

	if p.roll(p.behavior.FinishChance) {
		if cell := criticalCell(board, ownMark); cell >= 0 {
			return cell, nil
		}
	}

	if p.roll(p.behavior.BlockChance) {
		if cell := criticalCell(board, ownMark.Opponent()); cell >= 0 {
			return cell, nil
		}
	}

	if board[centerCell] == MarkNone && p.roll(p.behavior.CenterChance) {
		return centerCell, nil
	}

	var corners []int
	for _, c := range cornerCells {
		if board[c] == MarkNone {
			corners = append(corners, c)
		}
	}
	if len(corners) > 0 && p.roll(p.behavior.CornerChance) {
		return corners[p.rng.IntN(len(corners))], nil
	}

	return empty[p.rng.IntN(len(empty))], nil
}

func (p *Policy) roll(chance float64) bool {
	if chance >= 1 {
		return true
	}
	if chance <= 0 {
		return false
	}
	return p.rng.Float64() < chance
}
