package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
)

const (
	completionBonus = 100
	setupBonus      = 50
	blockingBonus   = 75
)

// BotService picks the next move for an automated player.
type BotService interface {
	NextMove(ctx context.Context, board entity.Snapshot) (entity.Placement, error)
}

type botService struct {
	random *rand.Rand
}

// NewBotService - heuristic bot; random is used only when no candidate scores above zero.
func NewBotService(random *rand.Rand) BotService {
	return &botService{random: random}
}

func (that *botService) NextMove(_ context.Context, board entity.Snapshot) (entity.Placement, error) {
	grid, err := entity.GridFromSnapshot(board)
	if err != nil {
		return entity.Placement{}, fmt.Errorf("bot failed to read board: %w", err)
	}

	candidates := make([]entity.Placement, 0, 2*grid.Size()*grid.Size())
	for row := range grid.Size() {
		for col := range grid.Size() {
			if grid.Get(row, col) != entity.Empty {
				continue
			}

			candidates = append(candidates,
				entity.Placement{Row: row, Col: col, Letter: entity.S},
				entity.Placement{Row: row, Col: col, Letter: entity.O},
			)
		}
	}

	if len(candidates) == 0 {
		return entity.Placement{}, apperror.ErrNoAvailableMoves
	}

	best, bestScore := candidates[0], -1
	for _, candidate := range candidates {
		score := evaluate(grid, candidate)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}

	if bestScore == 0 {
		return candidates[that.random.Intn(len(candidates))], nil
	}

	return best, nil
}

// evaluate - scores a hypothetical placement on an empty cell, per direction.
func evaluate(grid *entity.Grid, candidate entity.Placement) int {
	trial := grid.Clone()
	if err := trial.Set(candidate.Row, candidate.Col, candidate.Letter); err != nil {
		return 0
	}

	score := completionBonus * len(sos.DetectSequences(trial, candidate.Row, candidate.Col))

	for _, direction := range entity.Directions {
		if setsUp(grid, candidate, direction.DR, direction.DC) {
			// the same open S_S / S_ shape also denies it to the opponent
			score += setupBonus + blockingBonus
		}
	}

	return score
}

// setsUp - reports whether the placement leaves an S-O-S one letter away along the direction.
func setsUp(grid *entity.Grid, candidate entity.Placement, dr, dc int) bool {
	row, col := candidate.Row, candidate.Col

	switch candidate.Letter {
	case entity.S:
		return grid.InBounds(row+2*dr, col+2*dc) &&
			grid.Get(row+2*dr, col+2*dc) == entity.S &&
			grid.Get(row+dr, col+dc) == entity.Empty
	case entity.O:
		return grid.InBounds(row-dr, col-dc) && grid.InBounds(row+dr, col+dc) &&
			grid.Get(row-dr, col-dc) == entity.S &&
			grid.Get(row+dr, col+dc) == entity.Empty
	default:
		return false
	}
}
