package service

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
)

// board - builds a snapshot from rows where '.' marks an empty cell.
func board(rows ...string) entity.Snapshot {
	snapshot := make(entity.Snapshot, len(rows))
	for i, row := range rows {
		snapshot[i] = []rune(strings.ReplaceAll(row, ".", " "))
	}
	return snapshot
}

func TestBotService_NextMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Picks uniformly among all candidates on an empty board", func(t *testing.T) {
		// Given: an empty 3x3 board where every candidate scores zero
		bot := NewBotService(rand.New(rand.NewSource(42))) //nolint: gosec // deterministic in tests
		empty := board("...", "...", "...")

		// When: asking for many moves
		seen := make(map[entity.Placement]int)
		for range 2000 {
			move, err := bot.NextMove(ctx, empty)
			require.NoError(t, err)
			seen[move]++
		}

		// Then: all 18 cell and letter pairs are eventually chosen
		assert.Len(t, seen, 18)
		for move := range seen {
			assert.True(t, move.Letter == entity.S || move.Letter == entity.O)
			assert.True(t, move.Row >= 0 && move.Row < 3 && move.Col >= 0 && move.Col < 3)
		}
	})

	t.Run("Completes a sequence when it is the only scoring move", func(t *testing.T) {
		// Given: one empty cell that closes S-O-S
		bot := NewBotService(rand.New(rand.NewSource(1))) //nolint: gosec // deterministic in tests
		snapshot := board("SO.", "OOO", "OOO")

		// When: asking for a move
		move, err := bot.NextMove(ctx, snapshot)

		// Then: the completing S is played
		require.NoError(t, err)
		assert.Equal(t, entity.Placement{Row: 0, Col: 2, Letter: entity.S}, move)
	})

	t.Run("Resolves equal scores to the first candidate in row-major order", func(t *testing.T) {
		// Given: O at (1,0) and O at (1,1) score the same
		snapshot := board("SO.", "...", "...")

		for seed := range int64(20) {
			bot := NewBotService(rand.New(rand.NewSource(seed))) //nolint: gosec // deterministic in tests

			// When: asking for a move with different random sources
			move, err := bot.NextMove(ctx, snapshot)

			// Then: the choice never depends on randomness
			require.NoError(t, err)
			assert.Equal(t, entity.Placement{Row: 1, Col: 0, Letter: entity.O}, move)
		}
	})

	t.Run("Fails on a full board", func(t *testing.T) {
		// Given: a board with no empty cell
		bot := NewBotService(rand.New(rand.NewSource(1))) //nolint: gosec // deterministic in tests

		// When: asking for a move
		_, err := bot.NextMove(ctx, board("SOS", "OSO", "SOS"))

		// Then: no move is available
		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})

	t.Run("Rejects a ragged snapshot", func(t *testing.T) {
		bot := NewBotService(rand.New(rand.NewSource(1))) //nolint: gosec // deterministic in tests

		_, err := bot.NextMove(ctx, board("S..", ".."))

		require.ErrorIs(t, err, entity.ErrInvalidSnapshot)
	})
}

func TestEvaluate(t *testing.T) {
	grid, err := entity.GridFromSnapshot(board("SO.", "...", "..."))
	require.NoError(t, err)

	tests := []struct {
		name      string
		candidate entity.Placement
		want      int
	}{
		{"completion", entity.Placement{Row: 0, Col: 2, Letter: entity.S}, completionBonus},
		{"setup with O below an S", entity.Placement{Row: 1, Col: 0, Letter: entity.O}, setupBonus + blockingBonus},
		{"setup with O on the diagonal", entity.Placement{Row: 1, Col: 1, Letter: entity.O}, setupBonus + blockingBonus},
		{"nothing", entity.Placement{Row: 2, Col: 2, Letter: entity.O}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluate(grid, tt.candidate))
		})
	}
}

func TestEvaluate_AddsBonusesPerDirection(t *testing.T) {
	tests := []struct {
		name      string
		rows      []string
		candidate entity.Placement
		want      int
	}{
		{
			name:      "O with an open S behind it on all four axes",
			rows:      []string{"SSS", "S..", "..."},
			candidate: entity.Placement{Row: 1, Col: 1, Letter: entity.O},
			want:      4 * (setupBonus + blockingBonus),
		},
		{
			name:      "S with a gap before the far S on three axes",
			rows:      []string{"..S", "...", "S.S"},
			candidate: entity.Placement{Row: 0, Col: 0, Letter: entity.S},
			want:      3 * (setupBonus + blockingBonus),
		},
		{
			name:      "completion together with a setup on another axis",
			rows:      []string{"S..", "S..", "..S"},
			candidate: entity.Placement{Row: 1, Col: 1, Letter: entity.O},
			want:      completionBonus + setupBonus + blockingBonus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a board where the candidate fires in several directions
			grid, err := entity.GridFromSnapshot(board(tt.rows...))
			require.NoError(t, err)

			// When: scoring the candidate
			score := evaluate(grid, tt.candidate)

			// Then: every direction contributes its own bonus
			assert.Equal(t, tt.want, score)
		})
	}
}
