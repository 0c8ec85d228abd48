package sos

import "github.com/rocketscienceinc/sosgame/internal/entity"

// DetectSequences - returns every SOS completed through the cell just written at (row, col),
// in direction order. Each direction reports at most one sequence: the cell is tried as the
// last S, then the middle O, then the first S.
func DetectSequences(grid *entity.Grid, row, col int) []entity.Sequence {
	sequences := make([]entity.Sequence, 0, len(entity.Directions))

	for _, dir := range entity.Directions {
		if sequence, ok := checkDirection(grid, row, col, dir.DR, dir.DC, dir.Direction); ok {
			sequences = append(sequences, sequence)
		}
	}

	return sequences
}

// checkDirection relies on Grid.Get reading out-of-range cells as Empty.
func checkDirection(grid *entity.Grid, row, col, dr, dc int, direction entity.Direction) (entity.Sequence, bool) {
	current := grid.Get(row, col)

	switch {
	case current == entity.S &&
		grid.Get(row-dr, col-dc) == entity.O &&
		grid.Get(row-2*dr, col-2*dc) == entity.S:
		return newSequence(row-2*dr, col-2*dc, dr, dc, direction), true

	case current == entity.O &&
		grid.Get(row-dr, col-dc) == entity.S &&
		grid.Get(row+dr, col+dc) == entity.S:
		return newSequence(row-dr, col-dc, dr, dc, direction), true

	case current == entity.S &&
		grid.Get(row+dr, col+dc) == entity.O &&
		grid.Get(row+2*dr, col+2*dc) == entity.S:
		return newSequence(row, col, dr, dc, direction), true
	}

	return entity.Sequence{}, false
}

func newSequence(row, col, dr, dc int, direction entity.Direction) entity.Sequence {
	return entity.Sequence{
		First:     entity.Position{Row: row, Col: col},
		Middle:    entity.Position{Row: row + dr, Col: col + dc},
		Last:      entity.Position{Row: row + 2*dr, Col: col + 2*dc},
		Direction: direction,
	}
}
