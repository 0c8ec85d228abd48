package entity

import (
	"fmt"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
)

// Snapshot is the board as rows of single characters, ' ' for an empty cell.
type Snapshot [][]rune

// Grid is a square board of cells stored row-major.
type Grid struct {
	size  int
	cells []Cell
}

func NewGrid(size int) *Grid {
	return &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

// GridFromSnapshot - rebuilds a grid from a square character snapshot.
func GridFromSnapshot(snapshot Snapshot) (*Grid, error) {
	grid := NewGrid(len(snapshot))

	for row, line := range snapshot {
		if len(line) != grid.size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSnapshot, row, len(line), grid.size)
		}

		for col, char := range line {
			if char == ' ' {
				continue
			}

			letter, err := ParseLetter(char)
			if err != nil {
				return nil, fmt.Errorf("%w: cell (%d,%d): %w", ErrInvalidSnapshot, row, col, err)
			}

			grid.cells[row*grid.size+col] = letter
		}
	}

	return grid, nil
}

func (that *Grid) Clone() *Grid {
	cells := make([]Cell, len(that.cells))
	copy(cells, that.cells)

	return &Grid{size: that.size, cells: cells}
}

func (that *Grid) Size() int {
	return that.size
}

func (that *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// Set - writes a letter into an empty in-bounds cell.
func (that *Grid) Set(row, col int, letter Cell) error {
	if !that.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, row, col)
	}

	if !letter.IsLetter() {
		return fmt.Errorf("%w: %d", ErrInvalidLetter, letter)
	}

	idx := row*that.size + col
	if that.cells[idx] != Empty {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOccupied, row, col)
	}

	that.cells[idx] = letter

	return nil
}

// Get - returns the cell state, Empty for any out-of-bounds coordinate.
func (that *Grid) Get(row, col int) Cell {
	if !that.InBounds(row, col) {
		return Empty
	}

	return that.cells[row*that.size+col]
}

func (that *Grid) IsFull() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that *Grid) Snapshot() Snapshot {
	snapshot := make(Snapshot, that.size)
	for row := range snapshot {
		line := make([]rune, that.size)
		for col := range line {
			line[col] = that.cells[row*that.size+col].Rune()
		}
		snapshot[row] = line
	}

	return snapshot
}

// String renders the grid one row per line, '.' for empty cells.
func (that *Grid) String() string {
	out := make([]byte, 0, that.size*(that.size+1))
	for row := 0; row < that.size; row++ {
		for col := 0; col < that.size; col++ {
			cell := that.cells[row*that.size+col]
			if cell == Empty {
				out = append(out, '.')
				continue
			}
			out = append(out, byte(cell.Rune()))
		}
		out = append(out, '\n')
	}

	return string(out)
}
