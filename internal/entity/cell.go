package entity

import (
	"errors"
	"fmt"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	S
	O
)

var ErrInvalidLetter = errors.New("invalid letter")

// ParseLetter - converts 'S' or 'O' into a playable cell.
func ParseLetter(letter rune) (Cell, error) {
	switch letter {
	case 'S':
		return S, nil
	case 'O':
		return O, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
}

// IsLetter - reports whether the cell holds S or O.
func (that Cell) IsLetter() bool {
	return that == S || that == O
}

// Rune - returns the character used for the cell in snapshots and records.
func (that Cell) Rune() rune {
	switch that {
	case S:
		return 'S'
	case O:
		return 'O'
	default:
		return ' '
	}
}

func (that Cell) String() string {
	return string(that.Rune())
}
