package entity

// Direction is the axis an SOS sequence lies on.
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
	DiagonalRight
	DiagonalLeft
)

// Directions lists every axis in detection order with its row/col step.
var Directions = [4]struct {
	Direction Direction
	DR, DC    int
}{
	{Horizontal, 0, 1},
	{Vertical, 1, 0},
	{DiagonalRight, 1, 1},
	{DiagonalLeft, 1, -1},
}

func (that Direction) String() string {
	switch that {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagonalRight:
		return "diagonal-right"
	case DiagonalLeft:
		return "diagonal-left"
	default:
		return "unknown"
	}
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Sequence is a completed S-O-S triple: First and Last hold S, Middle holds O.
type Sequence struct {
	First     Position  `json:"first"`
	Middle    Position  `json:"middle"`
	Last      Position  `json:"last"`
	Direction Direction `json:"direction"`
}
