package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMover      = errors.New("unknown mover")
	ErrUnknownPlayerKind = errors.New("unknown player kind")
	ErrInvalidSnapshot   = errors.New("invalid board snapshot")
)

// Mover identifies the seat whose turn it is. Blue always moves first.
type Mover uint8

const (
	First Mover = iota
	Second
)

const (
	firstMoverName  = "Blue"
	secondMoverName = "Red"
)

func ParseMover(name string) (Mover, error) {
	switch name {
	case firstMoverName:
		return First, nil
	case secondMoverName:
		return Second, nil
	default:
		return First, fmt.Errorf("%w: %q", ErrUnknownMover, name)
	}
}

func (that Mover) Other() Mover {
	if that == First {
		return Second
	}
	return First
}

func (that Mover) String() string {
	if that == First {
		return firstMoverName
	}
	return secondMoverName
}

// PlayerKind says who drives a seat.
type PlayerKind uint8

const (
	Human PlayerKind = iota
	Automated
)

const (
	humanKindName     = "Human"
	automatedKindName = "Automated"
	// legacyAutomatedKindName is accepted when reading older records.
	legacyAutomatedKindName = "Computer"
)

func ParsePlayerKind(name string) (PlayerKind, error) {
	switch name {
	case humanKindName:
		return Human, nil
	case automatedKindName, legacyAutomatedKindName:
		return Automated, nil
	default:
		return Human, fmt.Errorf("%w: %q", ErrUnknownPlayerKind, name)
	}
}

func (that PlayerKind) String() string {
	if that == Automated {
		return automatedKindName
	}
	return humanKindName
}

// Placement is a single letter written at a cell.
type Placement struct {
	Row    int  `json:"row"`
	Col    int  `json:"col"`
	Letter Cell `json:"letter"`
}
