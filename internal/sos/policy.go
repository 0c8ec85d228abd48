package sos

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrUnknownMode      = errors.New("unknown game mode")
)

// Mode selects one of the two built-in rule sets.
type Mode uint8

const (
	ModeSimple Mode = iota
	ModeGeneral
)

func ParseMode(name string) (Mode, error) {
	switch name {
	case "simple":
		return ModeSimple, nil
	case "general":
		return ModeGeneral, nil
	default:
		return ModeSimple, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

func (that Mode) String() string {
	if that == ModeGeneral {
		return "general"
	}
	return "simple"
}

// Policy holds everything the two modes disagree on.
type Policy struct {
	Mode        Mode
	MinSize     int
	MaxSize     int
	DefaultSize int

	// ExtraTurn keeps the mover on turn after forming a sequence.
	ExtraTurn bool
	// Scoring adds one point per formed sequence to the mover.
	Scoring bool
	// EndOnSequence finishes the game on the first formed sequence.
	EndOnSequence bool
}

var (
	SimplePolicy = Policy{
		Mode:          ModeSimple,
		MinSize:       3,
		MaxSize:       3,
		DefaultSize:   3,
		EndOnSequence: true,
	}

	GeneralPolicy = Policy{
		Mode:        ModeGeneral,
		MinSize:     4,
		MaxSize:     8,
		DefaultSize: 8,
		ExtraTurn:   true,
		Scoring:     true,
	}
)

func PolicyFor(mode Mode) Policy {
	if mode == ModeGeneral {
		return GeneralPolicy
	}
	return SimplePolicy
}

func (that Policy) ValidSize(size int) bool {
	return size >= that.MinSize && size <= that.MaxSize
}

// NormalizeSize - returns size if the policy allows it, the policy default otherwise.
func (that Policy) NormalizeSize(size int) (int, bool) {
	if that.ValidSize(size) {
		return size, true
	}
	return that.DefaultSize, false
}
