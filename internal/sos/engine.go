package sos

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
)

var ErrGameNotOver = errors.New("game is not over")

// MoveResult describes what a single applied move did.
type MoveResult struct {
	Mover     entity.Mover
	Placement entity.Placement
	Sequences []entity.Sequence
	// ExtraTurn is set when the mover keeps the turn after forming a sequence.
	ExtraTurn bool
	Terminal  bool
}

func (that MoveResult) Formed() bool {
	return len(that.Sequences) > 0
}

// Engine is the rule state machine for one game.
type Engine struct {
	policy        Policy
	grid          *entity.Grid
	current       entity.Mover
	scores        [2]int
	lastSequences []entity.Sequence

	finished bool
	// sequenceWinner is set when a simple game ends on a formed sequence.
	sequenceWinner *entity.Mover
}

func NewEngine(policy Policy, size int) (*Engine, error) {
	if !policy.ValidSize(size) {
		return nil, fmt.Errorf("%w: %d for %s mode (allowed %d..%d)",
			ErrInvalidBoardSize, size, policy.Mode, policy.MinSize, policy.MaxSize)
	}

	return &Engine{
		policy:  policy,
		grid:    entity.NewGrid(size),
		current: entity.First,
	}, nil
}

// PlayAs - applies a move for mover, rejecting it when it is not mover's turn.
func (that *Engine) PlayAs(mover entity.Mover, row, col int, letter entity.Cell) (*MoveResult, error) {
	if that.finished {
		return nil, apperror.ErrGameFinished
	}

	if mover != that.current {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	return that.Play(row, col, letter)
}

// Play - applies a move for the current mover.
func (that *Engine) Play(row, col int, letter entity.Cell) (*MoveResult, error) {
	if that.finished {
		return nil, apperror.ErrGameFinished
	}

	if err := that.grid.Set(row, col, letter); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	mover := that.current
	sequences := DetectSequences(that.grid, row, col)
	that.lastSequences = sequences

	result := &MoveResult{
		Mover:     mover,
		Placement: entity.Placement{Row: row, Col: col, Letter: letter},
		Sequences: sequences,
	}

	if len(sequences) > 0 {
		if that.policy.Scoring {
			that.scores[mover] += len(sequences)
		}

		if that.policy.EndOnSequence {
			that.finished = true
			that.sequenceWinner = &mover
		}
	}

	if that.grid.IsFull() {
		that.finished = true
	}

	switch {
	case that.finished:
		result.Terminal = true
	case len(sequences) > 0 && that.policy.ExtraTurn:
		result.ExtraTurn = true
	case len(sequences) == 0:
		that.current = mover.Other()
	}

	return result, nil
}

func (that *Engine) IsTerminal() bool {
	return that.finished
}

func (that *Engine) CurrentMover() entity.Mover {
	return that.current
}

// Scores - returns the first and second mover's scores, always zero without scoring.
func (that *Engine) Scores() (int, int) {
	return that.scores[entity.First], that.scores[entity.Second]
}

// LastSequences - returns the sequences formed by the most recent move only.
func (that *Engine) LastSequences() []entity.Sequence {
	return that.lastSequences
}

func (that *Engine) Size() int {
	return that.grid.Size()
}

func (that *Engine) Snapshot() entity.Snapshot {
	return that.grid.Snapshot()
}

// Grid - a copy of the board; writes to it do not reach the engine.
func (that *Engine) Grid() *entity.Grid {
	return that.grid.Clone()
}

// Outcome - reports the terminal result of the game.
func (that *Engine) Outcome() (Outcome, error) {
	if !that.finished {
		return Outcome{}, ErrGameNotOver
	}

	first, second := that.Scores()
	outcome := Outcome{Mode: that.policy.Mode, ScoreFirst: first, ScoreSecond: second}

	switch {
	case that.sequenceWinner != nil:
		outcome.Winner = *that.sequenceWinner
	case !that.policy.Scoring || first == second:
		outcome.Draw = true
	case first > second:
		outcome.Winner = entity.First
	default:
		outcome.Winner = entity.Second
	}

	return outcome, nil
}

// Outcome is the result of a finished game.
type Outcome struct {
	Mode        Mode
	Winner      entity.Mover
	Draw        bool
	ScoreFirst  int
	ScoreSecond int
}

func (that Outcome) String() string {
	if that.Mode == ModeSimple {
		if that.Draw {
			return "Game over! It's a draw."
		}
		return fmt.Sprintf("%s player wins!", that.Winner)
	}

	if that.Draw {
		return fmt.Sprintf("It's a draw! Both players scored %d points.", that.ScoreFirst)
	}

	score := that.ScoreFirst
	if that.Winner == entity.Second {
		score = that.ScoreSecond
	}

	return fmt.Sprintf("%s player wins with %d points!", that.Winner, score)
}
