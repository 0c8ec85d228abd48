package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
)

var ErrReplayNotLoaded = errors.New("no replay is loaded")

// ReplayState is the lifecycle of a replay.
type ReplayState uint8

const (
	ReplayIdle ReplayState = iota
	ReplayLoaded
	ReplayPlaying
	ReplayFinished
)

func (that ReplayState) String() string {
	switch that {
	case ReplayLoaded:
		return "loaded"
	case ReplayPlaying:
		return "playing"
	case ReplayFinished:
		return "finished"
	default:
		return "idle"
	}
}

type recordLoader interface {
	Load(ctx context.Context, name string) (*entity.GameRecord, error)
}

// ReplayDriver plays a stored record back one move per tick on a fresh engine.
type ReplayDriver struct {
	logger  *slog.Logger
	loader  recordLoader
	display Display

	state  ReplayState
	record *entity.GameRecord
	engine *sos.Engine
	next   int
}

func NewReplayDriver(logger *slog.Logger, loader recordLoader, display Display) *ReplayDriver {
	return &ReplayDriver{
		logger:  logger.With("component", "replay"),
		loader:  loader,
		display: display,
	}
}

// Load - fetches a record by name and moves to the loaded state.
func (that *ReplayDriver) Load(ctx context.Context, name string) error {
	record, err := that.loader.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to load replay: %w", err)
	}

	that.LoadRecord(record)

	return nil
}

// LoadRecord - loads an already decoded record, discarding any current replay.
func (that *ReplayDriver) LoadRecord(record *entity.GameRecord) {
	that.record = record
	that.engine = nil
	that.next = 0
	that.state = ReplayLoaded
}

// Start - builds a fresh engine from the record header and starts playing.
func (that *ReplayDriver) Start() error {
	if that.state != ReplayLoaded {
		return ErrReplayNotLoaded
	}

	mode := sos.ModeGeneral
	if that.record.Header.Simple {
		mode = sos.ModeSimple
	}

	engine, err := sos.NewEngine(sos.PolicyFor(mode), that.record.Header.BoardSize)
	if err != nil {
		return fmt.Errorf("failed to start replay: %w", err)
	}

	that.engine = engine
	that.state = ReplayPlaying

	that.display.Reset(engine.Size(), mode)
	that.display.RenderScores(0, 0)

	return nil
}

// Tick - applies the next stored move, or finishes the replay when none is left.
func (that *ReplayDriver) Tick(_ context.Context) error {
	log := that.logger.With("method", "Tick")

	if that.state != ReplayPlaying {
		return nil
	}

	if that.next >= len(that.record.Moves) {
		that.finish()
		return nil
	}

	move := that.record.Moves[that.next]
	that.next++

	result, err := that.engine.Play(move.Row, move.Col, move.Letter)
	if err != nil {
		log.Warn("skipping stored move", "index", that.next-1, "error", err)
		return nil
	}

	// moves are labeled as stored, whatever turn the engine expected
	if result.Mover != move.Mover {
		log.Warn("stored mover differs from turn order",
			"index", that.next-1, "stored", move.Mover.String(), "expected", result.Mover.String())
		result.Mover = move.Mover
	}

	that.display.RenderMove(result)
	that.display.RenderScores(that.engine.Scores())

	return nil
}

// Stop - abandons the replay at any point.
func (that *ReplayDriver) Stop() {
	that.state = ReplayIdle
	that.record = nil
	that.engine = nil
	that.next = 0
}

func (that *ReplayDriver) State() ReplayState {
	return that.state
}

// Active - reports whether ticks still have work to do.
func (that *ReplayDriver) Active() bool {
	return that.state == ReplayPlaying
}

func (that *ReplayDriver) finish() {
	that.state = ReplayFinished

	record := that.record
	that.display.RenderScores(record.FinalScoreFirst, record.FinalScoreSecond)
	that.display.RenderOutcome(fmt.Sprintf("Replay finished (%s): %s %d, %s %d",
		record.Status, entity.First, record.FinalScoreFirst, entity.Second, record.FinalScoreSecond))

	that.logger.Info("replay finished", "moves", len(record.Moves), "status", record.Status.String())
}
