package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
)

// MoveSource picks moves for an automated seat.
type MoveSource interface {
	NextMove(ctx context.Context, board entity.Snapshot) (entity.Placement, error)
}

// MoveSourceFactory builds the move source for an automated seat of a new game.
type MoveSourceFactory func(mode sos.Mode, mover entity.Mover) MoveSource

type gameRecorder interface {
	Start(ctx context.Context, header entity.RecordHeader) (string, error)
	RecordMove(ctx context.Context, move entity.RecordMove) error
	End(ctx context.Context, scoreFirst, scoreSecond int) error
	Interrupt(ctx context.Context, scoreFirst, scoreSecond int) error
	IsRecording() bool
}

// GameSettings is what a player chooses before a game starts.
type GameSettings struct {
	Mode       sos.Mode
	BoardSize  int
	FirstKind  entity.PlayerKind
	SecondKind entity.PlayerKind
	Record     bool
}

type liveGame struct {
	id      string
	engine  *sos.Engine
	kinds   [2]entity.PlayerKind
	sources [2]MoveSource
	logger  *slog.Logger
	// recordFailed is set once the player was told the record is not being stored.
	recordFailed bool
}

// GameManager drives one live game at a time: human input, automated turns, display and recording.
type GameManager struct {
	logger    *slog.Logger
	display   Display
	recorder  gameRecorder
	newSource MoveSourceFactory
	game      *liveGame
}

func NewGameManager(logger *slog.Logger, display Display, recorder gameRecorder, newSource MoveSourceFactory) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game-manager"),

		display:   display,
		recorder:  recorder,
		newSource: newSource,
	}
}

// NewGame - interrupts any game in progress and starts a new one.
// An invalid board size falls back to the mode's default.
func (that *GameManager) NewGame(ctx context.Context, settings GameSettings) error {
	log := that.logger.With("method", "NewGame")

	that.Interrupt(ctx)

	policy := sos.PolicyFor(settings.Mode)

	size, ok := policy.NormalizeSize(settings.BoardSize)
	if !ok {
		log.Warn("invalid board size, using default",
			"requested", settings.BoardSize, "size", size, "mode", settings.Mode.String())
	}

	engine, err := sos.NewEngine(policy, size)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	game := &liveGame{
		id:     uuid.NewString(),
		engine: engine,
		kinds:  [2]entity.PlayerKind{settings.FirstKind, settings.SecondKind},
	}
	game.logger = that.logger.With("game_id", game.id)

	for _, mover := range []entity.Mover{entity.First, entity.Second} {
		if game.kinds[mover] == entity.Automated {
			game.sources[mover] = that.newSource(settings.Mode, mover)
		}
	}

	that.game = game

	game.logger.Info("game started",
		"mode", settings.Mode.String(), "size", size,
		"first", settings.FirstKind.String(), "second", settings.SecondKind.String())

	that.display.Reset(size, settings.Mode)
	that.display.RenderScores(0, 0)
	that.display.RenderTurn(entity.First, game.kinds[entity.First])

	if settings.Record {
		header := entity.RecordHeader{
			Simple:     settings.Mode == sos.ModeSimple,
			BoardSize:  size,
			FirstKind:  settings.FirstKind,
			SecondKind: settings.SecondKind,
		}
		name, startErr := that.recorder.Start(ctx, header)
		if startErr != nil {
			that.recordingFailed(game, "recording may be incomplete", startErr)
		} else {
			that.display.RenderNotice("Recording to " + name)
		}
	}

	return nil
}

// PlayHuman - applies a move typed by the human whose turn it is.
func (that *GameManager) PlayHuman(ctx context.Context, row, col int, letter entity.Cell) (*sos.MoveResult, error) {
	if !that.InProgress() {
		return nil, apperror.ErrGameIsNotStarted
	}

	mover := that.game.engine.CurrentMover()
	if that.game.kinds[mover] != entity.Human {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	return that.apply(ctx, entity.Placement{Row: row, Col: col, Letter: letter})
}

// AutomatedTurnPending - reports whether the next Tick would play a move.
func (that *GameManager) AutomatedTurnPending() bool {
	if !that.InProgress() {
		return false
	}

	return that.game.kinds[that.game.engine.CurrentMover()] == entity.Automated
}

// Tick - plays one automated move when it is an automated seat's turn.
func (that *GameManager) Tick(ctx context.Context) (*sos.MoveResult, error) {
	if !that.AutomatedTurnPending() {
		return nil, nil //nolint: nilnil // nothing to play
	}

	mover := that.game.engine.CurrentMover()

	move, err := that.game.sources[mover].NextMove(ctx, that.game.engine.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("automated %s failed to move: %w", mover, err)
	}

	return that.apply(ctx, move)
}

// Interrupt - abandons the game in progress, marking its record as interrupted.
func (that *GameManager) Interrupt(ctx context.Context) {
	if !that.InProgress() {
		that.game = nil
		return
	}

	first, second := that.game.engine.Scores()
	if that.recorder.IsRecording() {
		if err := that.recorder.Interrupt(ctx, first, second); err != nil {
			that.recordingFailed(that.game, "failed to store interrupted game", err)
		}
	}

	that.game.logger.Info("game interrupted")
	that.game = nil
}

func (that *GameManager) InProgress() bool {
	return that.game != nil && !that.game.engine.IsTerminal()
}

// Snapshot - the current board, nil when no game was started.
func (that *GameManager) Snapshot() entity.Snapshot {
	if that.game == nil {
		return nil
	}

	return that.game.engine.Snapshot()
}

// Scores - the current scores, zero when no game was started.
func (that *GameManager) Scores() (int, int) {
	if that.game == nil {
		return 0, 0
	}

	return that.game.engine.Scores()
}

func (that *GameManager) apply(ctx context.Context, move entity.Placement) (*sos.MoveResult, error) {
	game := that.game
	log := game.logger.With("method", "apply")

	result, err := game.engine.Play(move.Row, move.Col, move.Letter)
	if err != nil {
		return nil, err
	}

	if err = that.recorder.RecordMove(ctx, entity.RecordMove{
		Mover:  result.Mover,
		Row:    move.Row,
		Col:    move.Col,
		Letter: move.Letter,
	}); err != nil {
		that.recordingFailed(game, "move was not recorded", err)
	}

	first, second := game.engine.Scores()

	that.display.RenderMove(result)
	that.display.RenderScores(first, second)

	if !result.Terminal {
		next := game.engine.CurrentMover()
		that.display.RenderTurn(next, game.kinds[next])
		return result, nil
	}

	outcome, err := game.engine.Outcome()
	if err != nil {
		return nil, fmt.Errorf("failed to read outcome: %w", err)
	}

	log.Info("game finished", "outcome", outcome.String())
	that.display.RenderOutcome(outcome.String())

	if that.recorder.IsRecording() {
		if err = that.recorder.End(ctx, first, second); err != nil {
			that.recordingFailed(game, "failed to store finished game", err)
		}
	}

	return result, nil
}

// recordingFailed - logs every storage failure and tells the player about the first one of a game.
func (that *GameManager) recordingFailed(game *liveGame, msg string, err error) {
	game.logger.Error(msg, "error", err)

	if game.recordFailed {
		return
	}
	game.recordFailed = true

	that.display.RenderNotice(fmt.Sprintf("Recording is not being saved: %v", err))
}
