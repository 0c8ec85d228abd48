package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
	"github.com/rocketscienceinc/sosgame/internal/usecase"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("wrong arguments")
)

const helpText = `Commands:
  new [simple|general] [size] [human|automated] [human|automated] [record]
  move <row> <col> <S|O>
  board
  list
  replay <name>
  stop
  help
  quit`

type recordLister interface {
	List(ctx context.Context) ([]string, error)
}

// Cadence holds the pauses between automated moves and between replay steps.
type Cadence struct {
	AutomatedMove time.Duration
	Replay        time.Duration
}

// Console reads commands and owns every change to the live game and the replay.
type Console struct {
	logger   *slog.Logger
	in       io.Reader
	display  *Display
	manager  *usecase.GameManager
	replay   *usecase.ReplayDriver
	records  recordLister
	cadence  Cadence
	defaults usecase.GameSettings

	moveTimer    <-chan time.Time
	replayTicker *time.Ticker
}

func NewConsole(
	logger *slog.Logger,
	in io.Reader,
	display *Display,
	manager *usecase.GameManager,
	replay *usecase.ReplayDriver,
	records recordLister,
	cadence Cadence,
	defaults usecase.GameSettings,
) *Console {
	return &Console{
		logger:   logger.With("component", "console"),
		in:       in,
		display:  display,
		manager:  manager,
		replay:   replay,
		records:  records,
		cadence:  cadence,
		defaults: defaults,
	}
}

// Run - processes commands until quit, end of input or ctx cancellation.
func (that *Console) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			log.Error("failed to read input", "error", err)
		}
	}()

	defer that.shutdown(ctx)

	that.display.Message("%s", helpText)

	for {
		if that.moveTimer == nil && that.manager.AutomatedTurnPending() {
			that.moveTimer = time.After(that.cadence.AutomatedMove)
		}

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			quit, err := that.Execute(ctx, line)
			if err != nil {
				that.display.Message("Error: %v", err)
			}
			if quit {
				return nil
			}
		case <-that.moveTimer:
			that.moveTimer = nil
			if _, err := that.manager.Tick(ctx); err != nil {
				log.Error("automated move failed", "error", err)
				that.display.Message("Error: %v", err)
			}
		case <-that.replayTick():
			if err := that.replay.Tick(ctx); err != nil {
				that.display.Message("Error: %v", err)
			}
			if !that.replay.Active() {
				that.stopReplayClock()
			}
		}
	}
}

// Execute - runs one command line, reporting whether the console should quit.
func (that *Console) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "new", "n":
		return false, that.newGame(ctx, args)
	case "move", "m":
		return false, that.move(ctx, args)
	case "board", "b":
		that.display.PrintBoard()
	case "list", "ls":
		return false, that.list(ctx)
	case "replay", "r":
		return false, that.startReplay(ctx, args)
	case "stop":
		that.stop(ctx)
	case "help", "h", "?":
		that.display.Message("%s", helpText)
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q, type 'help'", ErrUnknownCommand, fields[0])
	}

	return false, nil
}

func (that *Console) newGame(ctx context.Context, args []string) error {
	settings, err := parseSettings(that.defaults, args)
	if err != nil {
		return err
	}

	that.stopReplay()
	that.moveTimer = nil

	if err = that.manager.NewGame(ctx, settings); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	return nil
}

func (that *Console) move(ctx context.Context, args []string) error {
	if that.replay.Active() {
		return apperror.ErrReplayActive
	}

	if len(args) != 3 {
		return fmt.Errorf("%w: move <row> <col> <S|O>", ErrUsage)
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: row %q", ErrUsage, args[0])
	}

	col, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: col %q", ErrUsage, args[1])
	}

	letter, err := parseLetter(args[2])
	if err != nil {
		return err
	}

	if _, err = that.manager.PlayHuman(ctx, row, col, letter); err != nil {
		return fmt.Errorf("move rejected: %w", err)
	}

	return nil
}

func (that *Console) list(ctx context.Context) error {
	names, err := that.records.List(ctx)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		that.display.Message("No recorded games.")
		return nil
	}

	for _, name := range names {
		that.display.Message("  %s", name)
	}

	return nil
}

func (that *Console) startReplay(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: replay <name>", ErrUsage)
	}

	if that.manager.InProgress() {
		return fmt.Errorf("%w: type 'stop' first", apperror.ErrGameInProgress)
	}

	that.stopReplay()

	if err := that.replay.Load(ctx, args[0]); err != nil {
		return err
	}

	if err := that.replay.Start(); err != nil {
		return err
	}

	that.replayTicker = time.NewTicker(that.cadence.Replay)

	return nil
}

func (that *Console) stop(ctx context.Context) {
	if that.replay.State() != usecase.ReplayIdle {
		that.stopReplay()
		that.display.Message("Replay stopped.")
		return
	}

	if that.manager.InProgress() {
		that.manager.Interrupt(ctx)
		that.moveTimer = nil
		that.display.Message("Game interrupted.")
	}
}

func (that *Console) stopReplay() {
	that.stopReplayClock()
	that.replay.Stop()
}

func (that *Console) stopReplayClock() {
	if that.replayTicker != nil {
		that.replayTicker.Stop()
		that.replayTicker = nil
	}
}

// replayTick - nil channel blocks forever while no replay is playing.
func (that *Console) replayTick() <-chan time.Time {
	if that.replayTicker == nil {
		return nil
	}

	return that.replayTicker.C
}

func (that *Console) shutdown(ctx context.Context) {
	that.stopReplay()
	that.manager.Interrupt(context.WithoutCancel(ctx))
}

// parseSettings - overrides defaults with positional arguments in any order.
func parseSettings(defaults usecase.GameSettings, args []string) (usecase.GameSettings, error) {
	settings := defaults

	kinds := 0
	for _, arg := range args {
		if size, err := strconv.Atoi(arg); err == nil {
			settings.BoardSize = size
			continue
		}

		if mode, err := sos.ParseMode(strings.ToLower(arg)); err == nil {
			settings.Mode = mode
			continue
		}

		if kind, ok := parseKind(arg); ok {
			if kinds == 0 {
				settings.FirstKind = kind
			} else {
				settings.SecondKind = kind
			}
			kinds++
			continue
		}

		if strings.EqualFold(arg, "record") {
			settings.Record = true
			continue
		}

		return settings, fmt.Errorf("%w: unexpected %q", ErrUsage, arg)
	}

	if kinds > 2 {
		return settings, fmt.Errorf("%w: at most two player kinds", ErrUsage)
	}

	return settings, nil
}

func parseKind(arg string) (entity.PlayerKind, bool) {
	switch strings.ToLower(arg) {
	case "human", "h":
		return entity.Human, true
	case "automated", "auto", "computer", "a", "c":
		return entity.Automated, true
	default:
		return entity.Human, false
	}
}

func parseLetter(arg string) (entity.Cell, error) {
	letter := []rune(strings.ToUpper(arg))
	if len(letter) != 1 {
		return entity.Empty, fmt.Errorf("%w: letter %q", ErrUsage, arg)
	}

	cell, err := entity.ParseLetter(letter[0])
	if err != nil {
		return entity.Empty, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return cell, nil
}
