package cli

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/repository"
	"github.com/rocketscienceinc/sosgame/internal/service"
	"github.com/rocketscienceinc/sosgame/internal/sos"
	"github.com/rocketscienceinc/sosgame/internal/usecase"
	"github.com/rocketscienceinc/sosgame/testing/suite"
)

// syncBuffer lets the test read output written by the console goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (that *syncBuffer) Write(p []byte) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.buf.Write(p)
}

func (that *syncBuffer) String() string {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.buf.String()
}

var defaultSettings = usecase.GameSettings{
	Mode:       sos.ModeSimple,
	BoardSize:  3,
	FirstKind:  entity.Human,
	SecondKind: entity.Human,
}

func newTestConsole(in io.Reader, out io.Writer) *Console {
	logger := suite.NewLogger()
	repo := repository.NewMemoryRecordRepository()
	recorder := usecase.NewGameRecorder(logger, repo)
	display := NewDisplay(out)

	random := rand.New(rand.NewSource(3)) //nolint: gosec // deterministic in tests
	factory := func(_ sos.Mode, _ entity.Mover) usecase.MoveSource {
		return service.NewBotService(random)
	}

	manager := usecase.NewGameManager(logger, display, recorder, factory)
	replay := usecase.NewReplayDriver(logger, recorder, display)
	cadence := Cadence{AutomatedMove: time.Millisecond, Replay: time.Millisecond}

	return NewConsole(logger, in, display, manager, replay, recorder, cadence, defaultSettings)
}

func TestConsole_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a recorded game from typed commands", func(t *testing.T) {
		// Given: a console
		var out bytes.Buffer
		console := newTestConsole(strings.NewReader(""), &out)

		// When: starting a recorded general game and playing two moves
		for _, line := range []string{"new general 5 human human record", "move 0 0 s", "move 0 1 O"} {
			quit, err := console.Execute(ctx, line)
			require.NoError(t, err, line)
			require.False(t, quit)
		}

		// Then: the board and the record reflect the moves
		assert.Contains(t, out.String(), "New general game on a 5x5 board")
		assert.Contains(t, out.String(), "Blue placed S at 0,0")
		assert.Contains(t, out.String(), "Red placed O at 0,1")

		out.Reset()
		_, err := console.Execute(ctx, "list")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "general_Human_vs_Human_")
	})

	t.Run("Rejects malformed and illegal moves", func(t *testing.T) {
		console := newTestConsole(strings.NewReader(""), io.Discard)
		_, err := console.Execute(ctx, "move 0 0 S")
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)

		_, err = console.Execute(ctx, "new")
		require.NoError(t, err)

		_, err = console.Execute(ctx, "move 0 0")
		require.ErrorIs(t, err, ErrUsage)

		_, err = console.Execute(ctx, "move a 0 S")
		require.ErrorIs(t, err, ErrUsage)

		_, err = console.Execute(ctx, "move 0 0 X")
		require.ErrorIs(t, err, ErrUsage)

		_, err = console.Execute(ctx, "move 0 0 S")
		require.NoError(t, err)

		_, err = console.Execute(ctx, "move 0 0 O")
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
	})

	t.Run("Replay needs the live game stopped first", func(t *testing.T) {
		// Given: a recorded game with one move, still in progress
		var out bytes.Buffer
		console := newTestConsole(strings.NewReader(""), &out)
		_, err := console.Execute(ctx, "new general 4 record")
		require.NoError(t, err)
		_, err = console.Execute(ctx, "move 1 1 S")
		require.NoError(t, err)

		names, err := console.records.List(ctx)
		require.NoError(t, err)
		require.Len(t, names, 1)

		// When: asking for a replay
		_, err = console.Execute(ctx, "replay "+names[0])

		// Then: it is refused until the game is stopped
		require.ErrorIs(t, err, apperror.ErrGameInProgress)

		_, err = console.Execute(ctx, "stop")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Game interrupted.")

		_, err = console.Execute(ctx, "replay "+names[0])
		require.NoError(t, err)
		assert.True(t, console.replay.Active())

		// And: moves are refused while the replay plays
		_, err = console.Execute(ctx, "move 0 0 S")
		require.ErrorIs(t, err, apperror.ErrReplayActive)

		_, err = console.Execute(ctx, "stop")
		require.NoError(t, err)
		assert.Equal(t, usecase.ReplayIdle, console.replay.State())
	})

	t.Run("Replay of a missing record fails", func(t *testing.T) {
		console := newTestConsole(strings.NewReader(""), io.Discard)

		_, err := console.Execute(ctx, "replay nothing.txt")

		require.ErrorIs(t, err, apperror.ErrNoRecord)
	})

	t.Run("Unknown commands and quit", func(t *testing.T) {
		console := newTestConsole(strings.NewReader(""), io.Discard)

		_, err := console.Execute(ctx, "dance")
		require.ErrorIs(t, err, ErrUnknownCommand)

		quit, err := console.Execute(ctx, "  ")
		require.NoError(t, err)
		assert.False(t, quit)

		quit, err = console.Execute(ctx, "quit")
		require.NoError(t, err)
		assert.True(t, quit)
	})
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    usecase.GameSettings
		wantErr error
	}{
		{
			name: "defaults",
			want: defaultSettings,
		},
		{
			name: "everything",
			args: []string{"general", "6", "automated", "human", "record"},
			want: usecase.GameSettings{Mode: sos.ModeGeneral, BoardSize: 6, FirstKind: entity.Automated, SecondKind: entity.Human, Record: true},
		},
		{
			name: "one kind sets the first seat",
			args: []string{"Computer"},
			want: usecase.GameSettings{Mode: sos.ModeSimple, BoardSize: 3, FirstKind: entity.Automated, SecondKind: entity.Human},
		},
		{
			name:    "too many kinds",
			args:    []string{"h", "a", "h"},
			wantErr: ErrUsage,
		},
		{
			name:    "garbage",
			args:    []string{"fast"},
			wantErr: ErrUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSettings(defaultSettings, tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsole_Run(t *testing.T) {
	t.Run("Automated players finish a game on the clock", func(t *testing.T) {
		// Given: a console reading from a pipe
		reader, writer := io.Pipe()
		out := &syncBuffer{}
		console := newTestConsole(reader, out)

		done := make(chan error, 1)
		go func() {
			done <- console.Run(context.Background())
		}()

		// When: starting a game between two automated players
		_, err := writer.Write([]byte("new simple automated automated\n"))
		require.NoError(t, err)

		// Then: the game is played to an outcome without further input
		require.Eventually(t, func() bool {
			output := out.String()
			return strings.Contains(output, "wins!") || strings.Contains(output, "draw")
		}, 5*time.Second, 5*time.Millisecond)

		// When: quitting
		_, err = writer.Write([]byte("quit\n"))
		require.NoError(t, err)

		// Then: Run returns
		select {
		case err = <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("console did not stop")
		}
		_ = writer.Close()
	})

	t.Run("Stops when the context is canceled", func(t *testing.T) {
		reader, writer := io.Pipe()
		defer writer.Close()

		console := newTestConsole(reader, io.Discard)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- console.Run(ctx)
		}()

		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("console did not stop")
		}
	})
}
