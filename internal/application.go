package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/sosgame/internal/config"
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/repository"
	"github.com/rocketscienceinc/sosgame/internal/repository/storage"
	"github.com/rocketscienceinc/sosgame/internal/repository/storage/sqlite"
	"github.com/rocketscienceinc/sosgame/internal/service"
	"github.com/rocketscienceinc/sosgame/internal/sos"
	"github.com/rocketscienceinc/sosgame/internal/usecase"
	"github.com/rocketscienceinc/sosgame/transport/cli"
	"github.com/rocketscienceinc/sosgame/transport/rest"
)

var (
	ErrAddrNotFound       = errors.New("redis address string is empty")
	ErrUnknownStorageType = errors.New("unknown storage driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	repo, closeStorage, err := newRecordRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	defaults, err := gameDefaults(conf.Game)
	if err != nil {
		return fmt.Errorf("invalid game defaults: %w", err)
	}

	display := cli.NewDisplay(os.Stdout)
	recorder := usecase.NewGameRecorder(logger, repo)
	manager := usecase.NewGameManager(logger, display, recorder, moveSourceFactory(logger, conf.Suggestion))
	replay := usecase.NewReplayDriver(logger, recorder, display)
	console := cli.NewConsole(logger, os.Stdin, display, manager, replay, recorder, cli.Cadence{
		AutomatedMove: conf.Cadence.AutomatedMove,
		Replay:        conf.Cadence.Replay,
	}, defaults)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		server := rest.NewServer(logger, conf.HTTPPort, usecase.NewGameRecorder(logger, repo))
		if httpErr := server.Start(ctx); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run console
	consoleErrCh := make(chan error, 1)
	go func() {
		consoleErrCh <- console.Run(ctx)
	}()

	return waitForShutdown(ctx, log, httpErrCh, consoleErrCh)
}

// waitForShutdown - blocks until the console ends or ctx is canceled.
// A failed HTTP server is logged and the console keeps running.
func waitForShutdown(ctx context.Context, log *slog.Logger, httpErrCh <-chan error, consoleErrCh <-chan error) error {
	for {
		select {
		case err := <-httpErrCh:
			log.Error("HTTP server stopped, console keeps running", "error", err)
			httpErrCh = nil
		case err := <-consoleErrCh:
			if err != nil {
				return fmt.Errorf("console error: %w", err)
			}
			log.Info("Console closed, shutting down")
			return nil
		case <-ctx.Done():
			log.Info("Application context canceled, shutting down")
			// wait for the console to store an interrupted game
			select {
			case <-consoleErrCh:
			case <-time.After(time.Second):
			}
			return nil
		}
	}
}

func newRecordRepository(ctx context.Context, conf *config.Config) (repository.RecordRepository, func() error, error) {
	switch conf.Storage.Driver {
	case config.StorageFile:
		repo, err := repository.NewFileRecordRepository(conf.Storage.RecordsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open records directory: %w", err)
		}
		return repo, func() error { return nil }, nil
	case config.StorageMemory:
		return repository.NewMemoryRecordRepository(), func() error { return nil }, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}
		return repository.NewRedisRecordRepository(redisStorage.Connection), redisStorage.Close, nil
	case config.StorageSQLite:
		sqliteStorage, err := sqlite.New(conf.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}
		return repository.NewSQLiteRecordRepository(sqliteStorage.Connection), sqliteStorage.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorageType, conf.Storage.Driver)
	}
}

// moveSourceFactory - heuristic bots, asking the suggestion service first when it is configured.
func moveSourceFactory(logger *slog.Logger, conf config.Suggestion) usecase.MoveSourceFactory {
	random := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game moves, not secrets
	client := &http.Client{Timeout: conf.Timeout}

	return func(mode sos.Mode, mover entity.Mover) usecase.MoveSource {
		heuristic := service.NewBotService(random)
		if !conf.Enabled() {
			return heuristic
		}

		return service.NewSuggestionBotService(logger, conf, client, mode, mover, heuristic)
	}
}

func gameDefaults(conf config.Game) (usecase.GameSettings, error) {
	mode, err := sos.ParseMode(conf.Mode)
	if err != nil {
		return usecase.GameSettings{}, err
	}

	firstKind, err := entity.ParsePlayerKind(conf.FirstKind)
	if err != nil {
		return usecase.GameSettings{}, err
	}

	secondKind, err := entity.ParsePlayerKind(conf.SecondKind)
	if err != nil {
		return usecase.GameSettings{}, err
	}

	return usecase.GameSettings{
		Mode:       mode,
		BoardSize:  conf.BoardSize,
		FirstKind:  firstKind,
		SecondKind: secondKind,
		Record:     conf.Record,
	}, nil
}
