package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/sosgame/internal/apperror"
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/repository"
)

type recordRepo interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// GameRecorder owns the record of the game being played and persists it after every change.
type GameRecorder struct {
	logger *slog.Logger
	repo   recordRepo
	now    func() time.Time

	// lastStart keeps record names unique when games start within the same second.
	lastStart time.Time

	name   string
	record *entity.GameRecord
}

func NewGameRecorder(logger *slog.Logger, repo recordRepo) *GameRecorder {
	return &GameRecorder{
		logger: logger.With("component", "recorder"),
		repo:   repo,
		now:    time.Now,
	}
}

// Start - opens a new record and stores its header right away.
// The record stays active even when the first save fails.
func (that *GameRecorder) Start(ctx context.Context, header entity.RecordHeader) (string, error) {
	log := that.logger.With("method", "Start")

	if that.IsRecording() {
		return "", apperror.ErrGameInProgress
	}

	at := that.now().Truncate(time.Second)
	if !at.After(that.lastStart) {
		at = that.lastStart.Add(time.Second)
	}
	that.lastStart = at

	that.name = repository.RecordName(header, at)
	that.record = entity.NewGameRecord(header)

	log.Info("recording started", "record", that.name)

	return that.name, that.save(ctx)
}

// RecordMove - appends a move and re-saves the record; does nothing when not recording.
func (that *GameRecorder) RecordMove(ctx context.Context, move entity.RecordMove) error {
	if !that.IsRecording() {
		return nil
	}

	if err := that.record.AddMove(move); err != nil {
		return fmt.Errorf("failed to add move: %w", err)
	}

	return that.save(ctx)
}

// End - finalizes the active record as completed.
func (that *GameRecorder) End(ctx context.Context, scoreFirst, scoreSecond int) error {
	return that.finalize(ctx, entity.StatusCompleted, scoreFirst, scoreSecond)
}

// Interrupt - finalizes the active record as interrupted.
func (that *GameRecorder) Interrupt(ctx context.Context, scoreFirst, scoreSecond int) error {
	return that.finalize(ctx, entity.StatusInterrupted, scoreFirst, scoreSecond)
}

func (that *GameRecorder) IsRecording() bool {
	return that.record != nil
}

// Load - reads and decodes a stored record. Bad move lines are logged and skipped;
// a missing record or bad header is reported as apperror.ErrNoRecord.
func (that *GameRecorder) Load(ctx context.Context, name string) (*entity.GameRecord, error) {
	log := that.logger.With("method", "Load", "record", name)

	data, err := that.repo.Load(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) || errors.Is(err, repository.ErrInvalidRecordName) {
			return nil, fmt.Errorf("%w: %w", apperror.ErrNoRecord, err)
		}
		log.Error("failed to load record", "error", err)
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	record, skipped, err := entity.DecodeRecord(data)
	if err != nil {
		log.Warn("record header is malformed", "error", err)
		return nil, fmt.Errorf("%w: %w", apperror.ErrNoRecord, err)
	}

	for _, line := range skipped {
		log.Warn("skipping malformed move line", "line", line.Line, "text", line.Text, "error", line.Err)
	}

	return record, nil
}

func (that *GameRecorder) List(ctx context.Context) ([]string, error) {
	names, err := that.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return names, nil
}

func (that *GameRecorder) finalize(ctx context.Context, status entity.RecordStatus, scoreFirst, scoreSecond int) error {
	log := that.logger.With("method", "finalize")

	if !that.IsRecording() {
		return nil
	}

	if err := that.record.Finalize(status, scoreFirst, scoreSecond); err != nil {
		return fmt.Errorf("failed to finalize record: %w", err)
	}

	err := that.save(ctx)

	log.Info("recording finished", "record", that.name, "status", status.String())

	that.name = ""
	that.record = nil

	return err
}

func (that *GameRecorder) save(ctx context.Context) error {
	if err := that.repo.Save(ctx, that.name, that.record.Encode()); err != nil {
		that.logger.Error("failed to save record", "record", that.name, "error", err)
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}
