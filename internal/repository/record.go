package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rocketscienceinc/sosgame/internal/entity"
)

const (
	RecordExtension = ".txt"
	recordKeyPrefix = "record:"
	nameTimeLayout  = "20060102_150405"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidRecordName = errors.New("invalid record name")
)

// RecordRepository stores encoded game records under a file-like name.
type RecordRepository interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// RecordName - builds a unique name like general_Human_vs_Automated_20240131_154502.txt.
func RecordName(header entity.RecordHeader, at time.Time) string {
	mode := "general"
	if header.Simple {
		mode = "simple"
	}

	return fmt.Sprintf("%s_%s_vs_%s_%s%s", mode, header.FirstKind, header.SecondKind, at.Format(nameTimeLayout), RecordExtension)
}

// ValidateName - accepts only a bare record file name.
func ValidateName(name string) error {
	if name == "" || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidRecordName, name)
	}

	if !strings.HasSuffix(name, RecordExtension) {
		return fmt.Errorf("%w: %q must end with %s", ErrInvalidRecordName, name, RecordExtension)
	}

	return nil
}

// sortedRecords - keeps record names only, ordered so newer timestamps of the same setup sort last.
func sortedRecords(names []string) []string {
	records := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasSuffix(name, RecordExtension) {
			records = append(records, name)
		}
	}

	slices.Sort(records)

	return records
}
