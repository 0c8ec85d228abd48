package entity

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RecordStatus is the lifecycle state stored in a record's trailer.
type RecordStatus uint8

const (
	StatusInProgress RecordStatus = iota
	StatusCompleted
	StatusInterrupted
)

const (
	statusInProgressName  = "In Progress"
	statusCompletedName   = "Completed"
	statusInterruptedName = "Interrupted"

	headerFields = 7
	moveFields   = 4
)

var (
	ErrMalformedHeader   = errors.New("malformed record header")
	ErrMalformedMove     = errors.New("malformed move line")
	ErrRecordFinalized   = errors.New("record is already finalized")
	ErrUnknownStatus     = errors.New("unknown record status")
	ErrInvalidFinalState = errors.New("record can only be finalized as completed or interrupted")
)

func ParseRecordStatus(name string) (RecordStatus, error) {
	switch name {
	case statusInProgressName:
		return StatusInProgress, nil
	case statusCompletedName:
		return StatusCompleted, nil
	case statusInterruptedName:
		return StatusInterrupted, nil
	default:
		return StatusInProgress, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
	}
}

func (that RecordStatus) String() string {
	switch that {
	case StatusCompleted:
		return statusCompletedName
	case StatusInterrupted:
		return statusInterruptedName
	default:
		return statusInProgressName
	}
}

// RecordHeader is the game configuration, fixed when the record is created.
type RecordHeader struct {
	Simple     bool
	BoardSize  int
	FirstKind  PlayerKind
	SecondKind PlayerKind
}

// RecordMove is one recorded move; its position in GameRecord.Moves is its sequence number.
type RecordMove struct {
	Mover  Mover
	Row    int
	Col    int
	Letter Cell
}

// GameRecord is the durable form of one game: header, moves in play order and the final trailer.
type GameRecord struct {
	Header           RecordHeader
	Moves            []RecordMove
	FinalScoreFirst  int
	FinalScoreSecond int
	Status           RecordStatus
}

// SkippedLine is a move line that could not be decoded and was left out of the record.
type SkippedLine struct {
	Line int
	Text string
	Err  error
}

func NewGameRecord(header RecordHeader) *GameRecord {
	return &GameRecord{
		Header: header,
		Moves:  []RecordMove{},
		Status: StatusInProgress,
	}
}

// AddMove - appends a move while the record is still in progress.
func (that *GameRecord) AddMove(move RecordMove) error {
	if that.IsFinalized() {
		return ErrRecordFinalized
	}

	that.Moves = append(that.Moves, move)

	return nil
}

// Finalize - sets the final scores and terminal status exactly once.
func (that *GameRecord) Finalize(status RecordStatus, scoreFirst, scoreSecond int) error {
	if that.IsFinalized() {
		return ErrRecordFinalized
	}

	if status == StatusInProgress {
		return ErrInvalidFinalState
	}

	that.FinalScoreFirst = scoreFirst
	that.FinalScoreSecond = scoreSecond
	that.Status = status

	return nil
}

func (that *GameRecord) IsFinalized() bool {
	return that.Status != StatusInProgress
}

// Encode - serializes the record: one header line, then one line per move.
func (that *GameRecord) Encode() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s,%d,%s,%s,%d,%d,%s\n",
		strconv.FormatBool(that.Header.Simple),
		that.Header.BoardSize,
		that.Header.FirstKind,
		that.Header.SecondKind,
		that.FinalScoreFirst,
		that.FinalScoreSecond,
		that.Status,
	)

	for _, move := range that.Moves {
		fmt.Fprintf(&buf, "%s,%d,%d,%c\n", move.Mover, move.Row, move.Col, move.Letter.Rune())
	}

	return buf.Bytes()
}

// DecodeRecord - parses an encoded record. A bad header fails the whole decode,
// bad move lines are skipped and returned alongside the record.
func DecodeRecord(data []byte) (*GameRecord, []SkippedLine, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
		}
		return nil, nil, fmt.Errorf("%w: empty record", ErrMalformedHeader)
	}

	record, err := decodeHeader(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, nil, err
	}

	var skipped []SkippedLine
	for line := 2; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		move, err := decodeMove(text)
		if err != nil {
			skipped = append(skipped, SkippedLine{Line: line, Text: text, Err: err})
			continue
		}

		record.Moves = append(record.Moves, move)
	}

	if err = scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read record: %w", err)
	}

	return record, skipped, nil
}

func decodeHeader(line string) (*GameRecord, error) {
	fields := strings.Split(line, ",")
	if len(fields) != headerFields {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedHeader, headerFields, len(fields))
	}

	simple, err := strconv.ParseBool(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: mode: %w", ErrMalformedHeader, err)
	}

	boardSize, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: board size: %w", ErrMalformedHeader, err)
	}

	firstKind, err := ParsePlayerKind(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	secondKind, err := ParsePlayerKind(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	scoreFirst, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w: first score: %w", ErrMalformedHeader, err)
	}

	scoreSecond, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("%w: second score: %w", ErrMalformedHeader, err)
	}

	status, err := ParseRecordStatus(fields[6])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}

	record := NewGameRecord(RecordHeader{
		Simple:     simple,
		BoardSize:  boardSize,
		FirstKind:  firstKind,
		SecondKind: secondKind,
	})
	record.FinalScoreFirst = scoreFirst
	record.FinalScoreSecond = scoreSecond
	record.Status = status

	return record, nil
}

func decodeMove(line string) (RecordMove, error) {
	fields := strings.Split(line, ",")
	if len(fields) != moveFields {
		return RecordMove{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedMove, moveFields, len(fields))
	}

	mover, err := ParseMover(fields[0])
	if err != nil {
		return RecordMove{}, fmt.Errorf("%w: %w", ErrMalformedMove, err)
	}

	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return RecordMove{}, fmt.Errorf("%w: row: %w", ErrMalformedMove, err)
	}

	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return RecordMove{}, fmt.Errorf("%w: col: %w", ErrMalformedMove, err)
	}

	letterField := []rune(fields[3])
	if len(letterField) != 1 {
		return RecordMove{}, fmt.Errorf("%w: letter %q", ErrMalformedMove, fields[3])
	}

	letter, err := ParseLetter(letterField[0])
	if err != nil {
		return RecordMove{}, fmt.Errorf("%w: %w", ErrMalformedMove, err)
	}

	return RecordMove{Mover: mover, Row: row, Col: col, Letter: letter}, nil
}
