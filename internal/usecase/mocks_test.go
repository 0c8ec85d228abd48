package usecase

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
)

var errDiskFull = errors.New("disk full")

type mockRecordRepo struct {
	mock.Mock
}

func (that *mockRecordRepo) Save(ctx context.Context, name string, data []byte) error {
	args := that.Called(ctx, name, data)
	return args.Error(0)
}

func (that *mockRecordRepo) Load(ctx context.Context, name string) ([]byte, error) {
	args := that.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (that *mockRecordRepo) List(ctx context.Context) ([]string, error) {
	args := that.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

type fakeDisplay struct {
	size     int
	mode     sos.Mode
	resets   int
	moves    []*sos.MoveResult
	scores   [][2]int
	turns    []entity.Mover
	outcomes []string
	notices  []string
}

func (that *fakeDisplay) Reset(size int, mode sos.Mode) {
	that.size = size
	that.mode = mode
	that.resets++
	that.moves = nil
}

func (that *fakeDisplay) RenderMove(result *sos.MoveResult) {
	that.moves = append(that.moves, result)
}

func (that *fakeDisplay) RenderScores(scoreFirst, scoreSecond int) {
	that.scores = append(that.scores, [2]int{scoreFirst, scoreSecond})
}

func (that *fakeDisplay) RenderTurn(mover entity.Mover, _ entity.PlayerKind) {
	that.turns = append(that.turns, mover)
}

func (that *fakeDisplay) RenderOutcome(text string) {
	that.outcomes = append(that.outcomes, text)
}

func (that *fakeDisplay) RenderNotice(text string) {
	that.notices = append(that.notices, text)
}

func (that *fakeDisplay) lastScores() [2]int {
	if len(that.scores) == 0 {
		return [2]int{}
	}
	return that.scores[len(that.scores)-1]
}

// scriptedSource plays the given moves in order, then fails.
type scriptedSource struct {
	moves []entity.Placement
}

func (that *scriptedSource) NextMove(_ context.Context, _ entity.Snapshot) (entity.Placement, error) {
	if len(that.moves) == 0 {
		return entity.Placement{}, errors.New("script exhausted")
	}

	move := that.moves[0]
	that.moves = that.moves[1:]

	return move, nil
}
