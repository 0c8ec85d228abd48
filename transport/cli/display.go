package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
)

// Display renders games and replays as plain text.
type Display struct {
	out   io.Writer
	mode  sos.Mode
	board [][]rune
}

func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

func (that *Display) Reset(size int, mode sos.Mode) {
	that.mode = mode
	that.board = make([][]rune, size)
	for row := range that.board {
		that.board[row] = []rune(strings.Repeat(".", size))
	}

	that.printf("New %s game on a %dx%d board\n", mode, size, size)
	that.PrintBoard()
}

func (that *Display) RenderMove(result *sos.MoveResult) {
	placement := result.Placement
	that.board[placement.Row][placement.Col] = placement.Letter.Rune()

	that.printf("%s placed %s at %d,%d\n", result.Mover, placement.Letter, placement.Row, placement.Col)

	for _, sequence := range result.Sequences {
		that.printf("%s formed SOS %s: %s %s %s\n", result.Mover, sequence.Direction,
			position(sequence.First), position(sequence.Middle), position(sequence.Last))
	}

	that.PrintBoard()
}

func (that *Display) RenderScores(scoreFirst, scoreSecond int) {
	if that.mode != sos.ModeGeneral {
		return
	}

	that.printf("Score: %s %d, %s %d\n", entity.First, scoreFirst, entity.Second, scoreSecond)
}

func (that *Display) RenderTurn(mover entity.Mover, kind entity.PlayerKind) {
	that.printf("%s's turn (%s)\n", mover, kind)
}

func (that *Display) RenderOutcome(text string) {
	that.printf("%s\n", text)
}

func (that *Display) RenderNotice(text string) {
	that.printf("! %s\n", text)
}

// PrintBoard - prints the board with row and column indexes.
func (that *Display) PrintBoard() {
	if len(that.board) == 0 {
		that.printf("No board yet. Type 'new' to start a game.\n")
		return
	}

	var builder strings.Builder

	builder.WriteString("   ")
	for col := range that.board {
		fmt.Fprintf(&builder, " %d", col)
	}
	builder.WriteByte('\n')

	for row, line := range that.board {
		fmt.Fprintf(&builder, "%2d ", row)
		for _, char := range line {
			builder.WriteByte(' ')
			builder.WriteRune(char)
		}
		builder.WriteByte('\n')
	}

	that.printf("%s", builder.String())
}

// Message - prints a free-form line for the user.
func (that *Display) Message(format string, args ...any) {
	that.printf(format+"\n", args...)
}

func (that *Display) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

func position(pos entity.Position) string {
	return fmt.Sprintf("(%d,%d)", pos.Row, pos.Col)
}
