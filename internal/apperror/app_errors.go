package apperror

import "errors"

var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrNoRecord         = errors.New("no record available")
	ErrReplayActive     = errors.New("replay is in progress")
	ErrGameInProgress   = errors.New("game is in progress")
)
