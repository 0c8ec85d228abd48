package usecase

import (
	"github.com/rocketscienceinc/sosgame/internal/entity"
	"github.com/rocketscienceinc/sosgame/internal/sos"
)

// Display receives everything a live game or a replay has to show.
type Display interface {
	Reset(size int, mode sos.Mode)
	RenderMove(result *sos.MoveResult)
	RenderScores(scoreFirst, scoreSecond int)
	RenderTurn(mover entity.Mover, kind entity.PlayerKind)
	RenderOutcome(text string)
	RenderNotice(text string)
}
