package battleship

import (
	"fmt"

	"github.com/rocketscienceinc/battlefun-backend/internal/apperror"
	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

// View builds playerID's view of the game. Unlike turns, the player must be
// one of the two participants.
func View(current *entity.Game, playerID string) (*entity.PlayerView, error) {
	if current == nil {
		return nil, apperror.ErrUnknownGame
	}

	var me seat
	switch playerID {
	case current.Player1ID:
		me = player1
	case current.Player2ID:
		me = player2
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownPlayer, playerID)
	}

	opponent := me.opponent()
	yourShots := shotsOf(current, me)

	view := &entity.PlayerView{
		GameID:                 current.ID,
		PlayerID:               playerID,
		OpponentID:             current.Player2ID,
		Status:                 current.Status,
		YourTurn:               current.Status == turnStatus(me),
		YourShots:              append([]entity.Shot{}, yourShots...),
		OpponentShots:          append([]entity.Shot{}, shotsOf(current, opponent)...),
		DestroyedOpponentShips: DestroyedShips(placementOf(current, opponent), shotHistory(yourShots)),
		YourShips:              placementOf(current, me),
	}

	if me == player2 {
		view.OpponentID = current.Player1ID
	}

	return view, nil
}
