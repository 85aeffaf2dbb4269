package battleship

import (
	"fmt"

	"github.com/rocketscienceinc/battlefun-backend/internal/apperror"
	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

const (
	// BoardSize is the size of the board in the reference rules. Shots past it
	// are legal and always miss.
	BoardSize = 100

	// MaxCell bounds the cell index accepted from callers.
	MaxCell entity.Cell = 1 << 20
)

type seat int

const (
	player1 seat = iota
	player2
)

func (that seat) opponent() seat {
	if that == player1 {
		return player2
	}
	return player1
}

// Create builds a fresh game with player 1 to move.
func Create(req *entity.CreateGame) *entity.Game {
	return &entity.Game{
		ID:               req.GameID,
		Player1ID:        req.Player1ID,
		Player2ID:        req.Player2ID,
		Player1Placement: req.Player1Placement,
		Player2Placement: req.Player2Placement,
		Player1Shots:     []entity.Shot{},
		Player2Shots:     []entity.Shot{},
		Status:           entity.StatusPlayer1Turn,
	}
}

// ApplyTurn fires playerID's shot at cell and returns the next record.
// current is never modified. Domain failures are *apperror.Rejection values.
func ApplyTurn(current *entity.Game, playerID string, cell entity.Cell) (*entity.Game, error) {
	if current == nil {
		return nil, apperror.ErrUnknownGame
	}

	// anyone who is not player 1 plays as player 2
	acting := seatOf(current, playerID)

	if current.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	toMove, err := seatToMove(current.Status)
	if err != nil {
		return nil, err
	}

	if toMove != acting {
		return nil, apperror.ErrNotYourTurn
	}

	if cell >= MaxCell {
		return nil, fmt.Errorf("%w: %d", apperror.ErrCellOutOfRange, cell)
	}

	history := shotHistory(shotsOf(current, acting))
	if history.Test(uint(cell)) {
		return nil, apperror.ErrShotAlreadyMade
	}

	opponentPlacement := placementOf(current, acting.opponent())
	shot := entity.Shot{CellID: cell, Hit: opponentPlacement.Occupies(cell)}

	next := current.Clone()
	if acting == player1 {
		next.Player1Shots = append(next.Player1Shots, shot)
	} else {
		next.Player2Shots = append(next.Player2Shots, shot)
	}

	history.Set(uint(cell))

	if !HasRemainingShips(opponentPlacement, history) {
		next.Status = winStatus(acting)
		return next, nil
	}

	next.Status = turnStatus(acting.opponent())

	return next, nil
}

// Resign declares the other player the winner. A finished game stays as it is.
func Resign(current *entity.Game, playerID string) (*entity.Game, error) {
	if current == nil {
		return nil, apperror.ErrUnknownGame
	}

	if current.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	next := current.Clone()
	next.Status = winStatus(seatOf(current, playerID).opponent())

	return next, nil
}

// GetStatus returns a copy of the current record.
func GetStatus(current *entity.Game) (*entity.Game, error) {
	if current == nil {
		return nil, apperror.ErrUnknownGame
	}

	return current.Clone(), nil
}

func seatOf(game *entity.Game, playerID string) seat {
	if playerID == game.Player1ID {
		return player1
	}
	return player2
}

func seatToMove(status entity.Status) (seat, error) {
	switch status {
	case entity.StatusPlayer1Turn:
		return player1, nil
	case entity.StatusPlayer2Turn:
		return player2, nil
	default:
		return 0, fmt.Errorf("%w: no player to move in status %s", apperror.ErrCorruptedState, status)
	}
}

func shotsOf(game *entity.Game, s seat) []entity.Shot {
	if s == player1 {
		return game.Player1Shots
	}
	return game.Player2Shots
}

func placementOf(game *entity.Game, s seat) entity.ShipPlacement {
	if s == player1 {
		return game.Player1Placement
	}
	return game.Player2Placement
}

func winStatus(s seat) entity.Status {
	if s == player1 {
		return entity.StatusPlayer1Win
	}
	return entity.StatusPlayer2Win
}

func turnStatus(s seat) entity.Status {
	if s == player1 {
		return entity.StatusPlayer1Turn
	}
	return entity.StatusPlayer2Turn
}
