package apperror

import "errors"

// Rejection is an expected domain failure. It is reported to the caller as a
// structured failure and never treated as fatal. Codes are part of the wire
// contract and must not change.
type Rejection struct {
	Code        int
	Description string
}

func (that *Rejection) Error() string {
	return that.Description
}

var (
	ErrUnknownGame     = &Rejection{Code: 1, Description: "Unknown game"}
	ErrGameFinished    = &Rejection{Code: 100, Description: "The game is already finished"}
	ErrNotYourTurn     = &Rejection{Code: 101, Description: "It is not the player's turn"}
	ErrShotAlreadyMade = &Rejection{Code: 102, Description: "The shot was already made"}
)

// Faults: corrupted state or a broken caller contract, never user-correctable.
var (
	ErrCorruptedState    = errors.New("corrupted game state")
	ErrCellOutOfRange    = errors.New("cell is out of range")
	ErrInvalidRequest    = errors.New("request must carry exactly one action")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrUnknownPlayer     = errors.New("player does not take part in the game")
)

// AsRejection returns the rejection carried by err, if any.
func AsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection, true
	}

	return nil, false
}
