package entity

import (
	"errors"
	"fmt"
)

// Cell is an index into the one-dimensional board space.
type Cell uint32

type Status int

const (
	StatusUnknown Status = iota
	StatusPlayer1Turn
	StatusPlayer2Turn
	StatusPlayer1Win
	StatusPlayer2Win
)

var ErrUnknownGameStatus = errors.New("unknown game status")

var statusNames = map[Status]string{
	StatusUnknown:     "UNKNOWN",
	StatusPlayer1Turn: "PLAYER1_TURN",
	StatusPlayer2Turn: "PLAYER2_TURN",
	StatusPlayer1Win:  "PLAYER1_WIN",
	StatusPlayer2Win:  "PLAYER2_WIN",
}

func (that Status) String() string {
	if name, ok := statusNames[that]; ok {
		return name
	}

	return fmt.Sprintf("Status(%d)", int(that))
}

func (that Status) MarshalText() ([]byte, error) {
	if _, ok := statusNames[that]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGameStatus, int(that))
	}

	return []byte(that.String()), nil
}

func (that *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*that = status
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownGameStatus, text)
}

// IsFinished reports whether the status is terminal.
func (that Status) IsFinished() bool {
	return that == StatusPlayer1Win || that == StatusPlayer2Win
}

type Ship struct {
	Type  string `json:"type"`
	Cells []Cell `json:"cells"`
}

type ShipPlacement struct {
	Ships []Ship `json:"ships"`
}

// Occupies reports whether any ship of the placement covers cell.
func (that ShipPlacement) Occupies(cell Cell) bool {
	for _, ship := range that.Ships {
		for _, c := range ship.Cells {
			if c == cell {
				return true
			}
		}
	}

	return false
}

type Shot struct {
	CellID Cell `json:"cell_id"`
	Hit    bool `json:"hit"`
}

// Game is the single persisted record of one game.
type Game struct {
	ID               string        `json:"game_id"`
	Player1ID        string        `json:"player1_id"`
	Player2ID        string        `json:"player2_id"`
	Player1Placement ShipPlacement `json:"player1_placement"`
	Player2Placement ShipPlacement `json:"player2_placement"`
	Player1Shots     []Shot        `json:"player1_shots"`
	Player2Shots     []Shot        `json:"player2_shots"`
	Status           Status        `json:"status"`
}

func (that *Game) IsFinished() bool {
	return that.Status.IsFinished()
}

// Clone copies the record. Shot sequences are copied; placements are shared
// since nothing mutates them after creation.
func (that *Game) Clone() *Game {
	clone := *that
	clone.Player1Shots = append(make([]Shot, 0, len(that.Player1Shots)+1), that.Player1Shots...)
	clone.Player2Shots = append(make([]Shot, 0, len(that.Player2Shots)+1), that.Player2Shots...)

	return &clone
}
