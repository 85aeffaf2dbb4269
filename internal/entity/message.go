package entity

type CreateGame struct {
	GameID           string        `json:"game_id"`
	Player1ID        string        `json:"player1_id"`
	Player2ID        string        `json:"player2_id"`
	Player1Placement ShipPlacement `json:"player1_placement"`
	Player2Placement ShipPlacement `json:"player2_placement"`
}

type GetGameStatus struct {
	GameID string `json:"game_id"`
}

type Resign struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type Turn struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Shot     Cell   `json:"shot"`
}

// Request is an inbound message. Exactly one variant is set.
type Request struct {
	CreateGame    *CreateGame    `json:"create_game,omitempty"`
	GetGameStatus *GetGameStatus `json:"get_game_status,omitempty"`
	Resign        *Resign        `json:"resign,omitempty"`
	Turn          *Turn          `json:"turn,omitempty"`
}

// Variants returns how many variants are set.
func (that *Request) Variants() int {
	count := 0
	if that.CreateGame != nil {
		count++
	}
	if that.GetGameStatus != nil {
		count++
	}
	if that.Resign != nil {
		count++
	}
	if that.Turn != nil {
		count++
	}

	return count
}

// GameID returns the game the request is routed by.
func (that *Request) GameID() string {
	switch {
	case that.CreateGame != nil:
		return that.CreateGame.GameID
	case that.GetGameStatus != nil:
		return that.GetGameStatus.GameID
	case that.Resign != nil:
		return that.Resign.GameID
	case that.Turn != nil:
		return that.Turn.GameID
	default:
		return ""
	}
}

type Failure struct {
	Code        int    `json:"code"`
	Description string `json:"failure_description"`
}

// Response carries either the game update or a failure.
type Response struct {
	GameID     string   `json:"game_id"`
	GameUpdate *Game    `json:"game_update,omitempty"`
	Failure    *Failure `json:"failure,omitempty"`
}
