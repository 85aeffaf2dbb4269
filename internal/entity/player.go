package entity

// PlayerView is what one player may see of a game. It never carries the
// opponent's placement.
type PlayerView struct {
	GameID                 string        `json:"game_id"`
	PlayerID               string        `json:"player_id"`
	OpponentID             string        `json:"opponent_id"`
	Status                 Status        `json:"status"`
	YourTurn               bool          `json:"your_turn"`
	YourShots              []Shot        `json:"your_shots"`
	OpponentShots          []Shot        `json:"opponent_shots"`
	DestroyedOpponentShips []string      `json:"destroyed_opponent_ships"`
	YourShips              ShipPlacement `json:"your_ships"`
}
