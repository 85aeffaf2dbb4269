package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request is the payload a client sends. Game and player come from the
// socket route.
type Request struct {
	Create *entity.CreateGame `json:"create,omitempty"`
	Shot   *entity.Cell       `json:"shot,omitempty"`
}

type Payload struct {
	GameID  string             `json:"game_id,omitempty"`
	View    *entity.PlayerView `json:"view,omitempty"`
	Failure *entity.Failure    `json:"failure,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Reply is what the server sends back.
type Reply struct {
	Action  string  `json:"action"`
	Payload Payload `json:"payload"`
}

func newMessage(action string, payload Payload) Reply {
	return Reply{Action: action, Payload: payload}
}
