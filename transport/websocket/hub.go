package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/battlefun-backend/internal/battleship"
	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

const actionGameUpdate = "game:update"

// client is one socket bound to a game and a player.
type client struct {
	conn     *websocket.Conn
	gameID   string
	playerID string

	writeMutex sync.Mutex
}

func (that *client) writeJSON(v any) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	return that.conn.WriteJSON(v)
}

// Hub tracks the sockets of every game and pushes game updates to them.
type Hub struct {
	logger *slog.Logger

	mutex   sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "websocket_hub"),
		clients: make(map[string]map[*client]struct{}),
	}
}

func (that *Hub) register(c *client) {
	that.mutex.Lock()
	defer that.mutex.Unlock()

	if that.clients[c.gameID] == nil {
		that.clients[c.gameID] = make(map[*client]struct{})
	}
	that.clients[c.gameID][c] = struct{}{}
}

func (that *Hub) unregister(c *client) {
	that.mutex.Lock()
	defer that.mutex.Unlock()

	delete(that.clients[c.gameID], c)
	if len(that.clients[c.gameID]) == 0 {
		delete(that.clients, c.gameID)
	}
}

func (that *Hub) connected(gameID string) []*client {
	that.mutex.RLock()
	defer that.mutex.RUnlock()

	result := make([]*client, 0, len(that.clients[gameID]))
	for c := range that.clients[gameID] {
		result = append(result, c)
	}

	return result
}

// Notify - sends every socket of the updated game its own player view.
// Failures and sockets of non-participants are skipped.
func (that *Hub) Notify(response *entity.Response) {
	if response == nil || response.GameUpdate == nil {
		return
	}

	log := that.logger.With("method", "Notify", "gameID", response.GameID)

	for _, c := range that.connected(response.GameID) {
		view, err := battleship.View(response.GameUpdate, c.playerID)
		if err != nil {
			log.Debug("skipping socket", "playerID", c.playerID, "error", err)
			continue
		}

		if err = c.writeJSON(newMessage(actionGameUpdate, Payload{View: view})); err != nil {
			log.Error("failed to send game update", "playerID", c.playerID, "error", err)
		}
	}
}

// Publish - lets the hub serve as the dispatcher egress in a single process.
func (that *Hub) Publish(_ context.Context, response *entity.Response) error {
	that.Notify(response)
	return nil
}
