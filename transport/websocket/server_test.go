package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
	"github.com/rocketscienceinc/battlefun-backend/internal/repository"
	"github.com/rocketscienceinc/battlefun-backend/internal/usecase"
)

const readTimeout = 5 * time.Second

func newTestServer(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger)
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(), hub, nil)

	server := httptest.NewServer(New(logger, manager, hub).Handler(ctx))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// dial connects and waits until the server serves the socket.
func dial(t *testing.T, baseURL, gameID, playerID string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(baseURL+"/ws/"+gameID+"/"+playerID, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	send(t, conn, `{"action": "game:status"}`)
	readUntil(t, conn, actionGameStatus)

	return conn
}

func send(t *testing.T, conn *websocket.Conn, message string) {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(message)))
}

// readUntil skips pushed messages until one with action arrives.
func readUntil(t *testing.T, conn *websocket.Conn, action string) Reply {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	for {
		var reply Reply
		require.NoError(t, conn.ReadJSON(&reply))

		if reply.Action == action {
			return reply
		}
	}
}

const createMessage = `{"action": "game:create", "payload": {"create": {
	"player1_id": "alice",
	"player2_id": "bob",
	"player1_placement": {"ships": [{"type": "boat", "cells": [1, 2]}]},
	"player2_placement": {"ships": [{"type": "boat", "cells": [3]}]}
}}}`

func TestGameOverWebSocket(t *testing.T) {
	t.Run("Both players receive their own views", func(t *testing.T) {
		// Given: both players connected to g1
		url := newTestServer(t)
		alice := dial(t, url, "g1", "alice")
		bob := dial(t, url, "g1", "bob")

		// When: alice creates the game
		send(t, alice, createMessage)

		// Then: alice gets a reply and bob gets a pushed update
		created := readUntil(t, alice, actionGameCreate)
		assert.Empty(t, created.Payload.Failure)
		require.NotNil(t, created.Payload.View)
		assert.Equal(t, "g1", created.Payload.GameID)
		assert.True(t, created.Payload.View.YourTurn)
		assert.Equal(t, []entity.Cell{1, 2}, created.Payload.View.YourShips.Ships[0].Cells)

		update := readUntil(t, bob, actionGameUpdate)
		require.NotNil(t, update.Payload.View)
		assert.Equal(t, "bob", update.Payload.View.PlayerID)
		assert.False(t, update.Payload.View.YourTurn)
		assert.Equal(t, []entity.Cell{3}, update.Payload.View.YourShips.Ships[0].Cells)

		// When: alice sinks bob's only ship
		send(t, alice, `{"action": "game:turn", "payload": {"shot": 3}}`)

		// Then: both see the win
		turn := readUntil(t, alice, actionGameTurn)
		require.NotNil(t, turn.Payload.View)
		assert.Equal(t, entity.StatusPlayer1Win, turn.Payload.View.Status)
		assert.Equal(t, []string{"boat"}, turn.Payload.View.DestroyedOpponentShips)

		update = readUntil(t, bob, actionGameUpdate)
		require.NotNil(t, update.Payload.View)
		assert.Equal(t, entity.StatusPlayer1Win, update.Payload.View.Status)
		assert.Equal(t, []entity.Shot{{CellID: 3, Hit: true}}, update.Payload.View.OpponentShots)
	})

	t.Run("Rejections are replied to the sender", func(t *testing.T) {
		url := newTestServer(t)
		alice := dial(t, url, "g1", "alice")
		bob := dial(t, url, "g1", "bob")
		send(t, alice, createMessage)
		readUntil(t, alice, actionGameCreate)

		send(t, bob, `{"action": "game:turn", "payload": {"shot": 1}}`)

		reply := readUntil(t, bob, actionGameTurn)
		assert.Nil(t, reply.Payload.View)
		require.NotNil(t, reply.Payload.Failure)
		assert.Equal(t, 101, reply.Payload.Failure.Code)
	})

	t.Run("Resign", func(t *testing.T) {
		url := newTestServer(t)
		alice := dial(t, url, "g1", "alice")
		send(t, alice, createMessage)
		readUntil(t, alice, actionGameCreate)

		send(t, alice, `{"action": "game:resign"}`)

		reply := readUntil(t, alice, actionGameResign)
		require.NotNil(t, reply.Payload.View)
		assert.Equal(t, entity.StatusPlayer2Win, reply.Payload.View.Status)
	})

	t.Run("Spectators get no view", func(t *testing.T) {
		url := newTestServer(t)
		carol := dial(t, url, "g1", "carol")

		send(t, carol, createMessage)

		reply := readUntil(t, carol, actionGameCreate)
		assert.Equal(t, "g1", reply.Payload.GameID)
		assert.Nil(t, reply.Payload.View)
		assert.Nil(t, reply.Payload.Failure)

		send(t, carol, `{"action": "game:view"}`)
		reply = readUntil(t, carol, actionGameView)
		assert.Contains(t, reply.Payload.Error, "player does not take part")
	})
}

func TestMessageErrors(t *testing.T) {
	t.Run("Unknown game", func(t *testing.T) {
		url := newTestServer(t)
		alice := dial(t, url, "missing", "alice")

		send(t, alice, `{"action": "game:view"}`)
		view := readUntil(t, alice, actionGameView)
		assert.Equal(t, "Unknown game", view.Payload.Error)

		send(t, alice, `{"action": "game:turn", "payload": {"shot": 4}}`)
		turn := readUntil(t, alice, actionGameTurn)
		require.NotNil(t, turn.Payload.Failure)
		assert.Equal(t, 1, turn.Payload.Failure.Code)
	})

	t.Run("Malformed and unknown messages keep the socket open", func(t *testing.T) {
		url := newTestServer(t)
		alice := dial(t, url, "g1", "alice")

		send(t, alice, `not json`)
		assert.Equal(t, "malformed message", readUntil(t, alice, actionError).Payload.Error)

		send(t, alice, `{"action": "game:status"`)
		assert.Equal(t, "malformed message", readUntil(t, alice, actionError).Payload.Error)

		send(t, alice, `{"action": ["game:status"]}`)
		assert.Equal(t, "malformed message", readUntil(t, alice, actionError).Payload.Error)

		send(t, alice, `{"action": "game:dance"}`)
		assert.Equal(t, "unknown action", readUntil(t, alice, "game:dance").Payload.Error)

		send(t, alice, `{"action": "game:turn"}`)
		assert.Equal(t, "shot is required", readUntil(t, alice, actionGameTurn).Payload.Error)

		send(t, alice, `{"action": "game:create", "payload": {"create": 5}}`)
		assert.Equal(t, "invalid payload", readUntil(t, alice, actionGameCreate).Payload.Error)
	})

	t.Run("Duplicate create", func(t *testing.T) {
		url := newTestServer(t)
		alice := dial(t, url, "g1", "alice")
		send(t, alice, createMessage)
		readUntil(t, alice, actionGameCreate)

		send(t, alice, createMessage)

		assert.Contains(t, readUntil(t, alice, actionGameCreate).Payload.Error, "game already exists")
	})
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, hub.Publish(context.Background(), nil))
	assert.NoError(t, hub.Publish(context.Background(), &entity.Response{
		GameID:  "g1",
		Failure: &entity.Failure{Code: 1, Description: "Unknown game"},
	}))
}
