package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and returns a game", func(t *testing.T) {
		// Given: an empty repository
		gameRepo := NewMemoryGameRepository()
		game := testGame("g1", entity.StatusPlayer1Turn)

		// When: the game is stored and read back
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
		retrievedGame, err := gameRepo.GetByID(ctx, "g1")

		// Then: an equal copy is returned
		require.NoError(t, err)
		assert.Equal(t, game, retrievedGame)
		assert.NotSame(t, game, retrievedGame)
	})

	t.Run("Stored record is isolated from the caller", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository()
		game := testGame("g1", entity.StatusPlayer1Turn)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the caller mutates its record afterwards
		game.Status = entity.StatusPlayer2Win
		game.Player1Shots[0].CellID = 99

		// Then: the stored record is unaffected
		retrievedGame, err := gameRepo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPlayer1Turn, retrievedGame.Status)
		assert.Equal(t, entity.Cell(7), retrievedGame.Player1Shots[0].CellID)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository()

		retrievedGame, err := gameRepo.GetByID(ctx, "missing")

		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})

	t.Run("CreateOrUpdate replaces the stored record", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository()
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, testGame("g1", entity.StatusPlayer2Turn)))

		require.NoError(t, gameRepo.CreateOrUpdate(ctx, testGame("g1", entity.StatusPlayer1Win)))

		retrievedGame, err := gameRepo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPlayer1Win, retrievedGame.Status)
	})
}
