package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
	"github.com/rocketscienceinc/battlefun-backend/testing/suite"
)

func TestPublisher_PublishSubscribe(t *testing.T) {
	ctx, st := suite.New(t)

	publisher := New(st.Logger, st.Storage, "")

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	received := make(chan *entity.Response, 1)
	done := make(chan error, 1)
	go func() {
		done <- publisher.Subscribe(subCtx, func(response *entity.Response) {
			received <- response
		})
	}()

	// Given: a subscriber is listening
	require.Eventually(t, func() bool {
		channels, err := st.Storage.PubSubNumSub(ctx, DefaultChannel).Result()
		return err == nil && channels[DefaultChannel] > 0
	}, 10*time.Second, 50*time.Millisecond)

	// When: a failure response is published
	response := &entity.Response{
		GameID:  "g1",
		Failure: &entity.Failure{Code: 1, Description: "Unknown game"},
	}
	require.NoError(t, publisher.Publish(ctx, response))

	// Then: the subscriber receives it unchanged
	select {
	case got := <-received:
		assert.Equal(t, response, got)
	case <-time.After(10 * time.Second):
		t.Fatal("response was not delivered")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestPublisher_SubscribeSkipsMalformedPayloads(t *testing.T) {
	ctx, st := suite.New(t)

	publisher := New(st.Logger, st.Storage, "")

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	received := make(chan *entity.Response, 1)
	done := make(chan error, 1)
	go func() {
		done <- publisher.Subscribe(subCtx, func(response *entity.Response) {
			received <- response
		})
	}()

	require.Eventually(t, func() bool {
		channels, err := st.Storage.PubSubNumSub(ctx, DefaultChannel).Result()
		return err == nil && channels[DefaultChannel] > 0
	}, 10*time.Second, 50*time.Millisecond)

	// Given: garbage was published on the egress channel
	require.NoError(t, st.Storage.Publish(ctx, DefaultChannel, "not a response").Err())

	// When: a valid response follows
	response := &entity.Response{
		GameID:  "g1",
		Failure: &entity.Failure{Code: 101, Description: "It is not the player's turn"},
	}
	require.NoError(t, publisher.Publish(ctx, response))

	// Then: the subscriber is still running and delivers it
	select {
	case got := <-received:
		assert.Equal(t, response, got)
	case err := <-done:
		t.Fatalf("subscriber stopped: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("response was not delivered")
	}

	cancel()
	require.NoError(t, <-done)
}
