package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastToRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	listening := &Client{Hub: hub, Send: make(chan []byte, 4), Room: RoomForBrkt("brk_1")}
	other := &Client{Hub: hub, Send: make(chan []byte, 4), Room: RoomForBrkt("brk_2")}
	hub.Register <- listening
	hub.Register <- other

	require.Eventually(t, func() bool {
		return hub.RoomSize("brkt_brk_1") == 1 && hub.RoomSize("brkt_brk_2") == 1
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastToRoom(RoomForBrkt("brk_1"), WebSocketMessage{Type: MessageGridUpdated, Payload: Grid{Brackets: 2}})

	select {
	case raw := <-listening.Send:
		var msg struct {
			Type    string `json:"type"`
			Payload Grid   `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessageGridUpdated, msg.Type)
		assert.Equal(t, 2, msg.Payload.Brackets)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	assert.Empty(t, other.Send)

	hub.Unregister <- listening
	require.Eventually(t, func() bool { return hub.RoomSize("brkt_brk_1") == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-listening.Send
	assert.False(t, open)
}

func TestHubJoin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForBrkt("brk_1")}
	require.True(t, hub.Join(client))
	require.Eventually(t, func() bool { return hub.RoomSize("brkt_brk_1") == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-stopped

	joined := make(chan bool, 1)
	go func() {
		joined <- hub.Join(&Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForBrkt("brk_2")})
	}()

	select {
	case ok := <-joined:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("join blocked on a stopped hub")
	}
	assert.Zero(t, hub.RoomSize("brkt_brk_1"))
}
