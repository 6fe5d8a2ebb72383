package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func waitForSubscribers(t *testing.T, hub *Hub, n int) {
	require.Eventually(t, func() bool { return hub.Subscribers() == n }, time.Second, 5*time.Millisecond)
}

func TestHub_PublishReachesOnlyThatOrder(t *testing.T) {
	hub := startHub(t)

	watcher := NewClient(hub, nil, "CLZ11111111")
	other := NewClient(hub, nil, "CLZ22222222")
	hub.Register(watcher)
	hub.Register(other)
	waitForSubscribers(t, hub, 2)

	require.NoError(t, hub.Publish("CLZ11111111", map[string]float64{"lat": 12.9165}))

	select {
	case msg := <-watcher.Send:
		var got map[string]float64
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.InDelta(t, 12.9165, got["lat"], 1e-9)
	case <-time.After(time.Second):
		t.Fatal("watcher did not receive update")
	}

	select {
	case <-other.Send:
		t.Fatal("update leaked to another order")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, nil, "CLZ11111111")
	hub.Register(client)
	waitForSubscribers(t, hub, 1)

	hub.Unregister(client)
	waitForSubscribers(t, hub, 0)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)

	client := NewClient(hub, nil, "CLZ11111111")
	hub.Register(client)
	waitForSubscribers(t, hub, 1)

	for i := 0; i < cap(client.Send)+1; i++ {
		require.NoError(t, hub.Publish("CLZ11111111", i))
	}
	waitForSubscribers(t, hub, 0)
}

func TestHub_WatchingFollowsSubscriptions(t *testing.T) {
	hub := startHub(t)
	assert.False(t, hub.Watching("CLZ11111111"))

	client := NewClient(hub, nil, "CLZ11111111")
	hub.Register(client)
	waitForSubscribers(t, hub, 1)
	assert.True(t, hub.Watching("CLZ11111111"))
	assert.False(t, hub.Watching("CLZ22222222"))

	hub.Unregister(client)
	waitForSubscribers(t, hub, 0)
	assert.False(t, hub.Watching("CLZ11111111"))
}

func TestHub_WatchingAfterStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()
	assert.False(t, hub.Watching("CLZ11111111"))
}
