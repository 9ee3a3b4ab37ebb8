package websocket

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub() *Hub {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	hub := NewHub(log)
	go hub.Run()
	return hub
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetConnectionCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connected clients, have %d", want, hub.GetConnectionCount())
}

func recvOne(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast message")
		return nil
	}
}

func TestBroadcastToRun_SlowClientDoesNotPanic(t *testing.T) {
	hub := testHub()

	// An unbuffered Send with no reader models a stalled subscriber.
	slow := &Client{RunID: "run-1", Send: make(chan []byte), Hub: hub}
	healthy := &Client{RunID: "run-1", Send: make(chan []byte, 8), Hub: hub}
	hub.register <- slow
	hub.register <- healthy
	waitForClients(t, hub, 2)

	require.NotPanics(t, func() {
		hub.BroadcastToRun("run-1", map[string]string{"type": "progress"})
		hub.BroadcastToRun("run-1", map[string]string{"type": "progress"})
	})

	// The healthy subscriber got both updates; the slow one just missed
	// them and stays connected.
	assert.NotEmpty(t, recvOne(t, healthy.Send))
	assert.NotEmpty(t, recvOne(t, healthy.Send))
	assert.Equal(t, 2, hub.GetConnectionCount())
}

func TestBroadcastToRun_AfterUnregister(t *testing.T) {
	hub := testHub()

	client := &Client{RunID: "run-2", Send: make(chan []byte, 1), Hub: hub}
	hub.register <- client
	waitForClients(t, hub, 1)

	hub.unregister <- client
	waitForClients(t, hub, 0)

	// The run subscription is pruned with the client, so a later
	// broadcast must not touch its closed Send channel.
	require.NotPanics(t, func() {
		hub.BroadcastToRun("run-2", map[string]string{"type": "progress"})
	})

	_, open := <-client.Send
	assert.False(t, open)
}

func TestBroadcastToAll_EvictsSlowClient(t *testing.T) {
	hub := testHub()

	slow := &Client{RunID: "run-3", Send: make(chan []byte), Hub: hub}
	healthy := &Client{RunID: "run-3", Send: make(chan []byte, 8), Hub: hub}
	hub.register <- slow
	hub.register <- healthy
	waitForClients(t, hub, 2)

	hub.BroadcastToAll(map[string]string{"type": "completed"})
	waitForClients(t, hub, 1)

	assert.NotEmpty(t, recvOne(t, healthy.Send))

	// The evicted client's channel is closed exactly once, by the hub.
	_, open := <-slow.Send
	assert.False(t, open)

	// Broadcasting again must not resend to the evicted client.
	require.NotPanics(t, func() {
		hub.BroadcastToRun("run-3", map[string]string{"type": "progress"})
	})
	assert.NotEmpty(t, recvOne(t, healthy.Send))
}
