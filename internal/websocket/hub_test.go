package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

// recvMessage reads one message off the client's send buffer. The pumps
// are never started in these tests, so the buffer is inspected directly.
func recvMessage(t *testing.T, c *Client, timeout time.Duration) *Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(timeout):
		t.Fatal("no message arrived in time")
		return nil
	}
}

func expectNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

// awaitSubscribed subscribes and waits for the acknowledgement, which
// guarantees the hub has processed the request.
func awaitSubscribed(t *testing.T, h *Hub, c *Client, jobID string) {
	t.Helper()
	h.Subscribe(c, jobID)
	msg := recvMessage(t, c, time.Second)
	require.Equal(t, MessageTypeSubscribed, msg.Type)

	var payload SubscribedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.Equal(t, jobID, payload.JobID)
}

func progressMessage(t *testing.T, jobID string) *Message {
	t.Helper()
	msg, err := NewMessage(MessageTypeOptimizeProgress, OptimizeProgressPayload{
		JobID:   jobID,
		Status:  "Evaluated 10 of 56 teams",
		Percent: 22.0,
	})
	require.NoError(t, err)
	return msg
}

func TestHub_BroadcastReachesOnlySubscribers(t *testing.T) {
	h := newRunningHub(t)

	watcher := NewClient(h, nil, uuid.New())
	bystander := NewClient(h, nil, uuid.New())
	h.Register(watcher)
	h.Register(bystander)

	awaitSubscribed(t, h, watcher, "job-a")
	awaitSubscribed(t, h, bystander, "job-b")

	h.BroadcastJob("job-a", progressMessage(t, "job-a"))

	got := recvMessage(t, watcher, time.Second)
	assert.Equal(t, MessageTypeOptimizeProgress, got.Type)
	expectNoMessage(t, bystander)

	// Broadcasting to a job nobody watches is a no-op
	h.BroadcastJob("job-unknown", progressMessage(t, "job-unknown"))
	expectNoMessage(t, watcher)
	expectNoMessage(t, bystander)
}

func TestHub_ResubscribeSwitchesJobs(t *testing.T) {
	h := newRunningHub(t)

	client := NewClient(h, nil, uuid.New())
	other := NewClient(h, nil, uuid.New())
	h.Register(client)
	h.Register(other)

	awaitSubscribed(t, h, client, "job-a")
	awaitSubscribed(t, h, client, "job-b")

	h.BroadcastJob("job-a", progressMessage(t, "job-a"))
	expectNoMessage(t, client)

	h.BroadcastJob("job-b", progressMessage(t, "job-b"))
	got := recvMessage(t, client, time.Second)
	assert.Equal(t, MessageTypeOptimizeProgress, got.Type)

	// An empty job ID unsubscribes. Subscription requests are processed in
	// order, so the ack for the other client proves the drop went through.
	h.Subscribe(client, "")
	awaitSubscribed(t, h, other, "job-b")

	h.BroadcastJob("job-b", progressMessage(t, "job-b"))
	recvMessage(t, other, time.Second)
	expectNoMessage(t, client)
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	h := newRunningHub(t)

	slow := NewClient(h, nil, uuid.New())
	fast := NewClient(h, nil, uuid.New())
	h.Register(slow)
	h.Register(fast)

	// Fill the slow client's buffer; its subscribe ack is dropped too
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("backlog")
	}
	h.Subscribe(slow, "job-a")
	awaitSubscribed(t, h, fast, "job-a")

	h.BroadcastJob("job-a", progressMessage(t, "job-a"))

	recvMessage(t, fast, time.Second)
	assert.Len(t, slow.send, cap(slow.send), "full buffer is left untouched")
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := NewClient(h, nil, uuid.New())
	h.Register(client)
	awaitSubscribed(t, h, client, "job-a")

	h.Stop()

	select {
	case _, ok := <-client.send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on stop")
	}

	// All of these are safe after shutdown
	h.Stop()
	h.Unregister(client)
	h.BroadcastJob("job-a", progressMessage(t, "job-a"))
}

func TestHub_UnregisterDetachesClient(t *testing.T) {
	h := newRunningHub(t)

	leaver := NewClient(h, nil, uuid.New())
	stayer := NewClient(h, nil, uuid.New())
	h.Register(leaver)
	h.Register(stayer)

	awaitSubscribed(t, h, leaver, "job-a")
	awaitSubscribed(t, h, stayer, "job-a")

	// Post on the channel directly; the public Unregister drops the
	// request when the run loop is busy.
	h.unregister <- leaver

	select {
	case _, ok := <-leaver.send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("unregistered client's channel was not closed")
	}

	h.BroadcastJob("job-a", progressMessage(t, "job-a"))
	got := recvMessage(t, stayer, time.Second)
	assert.Equal(t, MessageTypeOptimizeProgress, got.Type)
}
