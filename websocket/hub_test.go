package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestClient(t *testing.T, hub *Hub, teacherID, assignmentID string) *Client {
	t.Helper()
	client := &Client{
		Hub:          hub,
		Send:         make(chan []byte, 64),
		TeacherID:    teacherID,
		AssignmentID: assignmentID,
	}
	select {
	case hub.register <- client:
	case <-time.After(time.Second):
		t.Fatal("timed out registering client")
	}

	// Wait for Run to complete the registration
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		registered := hub.clients[client]
		hub.mu.RUnlock()
		if registered {
			return client
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("client was never registered")
	return nil
}

func receive(t *testing.T, client *Client) ProgressEvent {
	t.Helper()
	select {
	case payload := <-client.Send:
		var event ProgressEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return ProgressEvent{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case payload := <-client.Send:
		t.Fatalf("unexpected event delivered: %s", payload)
	default:
	}
}

func TestPublishDeliversToTeacher(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	mine := registerTestClient(t, hub, "teacher-1", "")
	other := registerTestClient(t, hub, "teacher-2", "")

	hub.Publish("teacher-1", ProgressEvent{
		Type:         EventAnalysisProgress,
		AssignmentID: "a1",
		Stage:        "grouping",
		Percent:      15,
	})

	event := receive(t, mine)
	assert.Equal(t, EventAnalysisProgress, event.Type)
	assert.Equal(t, "a1", event.AssignmentID)
	assert.Equal(t, 15, event.Percent)

	assertNoEvent(t, other)
}

func TestPublishRespectsAssignmentSubscription(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscribed := registerTestClient(t, hub, "teacher-1", "a1")
	elsewhere := registerTestClient(t, hub, "teacher-1", "a2")
	all := registerTestClient(t, hub, "teacher-1", "")

	hub.Publish("teacher-1", ProgressEvent{Type: EventAnalysisComplete, AssignmentID: "a1", Percent: 100})

	assert.Equal(t, "a1", receive(t, subscribed).AssignmentID)
	assert.Equal(t, "a1", receive(t, all).AssignmentID)
	assertNoEvent(t, elsewhere)
}

func TestPublishDropsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := registerTestClient(t, hub, "teacher-1", "")
	// Replace the buffer with a full zero-capacity channel
	slow.Send = make(chan []byte)

	hub.Publish("teacher-1", ProgressEvent{Type: EventAnalysisProgress, AssignmentID: "a1"})

	hub.mu.RLock()
	_, stillRegistered := hub.clients[slow]
	hub.mu.RUnlock()
	assert.False(t, stillRegistered)
}
