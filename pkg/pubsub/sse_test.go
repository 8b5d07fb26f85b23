package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEventBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	// Keep the last 3 events and replay all of them
	pub.ConfigureTopic(TopicVaultStatus, TopicConfig{
		BufferSize: 3,
		ReplayAll:  true,
	})

	for i := 1; i <= 5; i++ {
		err := pub.Publish(TopicVaultStatus, EventScanning, VaultStatus{State: EventScanning, Files: i})
		if err != nil {
			t.Fatalf("Failed to publish event %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicVaultStatus)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	// Should receive versions 3, 4, 5
	for received := 1; received <= 3; received++ {
		select {
		case event := <-sub.Events():
			expectedVersion := received + 2
			if event.Version != expectedVersion {
				t.Errorf("Expected version %d, got %d", expectedVersion, event.Version)
			}

			var status VaultStatus
			if err := json.Unmarshal(event.Data, &status); err != nil {
				t.Fatalf("Failed to decode payload: %v", err)
			}
			if status.Files != expectedVersion {
				t.Errorf("Expected payload files %d, got %d", expectedVersion, status.Files)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for event %d", received)
		}
	}
}

func TestReplayLastOnly(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic(TopicGraph, TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	for i := 1; i <= 3; i++ {
		if err := pub.Publish(TopicGraph, EventGraphUpdated, GraphUpdate{Nodes: i}); err != nil {
			t.Fatalf("Failed to publish event %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicGraph)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case event := <-sub.Events():
		if event.Version != 3 {
			t.Errorf("Expected version 3, got %d", event.Version)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}

	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected extra event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNoBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	for i := 1; i <= 3; i++ {
		if err := pub.Publish(TopicGraph, EventGraphUpdated, GraphUpdate{Nodes: i}); err != nil {
			t.Fatalf("Failed to publish event %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicGraph)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected replayed event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
	}

	if err := pub.Publish(TopicGraph, EventGraphUpdated, GraphUpdate{Nodes: 4}); err != nil {
		t.Fatalf("Failed to publish new event: %v", err)
	}

	select {
	case event := <-sub.Events():
		if event.Version != 4 {
			t.Errorf("Expected version 4, got %d", event.Version)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for new event")
	}
}

func TestContextCancelUnsubscribes(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := pub.Subscribe(ctx, TopicGraph); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if got := pub.SubscriberCount(TopicGraph); got != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", got)
	}

	cancel()

	deadline := time.Now().Add(time.Second)
	for pub.SubscriberCount(TopicGraph) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Subscription was not removed after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLastEvent(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic(TopicVaultStatus, TopicConfig{BufferSize: 1})

	if _, ok := pub.LastEvent(TopicVaultStatus); ok {
		t.Error("Expected no event before publishing")
	}

	_ = pub.Publish(TopicVaultStatus, EventScanning, VaultStatus{State: EventScanning})
	_ = pub.Publish(TopicVaultStatus, EventReady, VaultStatus{State: EventReady})

	event, ok := pub.LastEvent(TopicVaultStatus)
	if !ok || event.Type != EventReady {
		t.Errorf("Expected last event %q, got %+v", EventReady, event)
	}
}

func TestClosedPublisher(t *testing.T) {
	pub := NewSSEPublisher()
	pub.Close()

	if err := pub.Publish(TopicGraph, EventGraphUpdated, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Publish, got %v", err)
	}
	if _, err := pub.Subscribe(context.Background(), TopicGraph); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed from Subscribe, got %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("Expected second Close to succeed, got %v", err)
	}
}

func TestWriteSSE(t *testing.T) {
	var buf bytes.Buffer
	event := Event{Topic: TopicGraph, Type: EventGraphUpdated, Data: json.RawMessage(`{"nodes":2}`), Version: 7}

	if err := WriteSSE(&buf, event); err != nil {
		t.Fatalf("WriteSSE() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "id: 7\nevent: graph_updated\ndata: {") {
		t.Errorf("Unexpected framing: %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("Expected event to end with a blank line, got %q", out)
	}
	if !strings.Contains(out, `"data":{"nodes":2}`) {
		t.Errorf("Expected payload in output, got %q", out)
	}
}
