package pubsub

import (
	"context"
	"encoding/json"
)

// Topics published by the analysis runner
const (
	TopicVaultStatus = "vault_status" // Scan progress and vault totals
	TopicGraph       = "graph"        // Base graph was replaced
)

// Event types of TopicVaultStatus
const (
	EventScanning = "scanning"
	EventReady    = "ready"
	EventFailed   = "failed"
)

// Event types of TopicGraph
const (
	EventGraphUpdated = "graph_updated"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "vault_status", "graph")
	Type    string          `json:"type"`    // Event type (e.g., "scanning", "graph_updated")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Per-topic sequence number
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data any) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// VaultStatus is the payload of TopicVaultStatus events
type VaultStatus struct {
	State      string `json:"state"`   // scanning, ready, failed
	Message    string `json:"message"` // Human-readable status message
	Files      int    `json:"files"`
	Notes      int    `json:"notes"`
	Links      int    `json:"links"`
	Unresolved int    `json:"unresolved"` // Links that point at no file
}

// GraphUpdate is the payload of TopicGraph events. Clients refetch the
// views they show when they receive it.
type GraphUpdate struct {
	Reason       string `json:"reason"` // What triggered the rebuild
	Nodes        int    `json:"nodes"`
	Links        int    `json:"links"`
	AddedNodes   int    `json:"addedNodes"`
	RemovedNodes int    `json:"removedNodes"`
	AddedLinks   int    `json:"addedLinks"`
	RemovedLinks int    `json:"removedLinks"`
	FullGraph    bool   `json:"fullGraph"`
	Fingerprint  string `json:"fingerprint"`
}
