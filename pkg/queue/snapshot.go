package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the mutation a Snapshot follows.
type EventType string

const (
	EventAdded        EventType = "added"
	EventRemoved      EventType = "removed"
	EventRetried      EventType = "retried"
	EventCleared      EventType = "cleared"
	EventBatchStarted EventType = "batch_started"
	EventBatchSettled EventType = "batch_settled"
	EventPaused       EventType = "paused"
	EventResumed      EventType = "resumed"
	EventClosed       EventType = "closed"
)

// Snapshot is the observable state of the queue after one mutation.
// Items are deep copies owned by the receiver.
type Snapshot struct {
	// Seq increases by one with every mutation.
	Seq    uint64     `json:"seq"`
	Event  EventType  `json:"event"`
	ItemID uuid.UUID  `json:"item_id,omitzero"` // set for single-item events
	Items  []Item     `json:"items"`
	Stats  Statistics `json:"stats"`
	At     time.Time  `json:"at"`
}
