package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/metaqueue/pkg/itemstate"
	"github.com/dmitrymomot/metaqueue/pkg/preview"
)

// Item is one queued file. Values returned by the Manager are copies; the
// status-dependent fields are only changed through the transition methods
// below, so Result is set only when completed and Error only when errored.
type Item struct {
	ID         uuid.UUID        `json:"id"`
	Payload    Payload          `json:"-"`
	Name       string           `json:"name"`
	Size       int64            `json:"size"`
	Status     itemstate.Status `json:"status"`
	Progress   int              `json:"progress"`
	Error      string           `json:"error,omitempty"`
	Result     Metadata         `json:"result,omitempty"`
	Preview    preview.Handle   `json:"preview"`
	Attempts   int              `json:"attempts"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  time.Time        `json:"started_at,omitzero"`
	FinishedAt time.Time        `json:"finished_at,omitzero"`
}

// Err returns the extraction failure as an error wrapping
// ErrExtractionFailed, or nil unless the item is in error.
func (it Item) Err() error {
	if it.Status != itemstate.Error {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrExtractionFailed, it.Error)
}

// Duration returns how long the last extraction pass took, or 0.
func (it Item) Duration() time.Duration {
	if it.StartedAt.IsZero() || it.FinishedAt.IsZero() {
		return 0
	}
	return it.FinishedAt.Sub(it.StartedAt)
}

func newItem(p Payload, h preview.Handle, id uuid.UUID, now time.Time) *Item {
	return &Item{
		ID:        id,
		Payload:   p,
		Name:      p.Name(),
		Size:      p.Size(),
		Status:    itemstate.Pending,
		Preview:   h,
		CreatedAt: now,
	}
}

func (it *Item) fire(event itemstate.Event) error {
	next, err := itemstate.Fire(it.Status, event)
	if err != nil {
		return err
	}
	it.Status = next
	return nil
}

func (it *Item) start(now time.Time) error {
	if err := it.fire(itemstate.Start); err != nil {
		return err
	}
	it.Progress = 0
	it.Attempts++
	it.StartedAt = now
	it.FinishedAt = time.Time{}
	return nil
}

func (it *Item) complete(md Metadata, now time.Time) error {
	if err := it.fire(itemstate.Succeed); err != nil {
		return err
	}
	if md == nil {
		md = Metadata{}
	}
	it.Result = md
	it.Error = ""
	it.Progress = 100
	it.FinishedAt = now
	return nil
}

func (it *Item) fail(cause error, now time.Time) error {
	if err := it.fire(itemstate.Fail); err != nil {
		return err
	}
	msg := "unknown error"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	it.Error = msg
	it.Result = nil
	it.Progress = 0
	it.FinishedAt = now
	return nil
}

func (it *Item) retry() error {
	if err := it.fire(itemstate.Retry); err != nil {
		return err
	}
	it.Error = ""
	it.Result = nil
	it.Progress = 0
	it.StartedAt = time.Time{}
	it.FinishedAt = time.Time{}
	return nil
}

func (it *Item) clone() Item {
	c := *it
	c.Result = it.Result.Clone()
	return c
}
