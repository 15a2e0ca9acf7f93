package itemstate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/metaqueue/pkg/itemstate"
)

func TestFire(t *testing.T) {
	t.Parallel()

	t.Run("valid edges", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			from  itemstate.Status
			event itemstate.Event
			to    itemstate.Status
		}{
			{itemstate.Pending, itemstate.Start, itemstate.Processing},
			{itemstate.Processing, itemstate.Succeed, itemstate.Completed},
			{itemstate.Processing, itemstate.Fail, itemstate.Error},
			{itemstate.Error, itemstate.Retry, itemstate.Pending},
		}
		for _, tc := range cases {
			got, err := itemstate.Fire(tc.from, tc.event)
			require.NoError(t, err, "%s --%s-->", tc.from, tc.event)
			assert.Equal(t, tc.to, got)
			assert.True(t, itemstate.CanFire(tc.from, tc.event))
		}
	})

	t.Run("rejected edges", func(t *testing.T) {
		t.Parallel()
		type edge struct {
			from  itemstate.Status
			event itemstate.Event
		}
		allowed := map[edge]bool{
			{itemstate.Pending, itemstate.Start}:      true,
			{itemstate.Processing, itemstate.Succeed}: true,
			{itemstate.Processing, itemstate.Fail}:    true,
			{itemstate.Error, itemstate.Retry}:        true,
		}
		events := []itemstate.Event{itemstate.Start, itemstate.Succeed, itemstate.Fail, itemstate.Retry}
		for _, from := range itemstate.AllStatuses() {
			for _, event := range events {
				if allowed[edge{from, event}] {
					continue
				}
				got, err := itemstate.Fire(from, event)
				require.Error(t, err, "%s --%s--> should be rejected", from, event)
				assert.Equal(t, from, got, "status must be unchanged on rejection")
				assert.True(t, errors.Is(err, itemstate.ErrInvalidTransition))
				assert.True(t, itemstate.IsInvalidTransitionError(err))
				assert.False(t, itemstate.CanFire(from, event))
			}
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		_, err := itemstate.Fire(itemstate.Status("paused"), itemstate.Start)
		var ite *itemstate.InvalidTransitionError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, itemstate.Status("paused"), ite.From)
		assert.Equal(t, itemstate.Start, ite.Event)
		assert.Contains(t, err.Error(), "paused")
	})
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	assert.True(t, itemstate.IsTerminal(itemstate.Completed))
	assert.False(t, itemstate.IsTerminal(itemstate.Error))
	assert.False(t, itemstate.IsTerminal(itemstate.Pending))
	assert.False(t, itemstate.IsTerminal(itemstate.Processing))
	assert.False(t, itemstate.IsTerminal(itemstate.Status("bogus")))
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	s, err := itemstate.ParseStatus("  Completed ")
	require.NoError(t, err)
	assert.Equal(t, itemstate.Completed, s)

	_, err = itemstate.ParseStatus("done")
	assert.ErrorIs(t, err, itemstate.ErrUnknownStatus)

	_, err = itemstate.ParseStatus("")
	assert.ErrorIs(t, err, itemstate.ErrUnknownStatus)
}

func TestEvents(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []itemstate.Event{itemstate.Start}, itemstate.Events(itemstate.Pending))
	assert.Equal(t, []itemstate.Event{itemstate.Succeed, itemstate.Fail}, itemstate.Events(itemstate.Processing))
	assert.Equal(t, []itemstate.Event{itemstate.Retry}, itemstate.Events(itemstate.Error))
	assert.Empty(t, itemstate.Events(itemstate.Completed))
}

func TestAllStatusesReturnsCopy(t *testing.T) {
	t.Parallel()
	statuses := itemstate.AllStatuses()
	statuses[0] = "mutated"
	assert.Equal(t, itemstate.Pending, itemstate.AllStatuses()[0])
}
