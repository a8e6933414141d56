package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudosd/internal/models"
	"kudosd/internal/testutil"
)

func testEvent(id string) Event {
	return Event{
		Activity:   &models.Activity{ID: id, ActivityType: "Ride"},
		Evaluation: &models.Evaluation{IsSignificant: true, Priority: models.PriorityHigh},
	}
}

func TestBus_FanOutToAllSubscribers(t *testing.T) {
	bus := NewBus(&testutil.MockLogger{})
	first := bus.Subscribe("first", 4)
	second := bus.Subscribe("second", 4)

	bus.Publish(testEvent("act_1"))

	ev := <-first
	assert.Equal(t, "act_1", ev.Activity.ID)
	ev = <-second
	assert.Equal(t, "act_1", ev.Activity.ID)
}

func TestBus_SlowSubscriberShedsLoad(t *testing.T) {
	logger := &testutil.MockLogger{}
	bus := NewBus(logger)
	ch := bus.Subscribe("slow", 1)

	bus.Publish(testEvent("act_1"))
	bus.Publish(testEvent("act_2"))

	ev := <-ch
	assert.Equal(t, "act_1", ev.Activity.ID)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected second event %s", ev.Activity.ID)
	default:
	}
	assert.Equal(t, 1, logger.CountByLevel("warn"))
}

func TestBus_CloseClosesSubscriberChannels(t *testing.T) {
	bus := NewBus(&testutil.MockLogger{})
	ch := bus.Subscribe("sub", 1)

	bus.Close()

	_, open := <-ch
	require.False(t, open)
}

func TestBus_PublishAfterCloseIsNoOp(t *testing.T) {
	bus := NewBus(&testutil.MockLogger{})
	bus.Subscribe("sub", 1)
	bus.Close()

	assert.NotPanics(t, func() { bus.Publish(testEvent("act_1")) })
}
