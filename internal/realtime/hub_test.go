package realtime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	ch1 := hub.Subscribe()
	ch2 := hub.Subscribe()
	require.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(&Event{Table: TablePostulations, Type: EventInsert, RecordID: 5, UserID: 1})

	e1 := <-ch1
	e2 := <-ch2
	assert.Equal(t, int64(5), e1.RecordID)
	assert.Equal(t, EventInsert, e1.Type)
	assert.Equal(t, e1, e2)
}

func TestHub_PublishStampsTimestamp(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ch := hub.Subscribe()

	hub.Publish(&Event{Table: TableCompanies, Type: EventInsert, RecordID: 1})

	event := <-ch
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Second)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ch := hub.Subscribe()

	hub.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHub_UnsubscribeTwiceIsSafe(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ch := hub.Subscribe()

	hub.Unsubscribe(ch)
	hub.Unsubscribe(ch)

	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ch := hub.Subscribe()

	// Overflow the buffer. Publish must drop instead of blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+10; i++ {
			hub.Publish(&Event{Table: TablePostulations, Type: EventUpdate, RecordID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	// Must not panic or block
	hub.Publish(&Event{Table: TablePostulations, Type: EventDelete, RecordID: 9})
	assert.Equal(t, 0, hub.SubscriberCount())
}
