package subscriber

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type fakeHandle struct {
	id string
}

func (h fakeHandle) ID() string                            { return h.id }
func (h fakeHandle) Deliver(context.Context, []byte) error { return nil }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry() (*Registry, *testClock) {
	clock := &testClock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	return NewRegistry(logger.NewNopLogger(), WithClock(clock.Now)), clock
}

func boolPtr(b bool) *bool { return &b }

func TestRegistry_SubscribeDefaults(t *testing.T) {
	r, clock := newTestRegistry()

	sub, err := r.Subscribe("u1", subscriber.Partial{})
	require.NoError(t, err)

	assert.Equal(t, []string{"general"}, sub.Categories)
	assert.Equal(t, []annvo.AnnouncementType{annvo.AnnouncementTypeGeneral}, sub.Types)
	assert.Equal(t, subscriber.Preferences{RealTime: true}, sub.Preferences)
	assert.Equal(t, clock.Now(), sub.LastActivity)
}

func TestRegistry_SubscribeMergesExisting(t *testing.T) {
	r, clock := newTestRegistry()

	_, err := r.Subscribe("u1", subscriber.Partial{
		Types:       []annvo.AnnouncementType{annvo.AnnouncementTypeEvent},
		Preferences: subscriber.PreferencesPatch{Email: boolPtr(true)},
	})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	sub, err := r.Subscribe("u1", subscriber.Partial{
		Categories:  []string{"pvp"},
		Preferences: subscriber.PreferencesPatch{Push: boolPtr(true)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"pvp"}, sub.Categories)
	assert.Equal(t, []annvo.AnnouncementType{annvo.AnnouncementTypeEvent}, sub.Types)
	assert.True(t, sub.Preferences.RealTime)
	assert.True(t, sub.Preferences.Email)
	assert.True(t, sub.Preferences.Push)
	assert.Equal(t, clock.Now(), sub.LastActivity)
}

func TestRegistry_SubscribeValidation(t *testing.T) {
	r, _ := newTestRegistry()

	_, err := r.Subscribe("", subscriber.Partial{})
	assert.True(t, errors.IsValidationError(err))

	_, err = r.Subscribe("u1", subscriber.Partial{Types: []annvo.AnnouncementType{"BOGUS"}})
	assert.True(t, errors.IsValidationError(err))
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r, _ := newTestRegistry()
	sub, err := r.Subscribe("u1", subscriber.Partial{Categories: []string{"a"}})
	require.NoError(t, err)

	sub.Categories[0] = "mutated"

	stored, ok := r.Get("u1")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, stored.Categories)
}

func TestRegistry_UpdatePreferences(t *testing.T) {
	r, _ := newTestRegistry()

	_, ok := r.UpdatePreferences("ghost", subscriber.PreferencesPatch{Email: boolPtr(true)})
	assert.False(t, ok)
	_, exists := r.Get("ghost")
	assert.False(t, exists)

	_, err := r.Subscribe("u1", subscriber.Partial{})
	require.NoError(t, err)

	sub, ok := r.UpdatePreferences("u1", subscriber.PreferencesPatch{RealTime: boolPtr(false), SMS: boolPtr(true)})
	require.True(t, ok)
	assert.Equal(t, subscriber.Preferences{SMS: true}, sub.Preferences)
}

func TestRegistry_UnsubscribeRemovesConnection(t *testing.T) {
	r, _ := newTestRegistry()
	_, err := r.Subscribe("u1", subscriber.Partial{})
	require.NoError(t, err)
	r.RegisterConnection("u1", fakeHandle{id: "c1"})

	existed, removed := r.Unsubscribe("u1")
	assert.True(t, existed)
	require.NotNil(t, removed)
	_, ok := r.Connection("u1")
	assert.False(t, ok)

	existed, removed = r.Unsubscribe("u1")
	assert.False(t, existed)
	assert.Nil(t, removed)
}

func TestRegistry_ConnectionReplacement(t *testing.T) {
	r, _ := newTestRegistry()

	assert.Nil(t, r.RegisterConnection("u1", fakeHandle{id: "old"}))
	previous := r.RegisterConnection("u1", fakeHandle{id: "new"})
	require.NotNil(t, previous)
	assert.Equal(t, "old", previous.ID())

	// the stale connection closing must not drop the new one
	assert.False(t, r.RemoveConnectionIf("u1", "old"))
	h, ok := r.Connection("u1")
	require.True(t, ok)
	assert.Equal(t, "new", h.ID())

	assert.True(t, r.RemoveConnectionIf("u1", "new"))
	_, ok = r.Connection("u1")
	assert.False(t, ok)
}

func TestRegistry_ActiveWindow(t *testing.T) {
	r, clock := newTestRegistry()
	_, err := r.Subscribe("stale", subscriber.Partial{})
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	_, err = r.Subscribe("fresh", subscriber.Partial{})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	active := r.GetActiveSubscribers()
	require.Len(t, active, 1)
	assert.Equal(t, "fresh", active[0].UserID)

	r.Touch("stale")
	assert.Len(t, r.GetActiveSubscribers(), 2)
}

func TestRegistry_Candidates(t *testing.T) {
	r, _ := newTestRegistry()
	mustSubscribe := func(id string, p subscriber.Partial) {
		_, err := r.Subscribe(id, p)
		require.NoError(t, err)
	}
	mustSubscribe("events-pvp", subscriber.Partial{
		Types:      []annvo.AnnouncementType{annvo.AnnouncementTypeEvent},
		Categories: []string{"pvp"},
	})
	mustSubscribe("events-any", subscriber.Partial{
		Types:      []annvo.AnnouncementType{annvo.AnnouncementTypeEvent},
		Categories: []string{},
	})
	mustSubscribe("general", subscriber.Partial{})

	ids := func(subs []subscriber.Subscription) []string {
		out := make([]string, 0, len(subs))
		for _, s := range subs {
			out = append(out, s.UserID)
		}
		return out
	}

	assert.Equal(t, []string{"events-any", "events-pvp"}, ids(r.Candidates(annvo.AnnouncementTypeEvent, "")))
	assert.Equal(t, []string{"events-any", "events-pvp"}, ids(r.Candidates(annvo.AnnouncementTypeEvent, "pvp")))
	assert.Equal(t, []string{"events-any"}, ids(r.Candidates(annvo.AnnouncementTypeEvent, "pve")))
	assert.Empty(t, r.Candidates(annvo.AnnouncementTypeUrgent, ""))
}

func TestRegistry_GetStats(t *testing.T) {
	r, _ := newTestRegistry()
	assert.Equal(t, Stats{}, r.GetStats())

	for i := 0; i < 4; i++ {
		_, err := r.Subscribe(fmt.Sprintf("u%d", i), subscriber.Partial{
			Preferences: subscriber.PreferencesPatch{Email: boolPtr(i%2 == 0), Push: boolPtr(i == 3)},
		})
		require.NoError(t, err)
	}
	r.RegisterConnection("u0", fakeHandle{id: "c0"})

	stats := r.GetStats()
	assert.Equal(t, 4, stats.TotalSubscribers)
	assert.Equal(t, 4, stats.ActiveSubscribers)
	assert.Equal(t, 1, stats.ActiveConnections)
	assert.Equal(t, 2, stats.EmailEnabled)
	assert.Equal(t, 1, stats.PushEnabled)
	assert.InDelta(t, 25.0, stats.ConnectionRate, 0.001)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r, _ := newTestRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", i%10)
			_, _ = r.Subscribe(id, subscriber.Partial{})
			r.RegisterConnection(id, fakeHandle{id: fmt.Sprintf("c%d", i)})
			r.Touch(id)
			_ = r.Candidates(annvo.AnnouncementTypeGeneral, "")
			_ = r.GetStats()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, r.GetStats().TotalSubscribers)
}
