package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestDispatcher(timeout time.Duration) (*Dispatcher, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	return New(timeout, logging.New(nil, "silent"), WithClock(clock.Now)), clock
}

func TestPush(t *testing.T) {
	d, clock := newTestDispatcher(5 * time.Second)

	n := d.Push("Agent created", domain.NotifySuccess)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "Agent created", n.Message)
	assert.Equal(t, domain.NotifySuccess, n.Kind)
	assert.Equal(t, clock.Now(), n.CreatedAt)
	assert.Equal(t, []Notification{n}, d.Visible())
}

func TestPush_UnknownKindFallsBackToInfo(t *testing.T) {
	d, _ := newTestDispatcher(0)
	n := d.Push("hello", domain.NotificationKind("celebration"))
	assert.Equal(t, domain.NotifyInfo, n.Kind)
}

func TestPush_PreservesOrderAndDuplicates(t *testing.T) {
	d, _ := newTestDispatcher(0)

	a := d.Push("Failed to delete agent. Please try again.", domain.NotifyError)
	b := d.Push("Failed to delete agent. Please try again.", domain.NotifyError)
	c := d.Push("Loaded", domain.NotifyInfo)

	visible := d.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{visible[0].ID, visible[1].ID, visible[2].ID})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDismiss(t *testing.T) {
	d, _ := newTestDispatcher(0)
	a := d.Push("one", domain.NotifyInfo)
	b := d.Push("two", domain.NotifyWarning)

	assert.True(t, d.Dismiss(a.ID))
	assert.False(t, d.Dismiss(a.ID))
	assert.False(t, d.Dismiss("missing"))
	assert.Equal(t, []Notification{b}, d.Visible())
}

func TestPrune(t *testing.T) {
	d, clock := newTestDispatcher(5 * time.Second)

	d.Push("old", domain.NotifyInfo)
	clock.Advance(3 * time.Second)
	fresh := d.Push("fresh", domain.NotifyInfo)

	assert.Equal(t, 0, d.Prune(clock.Now()))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, d.Prune(clock.Now()))
	assert.Equal(t, []Notification{fresh}, d.Visible())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 1, d.Prune(clock.Now()))
	assert.Empty(t, d.Visible())
}

func TestPrune_ZeroTimeoutKeepsEverything(t *testing.T) {
	d, clock := newTestDispatcher(0)
	d.Push("sticky", domain.NotifyError)

	clock.Advance(time.Hour)
	assert.Equal(t, 0, d.Prune(clock.Now()))
	assert.Len(t, d.Visible(), 1)
}

func TestVisibleReturnsCopy(t *testing.T) {
	d, _ := newTestDispatcher(0)
	d.Push("one", domain.NotifyInfo)

	v := d.Visible()
	v[0].Message = "mutated"
	assert.Equal(t, "one", d.Visible()[0].Message)
}

func TestSubscribe(t *testing.T) {
	d, _ := newTestDispatcher(0)

	var got []Notification
	d.Subscribe(func(n Notification) {
		got = append(got, n)
		// listeners may read the queue without deadlocking
		assert.NotEmpty(t, d.Visible())
	})

	n := d.Push("Agent deleted", domain.NotifySuccess)
	assert.Equal(t, []Notification{n}, got)
}

func TestConcurrentPush(t *testing.T) {
	d, _ := newTestDispatcher(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Push("msg", domain.NotifyInfo)
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, n := range d.Visible() {
		seen[n.ID] = true
	}
	assert.Len(t, seen, 50)
}
