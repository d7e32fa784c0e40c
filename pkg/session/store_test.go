package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type recordingObserver struct {
	sessions  atomic.Int64
	removed   atomic.Int64
	resources atomic.Int64
	errors    atomic.Int64
}

func (o *recordingObserver) OnSessionCreated(string) { o.sessions.Add(1) }
func (o *recordingObserver) OnSessionsRemoved(n int) { o.removed.Add(int64(n)) }
func (o *recordingObserver) OnResourceError(string, string, error) {
	o.errors.Add(1)
}
func (o *recordingObserver) OnResourceCreated(string, string, time.Duration) {
	o.resources.Add(1)
}

func TestSessionForTenant_SameSession(t *testing.T) {
	t.Parallel()
	store := NewStore()

	a := store.SessionForTenant("tenantA")
	b := store.SessionForTenant("tenantA")
	other := store.SessionForTenant("tenantB")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
	assert.Equal(t, "tenantA", a.TenantID())
	assert.NotEmpty(t, a.Token())
	assert.Equal(t, 2, store.Len())
}

func TestSessionForTenant_Concurrent(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	store := NewStore(WithObserver(obs))

	const n = 64
	got := make([]*Session, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			got[i] = store.SessionForTenant("tenantA")
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, sess := range got {
		assert.Same(t, got[0], sess)
	}
	assert.Equal(t, int64(1), obs.sessions.Load())
	assert.Equal(t, 1, store.Len())
}

func TestSessionForTenant_EmptyGeneratesTenant(t *testing.T) {
	t.Parallel()
	store := NewStore()

	a := store.SessionForTenant("")
	b := store.SessionForTenant("")

	assert.NotEmpty(t, a.TenantID())
	assert.NotEqual(t, a.TenantID(), b.TenantID())
	found, ok := store.Lookup(a.TenantID())
	require.True(t, ok)
	assert.Same(t, a, found)
}

func TestSessionForToken(t *testing.T) {
	t.Parallel()
	store := NewStore()

	a := store.SessionForToken("tok-1")
	b := store.SessionForToken("tok-1")
	assert.Same(t, a, b)
	assert.Equal(t, "tok-1", a.Token())
	assert.NotEmpty(t, a.TenantID())

	byTenant := store.SessionForTenant(a.TenantID())
	assert.Same(t, a, byTenant)

	fromTenant := store.SessionForTenant("tenantZ")
	viaToken, ok := store.LookupToken(fromTenant.Token())
	require.True(t, ok)
	assert.Same(t, fromTenant, viaToken)
}

func TestSessionForUsername(t *testing.T) {
	t.Parallel()

	t.Run("creates and reuses", func(t *testing.T) {
		t.Parallel()
		store := NewStore()
		a := store.SessionForUsername("alice", "")
		b := store.SessionForUsername("alice", "ignored")
		assert.Same(t, a, b)
		assert.Equal(t, "alice", a.Username())
	})

	t.Run("attaches to existing tenant", func(t *testing.T) {
		t.Parallel()
		store := NewStore()
		tenant := store.SessionForTenant("111111")
		user := store.SessionForUsername("bob", "111111")
		assert.Same(t, tenant, user)
		assert.Equal(t, "bob", tenant.Username())
	})

	t.Run("tenant already owned by another user", func(t *testing.T) {
		t.Parallel()
		store := NewStore()
		bob := store.SessionForUsername("bob", "222222")
		carol := store.SessionForUsername("carol", "222222")
		assert.NotSame(t, bob, carol)
		assert.Equal(t, "222222", bob.TenantID())
		assert.NotEqual(t, "222222", carol.TenantID())
	})
}

func TestStore_Timestamps(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time { return fixed }), WithTokenLifetime(time.Hour))

	sess := store.SessionForTenant("t")
	assert.Equal(t, fixed, sess.CreatedAt())
	assert.Equal(t, fixed.Add(time.Hour), sess.ExpiresAt())
}

func TestStore_DeleteAndReset(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	store := NewStore(WithObserver(obs))

	a := store.SessionForUsername("alice", "a")
	store.SessionForTenant("b")
	store.SessionForTenant("c")

	assert.True(t, store.Delete("a"))
	assert.False(t, store.Delete("a"))
	_, ok := store.LookupToken(a.Token())
	assert.False(t, ok)
	assert.NotSame(t, a, store.SessionForUsername("alice", ""))

	assert.Equal(t, 3, store.Reset())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, int64(4), obs.removed.Load())
}

func TestStore_Sessions(t *testing.T) {
	t.Parallel()
	store := NewStore()
	store.SessionForTenant("b").CollectionForRegion("ORD")
	rc := store.SessionForTenant("a").CollectionForRegion("DFW")
	_, err := rc.ResourceFor("mock", func() (any, error) { return 1, nil })
	require.NoError(t, err)

	infos := store.Sessions()
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].TenantID)
	assert.Equal(t, map[string]int{"DFW": 1}, infos[0].Resources)
	assert.Equal(t, map[string]int{"ORD": 0}, infos[1].Resources)
}

func TestStore_IsolatedStores(t *testing.T) {
	t.Parallel()
	one, two := NewStore(), NewStore()
	assert.NotSame(t, one.SessionForTenant("t"), two.SessionForTenant("t"))
}

var errBoom = errors.New("boom")
