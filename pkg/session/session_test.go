package session

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeMock struct{ name string }

type regionState struct {
	count int
}

func TestCollectionForRegion(t *testing.T) {
	t.Parallel()
	sess := NewStore().SessionForTenant("tenantA")

	ord := sess.CollectionForRegion("ORD")
	assert.Same(t, ord, sess.CollectionForRegion("ORD"))
	assert.NotSame(t, ord, sess.CollectionForRegion("DFW"))
	assert.Equal(t, []string{"DFW", "ORD"}, sess.Regions())
	assert.Equal(t, "ORD", ord.Region())
	assert.Equal(t, "tenantA", ord.TenantID())
}

func TestResource_SameInstancePerTriple(t *testing.T) {
	t.Parallel()
	store := NewStore()
	g := &fakeMock{name: "G"}
	build := func() (*regionState, error) { return &regionState{}, nil }

	ordA, err := Resource(store.SessionForTenant("tenantA").CollectionForRegion("ORD"), g, build)
	require.NoError(t, err)
	ordA.count = 1

	again, err := Resource(store.SessionForTenant("tenantA").CollectionForRegion("ORD"), g, build)
	require.NoError(t, err)
	assert.Same(t, ordA, again)
	assert.Equal(t, 1, again.count)

	dfwA, err := Resource(store.SessionForTenant("tenantA").CollectionForRegion("DFW"), g, build)
	require.NoError(t, err)
	assert.NotSame(t, ordA, dfwA)
	assert.Equal(t, 0, dfwA.count)

	ordB, err := Resource(store.SessionForTenant("tenantB").CollectionForRegion("ORD"), g, build)
	require.NoError(t, err)
	assert.Equal(t, 0, ordB.count)

	other, err := Resource(store.SessionForTenant("tenantA").CollectionForRegion("ORD"), &fakeMock{name: "H"}, build)
	require.NoError(t, err)
	assert.NotSame(t, ordA, other)
}

func TestResourceFor_AtMostOneConstruction(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	store := NewStore(WithObserver(obs))
	g := &fakeMock{name: "G"}

	var builds atomic.Int64
	build := func() (any, error) {
		builds.Add(1)
		return &regionState{}, nil
	}

	const n = 100
	got := make([]any, n)
	var eg errgroup.Group
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			rc := store.SessionForTenant("tenantA").CollectionForRegion("ORD")
			v, err := rc.ResourceFor(g, build)
			got[i] = v
			return err
		})
	}
	require.NoError(t, eg.Wait())

	assert.Equal(t, int64(1), builds.Load())
	assert.Equal(t, int64(1), obs.resources.Load())
	for _, v := range got {
		assert.Same(t, got[0].(*regionState), v.(*regionState))
	}
}

func TestResourceFor_FailedBuildNotCached(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	store := NewStore(WithObserver(obs))
	rc := store.SessionForTenant("t").CollectionForRegion("ORD")

	_, err := rc.ResourceFor("mock", func() (any, error) { return nil, errBoom })
	require.ErrorIs(t, err, errBoom)
	assert.Same(t, errBoom, err)
	assert.Equal(t, 0, rc.Len())

	v, err := rc.ResourceFor("mock", func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, rc.Len())
	assert.Equal(t, int64(1), obs.errors.Load())
}

func TestResourceFor_PanicLeavesSlotUsable(t *testing.T) {
	t.Parallel()
	rc := NewStore().SessionForTenant("t").CollectionForRegion("ORD")

	assert.Panics(t, func() {
		_, _ = rc.ResourceFor("mock", func() (any, error) { panic("bad mock") })
	})

	v, err := rc.ResourceFor("mock", func() (any, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResourceFor_InvalidArguments(t *testing.T) {
	t.Parallel()
	rc := NewStore().SessionForTenant("t").CollectionForRegion("ORD")
	ok := func() (any, error) { return 1, nil }

	_, err := rc.ResourceFor(nil, ok)
	assert.ErrorIs(t, err, ErrNilKey)

	_, err = rc.ResourceFor([]string{"x"}, ok)
	assert.ErrorIs(t, err, ErrKeyNotComparable)

	_, err = rc.ResourceFor("k", nil)
	assert.ErrorIs(t, err, ErrNilBuilder)

	_, err = Resource[int](rc, "k", nil)
	assert.ErrorIs(t, err, ErrNilBuilder)
}

func TestResource_TypeMismatch(t *testing.T) {
	t.Parallel()
	rc := NewStore().SessionForTenant("t").CollectionForRegion("ORD")

	_, err := Resource(rc, "k", func() (string, error) { return "s", nil })
	require.NoError(t, err)

	_, err = Resource(rc, "k", func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrResourceType)
}

func TestResourceFor_SlowBuildDoesNotBlockOtherKeys(t *testing.T) {
	t.Parallel()
	rc := NewStore().SessionForTenant("t").CollectionForRegion("ORD")

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = rc.ResourceFor("slow", func() (any, error) {
			close(started)
			<-release
			return 1, nil
		})
	}()
	<-started

	v, err := rc.ResourceFor("fast", func() (any, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	close(release)
	<-done
	assert.Equal(t, 2, rc.Len())
}
