package session

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// Session is the root of all cached state of one tenant.
type Session struct {
	store     *Store
	tenantID  string
	token     string
	createdAt time.Time
	expiresAt time.Time

	mu       sync.Mutex
	username string
	regions  map[string]*RegionCollection
}

// Info is a point-in-time description of a session.
type Info struct {
	TenantID  string         `json:"tenantId"`
	Username  string         `json:"username,omitempty"`
	Token     string         `json:"token"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Resources map[string]int `json:"resources"` // region -> cached resource count
}

// TenantID returns the tenant this session belongs to.
func (s *Session) TenantID() string { return s.tenantID }

// Token returns the identity token of the session.
func (s *Session) Token() string { return s.token }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// ExpiresAt returns when the session token is advertised to expire.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Username returns the user bound to the session, if any.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Session) setUsername(username string) {
	s.mu.Lock()
	s.username = username
	s.mu.Unlock()
}

// CollectionForRegion returns the region collection of region, creating it on
// first use.
func (s *Session) CollectionForRegion(region string) *RegionCollection {
	s.mu.Lock()
	defer s.mu.Unlock()

	rc, ok := s.regions[region]
	if !ok {
		rc = &RegionCollection{
			session: s,
			region:  region,
			slots:   make(map[any]*slot),
		}
		s.regions[region] = rc
	}
	return rc
}

// Regions returns the names of regions referenced so far, sorted.
func (s *Session) Regions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.regions))
	for name := range s.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	info := Info{
		TenantID:  s.tenantID,
		Username:  s.username,
		Token:     s.token,
		CreatedAt: s.createdAt,
		ExpiresAt: s.expiresAt,
		Resources: make(map[string]int, len(s.regions)),
	}
	collections := make([]*RegionCollection, 0, len(s.regions))
	for _, rc := range s.regions {
		collections = append(collections, rc)
	}
	s.mu.Unlock()

	for _, rc := range collections {
		info.Resources[rc.region] = rc.Len()
	}
	return info
}

// RegionCollection holds the resources of one tenant in one region, keyed by
// the API mock that owns them.
type RegionCollection struct {
	session *Session
	region  string

	mu    sync.Mutex
	slots map[any]*slot
	built int
}

// slot is the construction unit of one key. Its mutex is held while the
// resource is built so concurrent callers wait instead of building twice.
type slot struct {
	mu    sync.Mutex
	built bool
	value any
}

// Region returns the region name of the collection.
func (rc *RegionCollection) Region() string { return rc.region }

// TenantID returns the tenant owning the collection.
func (rc *RegionCollection) TenantID() string { return rc.session.tenantID }

// ResourceFor returns the resource cached under key, calling build to create
// it on first use. build runs at most once successfully per key; its error is
// returned as is and nothing is cached, so a later call builds again.
//
// key identifies the API mock and must be comparable. Mocks usually pass
// themselves.
func (rc *RegionCollection) ResourceFor(key any, build func() (any, error)) (any, error) {
	if key == nil {
		return nil, ErrNilKey
	}
	if !reflect.TypeOf(key).Comparable() {
		return nil, ErrKeyNotComparable
	}
	if build == nil {
		return nil, ErrNilBuilder
	}

	rc.mu.Lock()
	sl, ok := rc.slots[key]
	if !ok {
		sl = &slot{}
		rc.slots[key] = sl
	}
	rc.mu.Unlock()

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.built {
		return sl.value, nil
	}

	store := rc.session.store
	start := time.Now()
	value, err := build()
	if err != nil {
		store.log.Warn("resource construction failed",
			"tenant", rc.session.tenantID, "region", rc.region, "error", err)
		store.observer.OnResourceError(rc.session.tenantID, rc.region, err)
		return nil, err
	}

	sl.value = value
	sl.built = true

	rc.mu.Lock()
	rc.built++
	rc.mu.Unlock()

	store.log.Debug("resource created", "tenant", rc.session.tenantID, "region", rc.region)
	store.observer.OnResourceCreated(rc.session.tenantID, rc.region, time.Since(start))
	return value, nil
}

// Len returns the number of resources built in the collection.
func (rc *RegionCollection) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.built
}

// Resource is the typed form of RegionCollection.ResourceFor.
func Resource[T any](rc *RegionCollection, key any, build func() (T, error)) (T, error) {
	var zero T
	if build == nil {
		return zero, ErrNilBuilder
	}
	value, err := rc.ResourceFor(key, func() (any, error) {
		v, err := build()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrResourceType, value)
	}
	return typed, nil
}
