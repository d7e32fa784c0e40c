package session

import "time"

// Observer receives store lifecycle events, for metrics collection.
// Methods are called outside of store locks and must be safe for concurrent use.
type Observer interface {
	// OnSessionCreated is called after a new session is inserted.
	OnSessionCreated(tenantID string)

	// OnSessionsRemoved is called after sessions are deleted or reset.
	OnSessionsRemoved(count int)

	// OnResourceCreated is called after a resource is built and cached.
	OnResourceCreated(tenantID, region string, duration time.Duration)

	// OnResourceError is called when a build function fails.
	OnResourceError(tenantID, region string, err error)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) OnSessionCreated(string) {}

func (NoopObserver) OnSessionsRemoved(int) {}

func (NoopObserver) OnResourceCreated(string, string, time.Duration) {}

func (NoopObserver) OnResourceError(string, string, error) {}
