// Package registry tracks order list identifiers owned by callers outside the Go runtime
package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aidin1998/finalex-ids/pkg/errors"
	"github.com/Aidin1998/finalex-ids/pkg/identifiers"
	"github.com/Aidin1998/finalex-ids/pkg/logger"
	"github.com/Aidin1998/finalex-ids/pkg/metrics"
	"github.com/tidwall/btree"
	"go.uber.org/zap"
)

// Handle is an opaque reference to an identifier owned on behalf of a foreign caller.
// The zero handle is never issued.
type Handle uint64

var (
	ErrUnknownHandle = errors.NotFound.WithCode("unknown_handle").Explain("handle was never issued")
	ErrReleased      = errors.Invalid.WithCode("released_handle").Explain("handle was already released")
	ErrCapacity      = errors.Unavailable.WithCode("capacity").Explain("handle registry is full")
)

// Entry is a live identifier held by the registry
type Entry struct {
	Handle     Handle                  `json:"handle"`
	ID         identifiers.OrderListID `json:"id"`
	ExportedAt time.Time               `json:"exported_at"`
}

// EventType describes a handle lifecycle transition
type EventType int

const (
	EventExported EventType = iota + 1
	EventReleased
)

func (t EventType) String() string {
	switch t {
	case EventExported:
		return "exported"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after a lifecycle transition
type Event struct {
	Type   EventType
	Handle Handle
	ID     identifiers.OrderListID
}

// Config holds configuration for the handle registry
type Config struct {
	// MaxHandles bounds the number of live handles; 0 means unbounded
	MaxHandles int `json:"max_handles"`
}

// Registry owns identifiers that crossed into a runtime without automatic
// lifetime management. Every exported handle must be released exactly once.
type Registry struct {
	mu        sync.RWMutex
	entries   btree.Map[Handle, Entry]
	observers []func(Event)

	// last issued handle
	last atomic.Uint64

	config Config
	logger *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(config Config, log *zap.Logger) *Registry {
	return &Registry{
		config: config,
		logger: logger.OrNop(log).Named("registry"),
	}
}

// AddObserver registers fn to be called after every export and release.
// Observers run on the caller's goroutine, outside the registry lock.
func (r *Registry) AddObserver(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// Export transfers ownership of id to a foreign caller and returns its handle
func (r *Registry) Export(id identifiers.OrderListID) (Handle, error) {
	r.mu.Lock()
	if r.config.MaxHandles > 0 && r.entries.Len() >= r.config.MaxHandles {
		r.mu.Unlock()
		metrics.HandleErrors.WithLabelValues("capacity").Inc()
		r.logger.Warn("Handle registry full", zap.Int("max_handles", r.config.MaxHandles))
		return 0, ErrCapacity
	}
	h := Handle(r.last.Add(1))
	r.entries.Set(h, Entry{Handle: h, ID: id, ExportedAt: time.Now()})
	observers := r.observers
	r.mu.Unlock()

	metrics.HandlesExported.Inc()
	metrics.HandlesLive.Inc()
	r.logger.Debug("Exported order list id", zap.Uint64("handle", uint64(h)), zap.Stringer("order_list_id", id))

	notify(observers, Event{Type: EventExported, Handle: h, ID: id})
	return h, nil
}

// Get borrows the identifier behind h without transferring ownership
func (r *Registry) Get(h Handle) (identifiers.OrderListID, error) {
	r.mu.RLock()
	entry, ok := r.entries.Get(h)
	r.mu.RUnlock()
	if !ok {
		return identifiers.OrderListID{}, r.missing(h, "get")
	}
	return entry.ID, nil
}

// Release frees the identifier behind h. A second release of the same
// handle returns ErrReleased and has no other effect.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	entry, ok := r.entries.Delete(h)
	observers := r.observers
	r.mu.Unlock()
	if !ok {
		return r.missing(h, "release")
	}

	metrics.HandlesReleased.Inc()
	metrics.HandlesLive.Dec()
	r.logger.Debug("Released order list id", zap.Uint64("handle", uint64(h)), zap.Stringer("order_list_id", entry.ID))

	notify(observers, Event{Type: EventReleased, Handle: h, ID: entry.ID})
	return nil
}

// Len returns the number of live handles
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Len()
}

// Snapshot returns the live entries ordered by handle
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, r.entries.Len())
	r.entries.Scan(func(_ Handle, e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Drain releases every live handle and returns how many were still held.
// Anything left at shutdown was leaked by the foreign side.
func (r *Registry) Drain() int {
	r.mu.Lock()
	leaked := make([]Entry, 0, r.entries.Len())
	r.entries.Scan(func(_ Handle, e Entry) bool {
		leaked = append(leaked, e)
		return true
	})
	r.entries = btree.Map[Handle, Entry]{}
	observers := r.observers
	r.mu.Unlock()

	if len(leaked) == 0 {
		return 0
	}

	metrics.HandlesReleased.Add(float64(len(leaked)))
	metrics.HandlesLive.Sub(float64(len(leaked)))
	r.logger.Warn("Drained unreleased order list id handles", zap.Int("count", len(leaked)))

	for _, e := range leaked {
		notify(observers, Event{Type: EventReleased, Handle: e.Handle, ID: e.ID})
	}
	return len(leaked)
}

func (r *Registry) missing(h Handle, op string) error {
	err := ErrUnknownHandle
	if h != 0 && uint64(h) <= r.last.Load() {
		err = ErrReleased
	}
	metrics.HandleErrors.WithLabelValues(err.Code).Inc()
	r.logger.Warn("Rejected handle",
		zap.String("op", op),
		zap.Uint64("handle", uint64(h)),
		zap.String("reason", err.Code))
	return err
}

func notify(observers []func(Event), ev Event) {
	for _, fn := range observers {
		fn(ev)
	}
}
