package datasync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vps-compare/internal/domain"
)

// DefaultPollInterval is how often the watcher refetches unprompted
const DefaultPollInterval = 30 * time.Second

// Snapshot is the watcher's current view of the listing. On a failed
// refetch the previous data is kept and Err is set, so a consumer always
// has something to render.
type Snapshot struct {
	Plans       []domain.Plan
	Total       int
	Page        int
	TotalPages  int
	Loading     bool
	Err         error
	LastUpdated time.Time
}

// Watcher mirrors one query's listing from the API. View changes through
// the setters trigger an immediate refetch; a background poll keeps the
// data fresh in between. Every mutation supersedes any fetch still in
// flight, so a slow response can never overwrite a newer one.
type Watcher struct {
	client *Client

	mu     sync.Mutex
	query  domain.Query
	source domain.DataSource
	snap   Snapshot
	seq    uint64
	cancel context.CancelFunc

	baseCtx   context.Context
	baseStop  context.CancelFunc
	updates   chan Snapshot
	closeOnce sync.Once
}

// NewWatcher starts a watcher with the given initial query. A non-positive
// pollInterval disables background polling.
func NewWatcher(client *Client, initial domain.Query, src domain.DataSource, pollInterval time.Duration) *Watcher {
	ctx, stop := context.WithCancel(context.Background())
	w := &Watcher{
		client:   client,
		query:    initial.Normalized(),
		source:   src,
		baseCtx:  ctx,
		baseStop: stop,
		updates:  make(chan Snapshot, 1),
	}

	w.Refetch()
	if pollInterval > 0 {
		go w.pollLoop(pollInterval)
	}
	return w
}

func (w *Watcher) pollLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Refetch()
		case <-w.baseCtx.Done():
			return
		}
	}
}

// Snapshot returns the current view
func (w *Watcher) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := w.snap
	snap.Plans = make([]domain.Plan, len(w.snap.Plans))
	copy(snap.Plans, w.snap.Plans)
	return snap
}

// Updates delivers a snapshot after each completed refetch. The channel
// holds only the latest snapshot; slow consumers miss intermediate ones,
// never get stale ones.
func (w *Watcher) Updates() <-chan Snapshot {
	return w.updates
}

// Query returns the current query
func (w *Watcher) Query() domain.Query {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.query
}

// SetPage moves to the given page
func (w *Watcher) SetPage(page int) {
	w.mutate(func(q *domain.Query) { q.Page = page }, false)
}

// SetPageSize changes the page size and resets to the first page
func (w *Watcher) SetPageSize(size int) {
	w.mutate(func(q *domain.Query) { q.PageSize = size }, true)
}

// SetSort changes the ordering
func (w *Watcher) SetSort(key domain.SortKey, order domain.SortOrder) {
	w.mutate(func(q *domain.Query) {
		q.SortBy = key
		q.SortOrder = order
	}, false)
}

// SetProvider changes the provider filter and resets to the first page
func (w *Watcher) SetProvider(provider string) {
	w.mutate(func(q *domain.Query) { q.Provider = provider }, true)
}

// SetType changes the plan type filter and resets to the first page
func (w *Watcher) SetType(planType string) {
	w.mutate(func(q *domain.Query) { q.Type = planType }, true)
}

// SetPriceRange changes the price bounds and resets to the first page
func (w *Watcher) SetPriceRange(minPrice, maxPrice float64) {
	w.mutate(func(q *domain.Query) {
		q.MinPrice = minPrice
		q.MaxPrice = maxPrice
	}, true)
}

// SetSource switches the data source and resets to the first page
func (w *Watcher) SetSource(src domain.DataSource) {
	w.mu.Lock()
	w.source = src
	w.query.Page = 1
	q := w.query
	w.mu.Unlock()
	w.fetch(q)
}

func (w *Watcher) mutate(f func(*domain.Query), resetPage bool) {
	w.mu.Lock()
	f(&w.query)
	if resetPage {
		w.query.Page = 1
	}
	w.query = w.query.Normalized()
	q := w.query
	w.mu.Unlock()

	w.fetch(q)
}

// Refetch reruns the current query immediately
func (w *Watcher) Refetch() {
	w.mu.Lock()
	q := w.query
	w.mu.Unlock()
	w.fetch(q)
}

// fetch starts an asynchronous fetch that supersedes any fetch in flight
func (w *Watcher) fetch(q domain.Query) {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(w.baseCtx)
	w.cancel = cancel
	src := w.source
	w.snap.Loading = true
	w.mu.Unlock()

	go func() {
		result, updated, err := w.client.ListPlans(ctx, q, src)

		w.mu.Lock()
		defer w.mu.Unlock()

		// A newer fetch started while this one was in flight; its result,
		// whenever it lands, is the one that counts.
		if seq != w.seq {
			return
		}

		w.snap.Loading = false
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			// keep the stale listing, surface the error
			w.snap.Err = err
			w.publish()
			return
		}

		w.snap = Snapshot{
			Plans:       result.Plans,
			Total:       result.Total,
			Page:        result.Page,
			TotalPages:  result.TotalPages,
			LastUpdated: updated,
		}
		w.publish()
	}()
}

// publish pushes the latest snapshot, displacing an unconsumed older one.
// Callers must hold w.mu.
func (w *Watcher) publish() {
	snap := w.snap
	for {
		select {
		case w.updates <- snap:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}

// Close stops polling and cancels any fetch in flight
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		w.baseStop()
	})
}
