package datasync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vps-compare/internal/domain"
)

// fakeAPI serves a canned listing. The provider filter value "slow"
// delays the response so in-flight ordering can be exercised.
type fakeAPI struct {
	failing   atomic.Bool
	slowDelay time.Duration
}

func (f *fakeAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if f.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   "source offline",
			})
			return
		}

		provider := r.URL.Query().Get("provider")
		if provider == "slow" {
			time.Sleep(f.slowDelay)
		}

		plans := []domain.Plan{{ID: "plan-" + provider, Provider: provider, Price: 5}}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": domain.QueryResult{
				Plans:      plans,
				Total:      1,
				Page:       1,
				PageSize:   25,
				TotalPages: 1,
			},
			"lastUpdated": time.Now().Format(time.RFC3339),
		})
	}
}

func waitForSnapshot(t *testing.T, w *Watcher, accept func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-w.Updates():
			if accept(snap) {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot, last: %+v", w.Snapshot())
		}
	}
}

func TestWatcherInitialFetch(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	w := NewWatcher(NewClient(srv.URL, time.Second), domain.DefaultQuery(), domain.MockSource, 0)
	defer w.Close()

	snap := waitForSnapshot(t, w, func(s Snapshot) bool { return len(s.Plans) > 0 })
	if snap.Total != 1 {
		t.Errorf("expected total 1, got %d", snap.Total)
	}
	if snap.Err != nil {
		t.Errorf("unexpected error: %v", snap.Err)
	}
}

func TestWatcherLastRequestWins(t *testing.T) {
	api := &fakeAPI{slowDelay: 300 * time.Millisecond}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	w := NewWatcher(NewClient(srv.URL, time.Second), domain.DefaultQuery(), domain.MockSource, 0)
	defer w.Close()

	waitForSnapshot(t, w, func(s Snapshot) bool { return len(s.Plans) > 0 })

	// A slow fetch followed immediately by a fast one: the fast result
	// must stick even though the slow request started first.
	w.SetProvider("slow")
	w.SetProvider("fast")

	waitForSnapshot(t, w, func(s Snapshot) bool {
		return len(s.Plans) > 0 && s.Plans[0].ID == "plan-fast"
	})

	// Give the slow response time to land, then confirm it did not win
	time.Sleep(400 * time.Millisecond)
	snap := w.Snapshot()
	if snap.Plans[0].ID != "plan-fast" {
		t.Errorf("superseded fetch overwrote the newer one: %+v", snap.Plans)
	}
}

func TestWatcherKeepsStaleDataOnError(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	w := NewWatcher(NewClient(srv.URL, time.Second), domain.DefaultQuery(), domain.MockSource, 0)
	defer w.Close()

	waitForSnapshot(t, w, func(s Snapshot) bool { return len(s.Plans) > 0 })

	api.failing.Store(true)
	w.Refetch()

	snap := waitForSnapshot(t, w, func(s Snapshot) bool { return s.Err != nil })
	if len(snap.Plans) == 0 {
		t.Error("stale listing must survive a failed refetch")
	}

	// Recovery clears the error
	api.failing.Store(false)
	w.Refetch()
	snap = waitForSnapshot(t, w, func(s Snapshot) bool { return s.Err == nil })
	if len(snap.Plans) == 0 {
		t.Error("expected fresh listing after recovery")
	}
}

func TestWatcherFilterChangeResetsPage(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	w := NewWatcher(NewClient(srv.URL, time.Second), domain.DefaultQuery(), domain.MockSource, 0)
	defer w.Close()

	w.SetPage(3)
	if w.Query().Page != 3 {
		t.Fatalf("expected page 3, got %d", w.Query().Page)
	}

	w.SetProvider("hetzner")
	if w.Query().Page != 1 {
		t.Errorf("filter change must reset to page 1, got %d", w.Query().Page)
	}

	w.SetPage(2)
	w.SetSort(domain.SortByPrice, domain.Descending)
	if w.Query().Page != 2 {
		t.Errorf("sort change must keep the page, got %d", w.Query().Page)
	}

	w.SetPriceRange(1, 50)
	if w.Query().Page != 1 {
		t.Errorf("price change must reset to page 1, got %d", w.Query().Page)
	}
}

func TestWatcherPolling(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"data":        domain.QueryResult{Plans: []domain.Plan{}, Page: 1, PageSize: 25},
			"lastUpdated": time.Now().Format(time.RFC3339),
		})
	}))
	defer srv.Close()

	w := NewWatcher(NewClient(srv.URL, time.Second), domain.DefaultQuery(), domain.MockSource, 30*time.Millisecond)
	defer w.Close()

	time.Sleep(120 * time.Millisecond)
	if calls.Load() < 3 {
		t.Errorf("expected at least 3 fetches from polling, got %d", calls.Load())
	}
}

func TestWatcherCloseStopsPolling(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"data":        domain.QueryResult{Plans: []domain.Plan{}, Page: 1, PageSize: 25},
			"lastUpdated": time.Now().Format(time.RFC3339),
		})
	}))
	defer srv.Close()

	w := NewWatcher(NewClient(srv.URL, time.Second), domain.DefaultQuery(), domain.MockSource, 20*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	w.Close()

	settled := calls.Load()
	time.Sleep(80 * time.Millisecond)
	if calls.Load() > settled+1 {
		t.Errorf("polling continued after Close: %d then %d", settled, calls.Load())
	}
}

func TestClientForwardsPriceBounds(t *testing.T) {
	var params atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params.Store(r.URL.Query())
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"data":        domain.QueryResult{Plans: []domain.Plan{}, Page: 1, PageSize: 25},
			"lastUpdated": time.Now().Format(time.RFC3339),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	// the default ceiling stays implicit
	q := domain.DefaultQuery()
	if _, _, err := c.ListPlans(context.Background(), q, domain.MockSource); err != nil {
		t.Fatal(err)
	}
	if got := params.Load().(url.Values).Get("maxPrice"); got != "" {
		t.Errorf("default max price must not be sent, got %q", got)
	}

	// an explicit zero bound is a real filter and must go on the wire
	q.MaxPrice = 0
	if _, _, err := c.ListPlans(context.Background(), q, domain.MockSource); err != nil {
		t.Fatal(err)
	}
	if got := params.Load().(url.Values).Get("maxPrice"); got != "0" {
		t.Errorf("explicit maxPrice=0 must be sent, got %q", got)
	}
}
