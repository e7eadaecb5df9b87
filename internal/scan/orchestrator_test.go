package scan

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dealradar-engine/internal/config"
	"dealradar-engine/internal/events"
	"dealradar-engine/internal/geo"
	"dealradar-engine/internal/provider"
	"dealradar-engine/internal/store"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []provider.SearchParams
	results map[string][]provider.Listing // keyed by category id
	failCat string
	block   chan struct{} // when set, Search waits until closed
	started chan struct{} // when set, closed on first Search call
}

func (f *fakeSearcher) Search(ctx context.Context, p provider.SearchParams) ([]provider.Listing, error) {
	if f.started != nil {
		f.mu.Lock()
		select {
		case <-f.started:
		default:
			close(f.started)
		}
		f.mu.Unlock()
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	if p.Category == f.failCat {
		return nil, errors.New("provider down")
	}
	return f.results[p.Category], nil
}

type neutralScorer struct{}

func (neutralScorer) Score(string) int { return 50 }

func testConfig() Config {
	return Config{
		Interval:     time.Hour,
		MinInterval:  15 * time.Minute,
		Retention:    31 * 24 * time.Hour,
		ResultLimit:  35,
		PriceCeiling: 50,
		Categories: []config.Category{
			{ID: "14", Name: "electronics"},
			{ID: "15", Name: "computers"},
		},
		Strategies: []config.Strategy{
			{Name: "free"},
			{Name: "giveaway", Keywords: "don"},
		},
	}
}

func newTestOrchestrator(t *testing.T, searcher Searcher) (*Orchestrator, *store.Store) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "ads.json"), 48.85, 2.35, zap.NewNop())
	o := New(testConfig(), searcher, st, neutralScorer{}, events.NewHub(), zap.NewNop())
	return o, st
}

func TestTriggerScanIngestsAcrossPairs(t *testing.T) {
	f := &fakeSearcher{results: map[string][]provider.Listing{
		"14": {
			{ID: 1, Subject: "Free TV", Price: 0},
			{ID: 2, Subject: "Pricey amp", Price: 120}, // over the ceiling
		},
		"15": {
			{ID: 3, Subject: "Old laptop", Price: 30},
			{ID: 1, Subject: "Free TV", Price: 0}, // duplicate across pairs
		},
	}}
	o, st := newTestOrchestrator(t, f)

	res := o.TriggerScan(context.Background())
	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 2, st.Len())

	// 2 categories x 2 strategies.
	assert.Len(t, f.calls, 4)

	// Scores already reflect the classifier after the scan epilogue.
	for _, ad := range st.Query(store.Filter{MaxDistanceKm: geo.UnknownDistance}) {
		assert.Equal(t, 50, ad.AIScore)
	}
}

func TestTriggerScanSkipsFailingPair(t *testing.T) {
	f := &fakeSearcher{
		failCat: "14",
		results: map[string][]provider.Listing{
			"15": {{ID: 9, Subject: "Keyboard", Price: 5}},
		},
	}
	o, _ := newTestOrchestrator(t, f)

	res := o.TriggerScan(context.Background())
	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 1, res.Added)
	// The failing category was still attempted for every strategy.
	assert.Len(t, f.calls, 4)
}

func TestTriggerScanBusyWhileRunning(t *testing.T) {
	f := &fakeSearcher{block: make(chan struct{}), started: make(chan struct{})}
	o, _ := newTestOrchestrator(t, f)

	done := make(chan Result, 1)
	go func() { done <- o.TriggerScan(context.Background()) }()

	// Wait until the first scan is inside the pipeline, then poke it again.
	select {
	case <-f.started:
	case <-time.After(time.Second):
		t.Fatal("scan never started")
	}
	assert.Equal(t, StatusBusy, o.TriggerScan(context.Background()).Status)

	close(f.block)
	res := <-done
	assert.Equal(t, StatusOK, res.Status)
}

func TestTriggerScanCooldownAfterCompletion(t *testing.T) {
	f := &fakeSearcher{}
	o, _ := newTestOrchestrator(t, f)

	first := o.TriggerScan(context.Background())
	require.Equal(t, StatusOK, first.Status)

	second := o.TriggerScan(context.Background())
	assert.Equal(t, StatusCooldown, second.Status)
	assert.Greater(t, second.Remaining, time.Duration(0))
	assert.LessOrEqual(t, second.Remaining, 15*time.Minute)
}

func TestNextScanAdvancesWithEachScan(t *testing.T) {
	f := &fakeSearcher{}
	o, _ := newTestOrchestrator(t, f)

	before := time.Now()
	o.TriggerScan(context.Background())
	next := o.NextScan()
	assert.True(t, next.After(before.Add(59*time.Minute)))
}
