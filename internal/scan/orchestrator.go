package scan

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"dealradar-engine/internal/config"
	"dealradar-engine/internal/domain"
	"dealradar-engine/internal/events"
	"dealradar-engine/internal/metrics"
	"dealradar-engine/internal/provider"
	"dealradar-engine/internal/rank"
	"dealradar-engine/internal/store"
)

// Searcher is the slice of the provider client the scanner needs.
type Searcher interface {
	Search(ctx context.Context, p provider.SearchParams) ([]provider.Listing, error)
}

type Status string

const (
	StatusOK       Status = "ok"
	StatusBusy     Status = "busy"
	StatusCooldown Status = "cooldown"
)

// Result is what a trigger attempt produced. Busy and cooldown are normal
// outcomes, not errors: the caller is expected to retry later.
type Result struct {
	Status    Status
	Added     int
	Remaining time.Duration // cooldown wait left; zero otherwise
}

type Config struct {
	Interval     time.Duration
	MinInterval  time.Duration
	Retention    time.Duration
	ResultLimit  int
	PriceCeiling float64
	Categories   []config.Category
	Strategies   []config.Strategy
}

// Orchestrator owns the scan state machine: at most one scan runs at a time,
// and manual triggers are spaced at least MinInterval apart.
type Orchestrator struct {
	mu       sync.Mutex
	scanning bool
	lastScan time.Time
	nextScan time.Time

	cfg      Config
	searcher Searcher
	store    *store.Store
	scorer   rank.Scorer
	hub      *events.Hub
	log      *zap.Logger
}

func New(cfg Config, searcher Searcher, st *store.Store, scorer rank.Scorer, hub *events.Hub, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		searcher: searcher,
		store:    st,
		scorer:   scorer,
		hub:      hub,
		log:      log,
		nextScan: time.Now(),
	}
}

// NextScan reports when the timer will fire next.
func (o *Orchestrator) NextScan() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nextScan
}

// TriggerScan runs one full scan unless one is already running (busy) or the
// previous one finished less than MinInterval ago (cooldown). The cooldown
// only applies once a scan has run at least once, so the boot scan always
// goes through.
func (o *Orchestrator) TriggerScan(ctx context.Context) Result {
	o.mu.Lock()
	if o.scanning {
		o.mu.Unlock()
		metrics.ScansTotal.WithLabelValues(string(StatusBusy)).Inc()
		return Result{Status: StatusBusy}
	}
	if !o.lastScan.IsZero() {
		if since := time.Since(o.lastScan); since < o.cfg.MinInterval {
			o.mu.Unlock()
			metrics.ScansTotal.WithLabelValues(string(StatusCooldown)).Inc()
			return Result{Status: StatusCooldown, Remaining: o.cfg.MinInterval - since}
		}
	}
	o.scanning = true
	o.lastScan = time.Now()
	o.nextScan = o.lastScan.Add(o.cfg.Interval)
	o.mu.Unlock()

	added := o.runPipeline(ctx)

	o.mu.Lock()
	o.scanning = false
	o.mu.Unlock()

	metrics.ScansTotal.WithLabelValues(string(StatusOK)).Inc()
	return Result{Status: StatusOK, Added: added}
}

// runPipeline walks every category x strategy pair. A failed pair is skipped,
// never aborts the cycle; it simply gets another chance on the next scan.
func (o *Orchestrator) runPipeline(ctx context.Context) int {
	start := time.Now()
	added := 0

	for _, cat := range o.cfg.Categories {
		for _, strat := range o.cfg.Strategies {
			listings, err := o.searcher.Search(ctx, provider.SearchParams{
				Category: cat.ID,
				Limit:    o.cfg.ResultLimit,
				PriceMin: strat.PriceMin,
				PriceMax: strat.PriceMax,
				Keywords: strat.Keywords,
			})
			if err != nil {
				metrics.ProviderErrorsTotal.WithLabelValues(cat.Name, strat.Name).Inc()
				o.log.Warn("provider call failed, pair skipped",
					zap.String("category", cat.Name),
					zap.String("strategy", strat.Name),
					zap.Error(err),
				)
				continue
			}

			for _, l := range listings {
				if l.Price > o.cfg.PriceCeiling {
					continue
				}
				ad := adFromListing(l)
				if o.store.Ingest(ad, time.Now()) {
					added++
					o.hub.Publish(events.AdCreated(ad.ID, ad.Title))
				}
			}
		}
	}

	evicted := o.store.Evict(time.Now(), o.cfg.Retention)
	o.store.RescoreAll(o.scorer)
	o.store.Persist()

	total := o.store.Len()
	metrics.AdsIngestedTotal.Add(float64(added))
	metrics.AdsStored.Set(float64(total))
	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	o.hub.Publish(events.ScanFinished(added, total))

	o.log.Info("scan finished",
		zap.Int("added", added),
		zap.Int("evicted", evicted),
		zap.Int("total", total),
		zap.Duration("took", time.Since(start)),
	)
	return added
}

func adFromListing(l provider.Listing) domain.Ad {
	title := l.Subject
	if title == "" {
		title = "Untitled"
	}
	ad := domain.Ad{
		ID:          l.ID,
		Title:       title,
		Price:       l.Price,
		URL:         l.URL,
		Image:       l.ImageURL(),
		PublishedAt: l.FirstPublicationDate,
	}
	if l.Location != nil {
		ad.Location = &domain.Location{City: l.Location.City, Lat: l.Location.Lat, Lng: l.Location.Lng}
	}
	return ad
}
