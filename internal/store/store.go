package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"dealradar-engine/internal/domain"
	"dealradar-engine/internal/geo"
	"dealradar-engine/internal/rank"
)

// Store holds every ad seen inside the retention window, in discovery order.
// Batch mutations (Evict, RescoreAll) rebuild the slice and swap it under the
// lock, so Query always hands out a temporally coherent set.
type Store struct {
	mu  sync.RWMutex
	ads []domain.Ad
	ids map[int64]struct{}

	path   string
	refLat float64
	refLng float64
	log    *zap.Logger
}

func New(path string, refLat, refLng float64, log *zap.Logger) *Store {
	return &Store{
		ids:    make(map[int64]struct{}),
		path:   path,
		refLat: refLat,
		refLng: refLng,
		log:    log,
	}
}

// Filter narrows a Query. MaxDistanceKm of geo.UnknownDistance means no
// distance limit; a nil MaxPrice means no price limit, a zero one means
// free-only.
type Filter struct {
	MaxDistanceKm int
	MaxPrice      *float64
}

// Ingest adds an ad the store has not seen yet and reports whether it was new.
// DiscoveredAt is stamped here, once; the image URL is forced onto HTTPS and
// the distance from the reference point is fixed at ingestion time.
func (s *Store) Ingest(ad domain.Ad, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.ids[ad.ID]; seen {
		return false
	}

	ad.DiscoveredAt = now
	ad.Image = secureImageURL(ad.Image)
	ad.DistanceKm = geo.UnknownDistance
	if ad.Location != nil {
		ad.DistanceKm = geo.DistanceKm(s.refLat, s.refLng, ad.Location.Lat, ad.Location.Lng)
	}

	s.ads = append(s.ads, ad)
	s.ids[ad.ID] = struct{}{}
	return true
}

// Evict drops every ad whose age at now is ttl or more and returns how many
// went. Entries restored from old snapshots without a discovery time count as
// discovered now.
func (s *Store) Evict(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.Ad, 0, len(s.ads))
	ids := make(map[int64]struct{}, len(s.ads))
	for _, ad := range s.ads {
		if ad.DiscoveredAt.IsZero() {
			ad.DiscoveredAt = now
		}
		if now.Sub(ad.DiscoveredAt) >= ttl {
			continue
		}
		kept = append(kept, ad)
		ids[ad.ID] = struct{}{}
	}

	removed := len(s.ads) - len(kept)
	s.ads = kept
	s.ids = ids
	return removed
}

// Query filters and returns ads sorted by score descending. The sort is
// stable, so equal scores keep discovery order.
func (s *Store) Query(f Filter) []domain.Ad {
	s.mu.RLock()
	out := make([]domain.Ad, 0, len(s.ads))
	for _, ad := range s.ads {
		if f.MaxDistanceKm != geo.UnknownDistance && ad.DistanceKm > f.MaxDistanceKm {
			continue
		}
		if f.MaxPrice != nil {
			if *f.MaxPrice == 0 {
				if ad.Price != 0 {
					continue
				}
			} else if ad.Price > *f.MaxPrice {
				continue
			}
		}
		out = append(out, ad)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AIScore > out[j].AIScore
	})
	return out
}

// ApplyVote records the curator's vote on the matching ad. Voting on an id
// the store no longer holds (evicted meanwhile) is a silent no-op.
func (s *Store) ApplyVote(id int64, vote domain.Vote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.ads {
		if s.ads[i].ID == id {
			s.ads[i].UserVote = vote
			return true
		}
	}
	return false
}

// RescoreAll recomputes every score against the current model and swaps the
// rebuilt set in as a whole, so no reader sees a half-rescored store.
func (s *Store) RescoreAll(scorer rank.Scorer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rescored := make([]domain.Ad, len(s.ads))
	copy(rescored, s.ads)
	for i := range rescored {
		rescored[i].AIScore = scorer.Score(rescored[i].Title)
	}
	s.ads = rescored
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ads)
}

func secureImageURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
