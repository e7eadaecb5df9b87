package httpapi

import (
	"net/http"
	"strconv"

	"dealradar-engine/internal/domain"
	"dealradar-engine/internal/geo"
	"dealradar-engine/internal/scan"
	"dealradar-engine/internal/store"
)

type AdsHandler struct {
	Store   *store.Store
	Scanner *scan.Orchestrator
}

type adsResponse struct {
	Ads []domain.Ad `json:"ads"`
	// NextScan is the next timer-driven scan, unix milliseconds.
	NextScan int64 `json:"nextScan"`
}

// List returns the scored ads, best first, optionally narrowed by the
// dist (km) and price query parameters. price=0 means free-only.
func (h AdsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := store.Filter{MaxDistanceKm: geo.UnknownDistance}
	if v := q.Get("dist"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			f.MaxDistanceKm = d
		}
	}
	if v := q.Get("price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}

	ads := h.Store.Query(f)
	if ads == nil {
		ads = []domain.Ad{}
	}
	writeJSON(w, http.StatusOK, adsResponse{
		Ads:      ads,
		NextScan: h.Scanner.NextScan().UnixMilli(),
	})
}
