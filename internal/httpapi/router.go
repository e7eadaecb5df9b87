package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealradar-engine/internal/metrics"
)

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(AccessLog(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware())

	ah := AdsHandler{Store: d.Store, Scanner: d.Scanner}
	r.Get("/api/ads", ah.List)

	sh := ScanHandler{Scanner: d.Scanner}
	r.Post("/api/refresh", sh.Trigger)

	vh := VoteHandler{Feedback: d.Feedback, Log: d.Log}
	r.Post("/api/vote", vh.Submit)

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	r.Get("/health", Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
