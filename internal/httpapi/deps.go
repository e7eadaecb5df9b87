package httpapi

import (
	"go.uber.org/zap"

	"dealradar-engine/internal/events"
	"dealradar-engine/internal/feedback"
	"dealradar-engine/internal/scan"
	"dealradar-engine/internal/store"
)

// Deps bundles everything the routes need, so main stays the only place
// that knows how the services are built.
type Deps struct {
	Store    *store.Store
	Scanner  *scan.Orchestrator
	Feedback *feedback.Service
	Hub      *events.Hub
	Log      *zap.Logger
}
