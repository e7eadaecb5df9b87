package httpapi

import (
	"fmt"
	"math"
	"net/http"

	"dealradar-engine/internal/scan"
)

type ScanHandler struct {
	Scanner *scan.Orchestrator
}

// Trigger runs a scan on demand. Busy and cooldown come back as statuses the
// frontend can show, not as HTTP errors.
func (h ScanHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	res := h.Scanner.TriggerScan(r.Context())
	switch res.Status {
	case scan.StatusBusy:
		writeJSON(w, http.StatusOK, map[string]any{"status": "busy"})
	case scan.StatusCooldown:
		mins := int(math.Ceil(res.Remaining.Minutes()))
		if mins < 1 {
			mins = 1
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           "cooldown",
			"remainingMinutes": mins,
			"message":          fmt.Sprintf("wait %d min before the next scan", mins),
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "count": res.Added})
	}
}
