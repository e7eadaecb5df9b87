package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"dealradar-engine/internal/domain"
	"dealradar-engine/internal/feedback"
)

type VoteHandler struct {
	Feedback *feedback.Service
	Log      *zap.Logger
}

type voteRequest struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

func (h VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	vote, ok := domain.ParseVote(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, `type must be "pos" or "neg"`)
		return
	}

	if err := h.Feedback.Vote(req.ID, req.Title, vote); err != nil {
		if errors.Is(err, feedback.ErrEmptyTitle) {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		h.Log.Error("vote failed", zap.Int64("id", req.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "vote failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
