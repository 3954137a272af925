package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"callpulse/internal/cache"
	"callpulse/internal/repository"
)

// ScoreHandler serves the read-mostly score surface for dashboards.
type ScoreHandler struct {
	scores     repository.ScoreRepo
	scoreCache cache.ScoreCache
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(scores repository.ScoreRepo, scoreCache cache.ScoreCache) *ScoreHandler {
	return &ScoreHandler{
		scores:     scores,
		scoreCache: scoreCache,
	}
}

// GetByCall handles GET /v1/calls/{callId}/score
func (h *ScoreHandler) GetByCall(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["callId"]
	if callID == "" {
		writeError(w, http.StatusBadRequest, "callId is required")
		return
	}

	if h.scoreCache != nil {
		if summary, err := h.scoreCache.GetLatest(r.Context(), callID); err == nil && summary != nil {
			writeJSON(w, http.StatusOK, summary)
			return
		}
	}

	record, err := h.scores.FindByExternalID(r.Context(), callID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "no score for call")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Recent handles GET /v1/scores/recent?limit=N
func (h *ScoreHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.scores.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"scores": records})
}

// Bands handles GET /v1/scores/bands, returning today's per-band counters.
func (h *ScoreHandler) Bands(w http.ResponseWriter, r *http.Request) {
	counts, err := h.scoreCache.GetBandCounts(r.Context(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bands": counts})
}
