package http

import (
	"net/http"

	"PartnerHub-Backend/internal/analytics"
	"PartnerHub-Backend/internal/domain"

	"go.uber.org/zap"
)

// allowed leaderboard windows, in days
var leaderboardWindows = map[int]bool{1: true, 7: true, 30: true, 365: true}

// DashboardHandler serves the admin analytics endpoints.
type DashboardHandler struct {
	stats *analytics.Stats
	log   *zap.Logger
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(stats *analytics.Stats, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		stats: stats,
		log:   log,
	}
}

// TopClicksResponse is the leaderboard response body.
type TopClicksResponse struct {
	Kind       string                  `json:"kind"`
	WindowDays int                     `json:"window_days"`
	Items      []analytics.ClickLeader `json:"items"`
}

// DailySeriesResponse is the time-series response body.
type DailySeriesResponse struct {
	Kind       string                  `json:"kind"`
	WindowDays int                     `json:"window_days"`
	Points     []analytics.SeriesPoint `json:"points"`
}

// TopClicks handles GET /api/admin/stats/top?kind=partner&days=7&limit=5.
func (h *DashboardHandler) TopClicks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind, ok := parseKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, "kind must be 'partner' or 'product'", http.StatusBadRequest)
		return
	}

	days := queryInt(r, "days", "7")
	if !leaderboardWindows[days] {
		writeError(w, "days must be one of 1, 7, 30, 365", http.StatusBadRequest)
		return
	}

	limit := queryInt(r, "limit", "5")
	if limit < 1 || limit > 20 {
		writeError(w, "limit must be between 1 and 20", http.StatusBadRequest)
		return
	}

	items, err := h.stats.TopClicks(r.Context(), kind, days, limit)
	if err != nil {
		h.log.Error("failed to build click leaderboard",
			zap.String("kind", string(kind)), zap.Int("days", days), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, TopClicksResponse{
		Kind:       string(kind),
		WindowDays: days,
		Items:      items,
	})
}

// DailySeries handles GET /api/admin/stats/series?kind=partner&days=30.
func (h *DashboardHandler) DailySeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind, ok := parseKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, "kind must be 'partner' or 'product'", http.StatusBadRequest)
		return
	}

	days := queryInt(r, "days", "30")
	if days < 1 || days > 365 {
		writeError(w, "days must be between 1 and 365", http.StatusBadRequest)
		return
	}

	points, err := h.stats.DailySeries(r.Context(), kind, days)
	if err != nil {
		h.log.Error("failed to build daily click series",
			zap.String("kind", string(kind)), zap.Int("days", days), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, DailySeriesResponse{
		Kind:       string(kind),
		WindowDays: days,
		Points:     points,
	})
}

// parseKind maps the query value onto an entity kind; empty defaults to
// partner.
func parseKind(raw string) (domain.EntityKind, bool) {
	if raw == "" {
		return domain.KindPartner, true
	}
	kind := domain.EntityKind(raw)
	return kind, kind.Valid()
}
