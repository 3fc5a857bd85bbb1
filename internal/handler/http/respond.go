// Package http wires the public redirect endpoints, the admin API and
// health checks onto a plain net/http mux.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// pathID extracts the numeric id from a path like /api/admin/partners/42.
func pathID(path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.Trim(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeServiceError maps catalog write failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, action string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrCategoryNotFound):
		writeError(w, "Category not found", http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrSlugExists):
		writeError(w, "An entry with this name already exists", http.StatusConflict)
	case errors.Is(err, repository.ErrNameExists):
		writeError(w, "An entry with this name already exists", http.StatusConflict)
	default:
		log.Error("catalog operation failed", zap.String("action", action), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key, fallback string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		raw = fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
