package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dahyun0301/carbon-report-server/internal/auth"
	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
	matchapp "github.com/dahyun0301/carbon-report-server/internal/matching/application"
)

// MatchHandler serves allowance matching under /api/v1/matching.
type MatchHandler struct {
	service *matchapp.MatchService
}

// NewMatchHandler constructs a handler.
func NewMatchHandler(service *matchapp.MatchService) (*MatchHandler, error) {
	if service == nil {
		return nil, errors.New("match handler: nil service")
	}
	return &MatchHandler{service: service}, nil
}

// ServeHTTP handles GET /api/v1/matching.
func (h *MatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID := auth.TenantIDFromContext(r.Context())
	if tenantID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	match, err := h.service.Match(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, emissions.ErrNoReport) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(match)
}
