/*
handlers.go - HTTP API handlers for passenger lookups

PURPOSE:
  Exposes the tracker's lookup operations over REST. The API is read-only:
  records are produced by ingesting a flight log before the server starts.

ENDPOINTS:
  GET /api/tiers              The tier ladder
  GET /api/passengers         All passenger records, sorted by id
  GET /api/passengers/{id}    One passenger record (404 if unknown)
  GET /api/summary            Aggregate year summary
  GET /healthz                Liveness

ERROR HANDLING:
  Errors are returned as JSON:
  - 404: Passenger not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/warp/cancellation-rewards/report"
	"github.com/warp/cancellation-rewards/tier"
	"github.com/warp/cancellation-rewards/tracker"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Directory is the read side of the tracker.
type Directory interface {
	Lookup(id string) (tracker.Record, bool)
	Records() []tracker.Record
	YearEnded() bool
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Directory Directory
	Logger    *zap.Logger
}

// NewHandler creates a handler over dir. A nil logger is replaced by a no-op.
func NewHandler(dir Directory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Directory: dir, Logger: logger}
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListTiers handles GET /api/tiers.
func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	all := tier.All()
	out := make([]TierDTO, 0, len(all))
	for _, v := range all {
		out = append(out, toTierDTO(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListPassengers handles GET /api/passengers.
func (h *Handler) ListPassengers(w http.ResponseWriter, r *http.Request) {
	recs := h.Directory.Records()
	if recs == nil {
		recs = []tracker.Record{}
	}
	writeJSON(w, http.StatusOK, PassengerListResponse{
		Passengers: recs,
		Count:      len(recs),
		YearEnded:  h.Directory.YearEnded(),
	})
}

// GetPassenger handles GET /api/passengers/{id}.
func (h *Handler) GetPassenger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, ok := h.Directory.Lookup(id)
	if !ok {
		h.Logger.Debug("passenger not found",
			zap.String("passenger_id", id),
			zap.String("request_id", middleware.GetReqID(r.Context())))
		writeError(w, http.StatusNotFound, "Passenger not found.", nil)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetSummary handles GET /api/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.Summarize(h.Directory.Records()))
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
