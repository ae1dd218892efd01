package rating

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pandacare/internal/authz"
	"pandacare/internal/platform/httputil"
	"pandacare/internal/platform/middleware"
	dErrors "pandacare/pkg/domain-errors"
)

// Handler exposes rating reads behind the access guard. The routes
// mount inside the authenticated subtree, so a subject is always
// present.
type Handler struct {
	service *Service
	guard   *authz.Guard
	logger  *slog.Logger
}

func NewHandler(service *Service, guard *authz.Guard, logger *slog.Logger) *Handler {
	return &Handler{service: service, guard: guard, logger: logger}
}

// Register mounts the rating endpoints.
func (h *Handler) Register(r chi.Router) {
	idParam := authz.ResourceFromURLParam("id")

	r.Get("/ratings/doctor/{id}", h.guard.Protect(authz.ActionViewCareGiver, idParam, h.handleDoctorRatings))
	r.Get("/ratings/doctor/{id}/summary", h.guard.Protect(authz.ActionViewCareGiver, idParam, h.handleDoctorSummary))
	r.Get("/ratings/my-summary", h.guard.Protect(authz.ActionViewOwnProfile, nil, h.handleMySummary))
	r.Get("/ratings/health", h.handleHealth)
}

func (h *Handler) handleDoctorRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.doctorID(w, r)
	if !ok {
		return
	}
	ratings, err := h.service.Ratings(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ratings)
}

func (h *Handler) handleDoctorSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.doctorID(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleMySummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	summary, err := h.service.MySummary(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.service.Healthy(r.Context()) {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (h *Handler) doctorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id must be numeric"))
		return 0, false
	}
	return id, true
}
