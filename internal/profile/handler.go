package profile

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

// Handler wires the profile endpoints behind the access guard. Every
// route runs after the auth middleware, so a subject is always present.
type Handler struct {
	service *Service
	guard   *authz.Guard
	logger  *slog.Logger
}

func NewHandler(service *Service, guard *authz.Guard, logger *slog.Logger) *Handler {
	return &Handler{service: service, guard: guard, logger: logger}
}

// Register mounts the profile endpoints.
func (h *Handler) Register(r chi.Router) {
	idParam := authz.ResourceFromURLParam("id")

	r.Get("/profile", h.guard.Protect(authz.ActionViewOwnProfile, nil, h.handleOwnProfile))
	r.Put("/profile", h.guard.Protect(authz.ActionUpdateProfile, nil, h.handleUpdate))
	r.Delete("/profile", h.guard.Protect(authz.ActionDeleteProfile, nil, h.handleDelete))

	r.Get("/users/{id}", h.guard.Protect(authz.ActionViewProfile, idParam, h.handleProfile))
	r.Get("/users/{id}/name", h.guard.Protect(authz.ActionViewUserName, idParam, h.handleUserName))
	r.Get("/patients/{id}/medical-history", h.guard.Protect(authz.ActionViewMedicalHistory, idParam, h.handleMedicalHistory))
	r.Get("/caregivers/{id}", h.guard.Protect(authz.ActionViewCareGiver, idParam, h.handleCareGiver))
}

func (h *Handler) handleOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	resp, err := h.service.OwnProfile(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	req, ok := httputil.DecodeJSON[UpdateRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	if err := h.service.Delete(r.Context(), userID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.Profile(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUserName(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.UserName(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMedicalHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.MedicalHistory(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCareGiver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.CareGiver(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id must be numeric"))
		return 0, false
	}
	return id, true
}
