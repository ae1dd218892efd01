package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pandacare/internal/platform/httputil"
	"pandacare/internal/platform/middleware"
)

// Handler wires the authentication endpoints to the auth service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the auth endpoints. The subtree is public: the token
// validation endpoint inspects the Authorization header itself rather
// than relying on the auth middleware, so expired tokens get a clean
// negative answer instead of a 401.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register/patient", h.handleRegisterPatient)
	r.Post("/register/caregiver", h.handleRegisterCareGiver)
	r.Get("/validate", h.handleValidate)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[RegisterPatientRequest](w, r)
	if !ok {
		return
	}

	u, err := h.service.RegisterPatient(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{ID: u.ID, Message: "patient registered"})
}

func (h *Handler) handleRegisterCareGiver(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[RegisterCareGiverRequest](w, r)
	if !ok {
		return
	}

	u, err := h.service.RegisterCareGiver(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, RegisterResponse{ID: u.ID, Message: "caregiver registered"})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		h.logger.DebugContext(r.Context(), "validate without bearer token",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteJSON(w, http.StatusOK, TokenInfo{Valid: false})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.service.ValidateToken(r.Context(), token))
}
