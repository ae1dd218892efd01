package search

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pandacare/internal/authz"
	"pandacare/internal/platform/httputil"
)

// Handler wires the directory search endpoints. All of them expose
// caregiver data only, so they sit behind the caregiver-viewing
// action.
type Handler struct {
	service *Service
	guard   *authz.Guard
	logger  *slog.Logger
}

func NewHandler(service *Service, guard *authz.Guard, logger *slog.Logger) *Handler {
	return &Handler{service: service, guard: guard, logger: logger}
}

// Register mounts the search endpoints.
func (h *Handler) Register(r chi.Router) {
	view := func(next http.HandlerFunc) http.HandlerFunc {
		return h.guard.Protect(authz.ActionViewCareGiver, nil, next)
	}

	r.Get("/caregiver/search", view(h.handleSearch))
	r.Get("/caregiver/search-paginated", view(h.handleSearchPaginated))
	r.Get("/caregiver/search-advanced", view(h.handleSearchAdvanced))
	r.Get("/caregiver/top-rated", view(h.handleTopRated))
	r.Get("/caregiver/suggestions/names", view(h.handleNameSuggestions))
	r.Get("/caregiver/suggestions/specialities", view(h.handleSpecialitySuggestions))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results, err := h.service.Search(r.Context(), q.Get("name"), q.Get("speciality"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

func (h *Handler) handleSearchPaginated(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.SearchPaginated(r.Context(),
		q.Get("name"), q.Get("speciality"), intParam(q.Get("page"), 0), intParam(q.Get("size"), defaultPageSize))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleSearchAdvanced(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.SearchAdvanced(r.Context(),
		q.Get("name"), q.Get("speciality"),
		intParam(q.Get("page"), 0), intParam(q.Get("size"), defaultPageSize),
		q.Get("sortBy"), q.Get("sortDirection"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleTopRated(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.TopRated(r.Context(), intParam(q.Get("page"), 0), intParam(q.Get("size"), defaultPageSize))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleNameSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.NameSuggestions(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, suggestions)
}

func (h *Handler) handleSpecialitySuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.SpecialitySuggestions(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, suggestions)
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
