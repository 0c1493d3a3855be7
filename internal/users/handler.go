package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tableforge/tableforge/internal/platform/httpx"
	"github.com/tableforge/tableforge/internal/shared"
)

// Handler manages user listing endpoints. Role gating is applied by the
// router; the handler itself only reads.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Get("/{slug}", h.showUser)
}

type userPayload struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Slug      string    `json:"slug"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type userListPayload struct {
	Items      []userPayload `json:"items"`
	Page       int           `json:"page"`
	PerPage    int           `json:"perPage"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	list, meta, err := h.service.ListUsers(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payload := userListPayload{
		Items:      make([]userPayload, 0, len(list)),
		Page:       meta.Page,
		PerPage:    meta.PerPage,
		Total:      meta.Total,
		TotalPages: meta.TotalPages,
	}
	for _, u := range list {
		payload.Items = append(payload.Items, toPayload(&u))
	}
	httpx.Success(w, payload)
}

func (h *Handler) showUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("show user failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, toPayload(user))
}

func toPayload(u *User) userPayload {
	return userPayload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Slug:      u.Slug,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
