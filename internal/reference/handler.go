package reference

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tableforge/tableforge/internal/platform/httpx"
	"github.com/tableforge/tableforge/internal/shared"
)

// Handler wires HTTP endpoints for the sources resource.
type Handler struct {
	logger    *slog.Logger
	repo      RepositoryPort
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo RepositoryPort) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{logger: logger, repo: repo, validator: v}
}

// MountRoutes registers source routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listSources)
	r.Get("/{id}", h.showSource)
	r.Post("/", h.createSource)
}

type sourcePayload struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Publisher  string    `json:"publisher"`
	GameSystem string    `json:"gameSystem"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) listSources(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListSources(r.Context())
	if err != nil {
		h.logger.Error("list sources failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payload := make([]sourcePayload, 0, len(list))
	for _, src := range list {
		payload = append(payload, toPayload(&src))
	}
	httpx.Success(w, payload)
}

func (h *Handler) showSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	src, err := h.repo.FindSource(r.Context(), id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("show source failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, toPayload(src))
}

type createSourceRequest struct {
	Title      string `json:"title" validate:"required"`
	Publisher  string `json:"publisher" validate:"required"`
	GameSystem string `json:"game_system" validate:"required"`
}

func (h *Handler) createSource(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "validation", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = "is required"
		}
		httpx.FailureFields(w, http.StatusBadRequest, "validation", "validation failed", fields)
		return
	}
	src := Source{Title: req.Title, Publisher: req.Publisher, GameSystem: req.GameSystem}
	if err := h.repo.CreateSource(r.Context(), &src); err != nil {
		h.logger.Error("create source failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Envelope{Status: httpx.StatusSuccess, Data: toPayload(&src)})
}

func toPayload(src *Source) sourcePayload {
	return sourcePayload{
		ID:         src.ID,
		Title:      src.Title,
		Publisher:  src.Publisher,
		GameSystem: src.GameSystem,
		CreatedAt:  src.CreatedAt,
	}
}
