package auth

import (
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/tableforge/tableforge/internal/authn"
	"github.com/tableforge/tableforge/internal/platform/httpx"
	"github.com/tableforge/tableforge/internal/session"
	"github.com/tableforge/tableforge/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	sessions      *shared.SessionStore
	authenticator *authn.Authenticator
	validator     *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionStore, authenticator *authn.Authenticator) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		logger:        logger,
		service:       service,
		sessions:      sessions,
		authenticator: authenticator,
		validator:     v,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/login", h.handleLogin)
	})
	r.Post("/logout", h.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(h.authenticator.Require(authn.ResourceConfig{}))
		r.Get("/session", h.showSession)
		r.Post("/password", h.handleChangePassword)
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "invalid_login", "malformed request body")
		return
	}
	if fields := h.validate(req); len(fields) > 0 {
		httpx.FailureFields(w, http.StatusBadRequest, "invalid_login", "validation failed", fields)
		return
	}

	sess, signed, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	cookieSess := shared.CookieSessionFromContext(r.Context())
	if cookieSess == nil {
		h.logger.Error("cookie session missing during login")
		httpx.Failure(w, http.StatusInternalServerError, "internal", "")
		return
	}
	cookieSess.SetAuthToken(signed)

	if sess.AuthenticatedUser != nil {
		rec := LoginRecord{
			SessionID: cookieSess.ID,
			UserID:    sess.AuthenticatedUser.ID,
			ExpiresAt: sess.ExpiresAt,
			IP:        r.RemoteAddr,
			UserAgent: r.UserAgent(),
		}
		if err := h.service.RegisterLogin(r.Context(), rec); err != nil {
			h.logger.Warn("register login", slog.Any("error", err))
		}
	}

	httpx.Success(w, nil)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookieSess := shared.CookieSessionFromContext(r.Context())
	if cookieSess != nil {
		if err := h.service.RemoveLogin(r.Context(), cookieSess.ID); err != nil {
			h.logger.Warn("remove login", slog.Any("error", err))
		}
		cookieSess.ClearAuthToken()
	}
	httpx.Success(w, nil)
}

type sessionPayload struct {
	Username  string    `json:"username,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) showSession(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, shared.ErrMissingToken)
		return
	}
	payload := sessionPayload{ExpiresAt: sess.ExpiresAt}
	if u := sess.AuthorizedUser; u != nil {
		payload.Username = u.Username
		payload.Slug = u.Slug
		payload.Role = string(u.Role)
	}
	httpx.Success(w, payload)
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess == nil || sess.AuthorizedUser == nil {
		httpx.Failure(w, http.StatusForbidden, "forbidden", "session has no user")
		return
	}
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "validation", "malformed request body")
		return
	}
	if fields := h.validate(req); len(fields) > 0 {
		httpx.FailureFields(w, http.StatusBadRequest, "validation", "validation failed", fields)
		return
	}
	err := h.service.ChangePassword(r.Context(), sess.AuthorizedUser, req.OldPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, nil)
}

func (h *Handler) validate(payload any) map[string]string {
	err := h.validator.Struct(payload)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		switch fieldErr.Tag() {
		case "required":
			fields[fieldErr.Field()] = "is required"
		default:
			fields[fieldErr.Field()] = "is invalid"
		}
	}
	return fields
}
