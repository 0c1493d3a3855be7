package auth

import (
	"context"
	"errors"
	"time"

	"github.com/tableforge/tableforge/internal/credentials"
	"github.com/tableforge/tableforge/internal/session"
	"github.com/tableforge/tableforge/internal/shared"
	"github.com/tableforge/tableforge/internal/token"
	"github.com/tableforge/tableforge/internal/users"
)

// PasswordTTL is the lifetime of a freshly rotated password credential.
const PasswordTTL = 365 * 24 * time.Hour

// UserLookup narrows the user store to what login needs.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	users UserLookup
	creds credentials.RepositoryPort
	codec *token.Codec
	repo  Repository
	now   func() time.Time
}

// NewService constructs a new Service.
func NewService(userLookup UserLookup, creds credentials.RepositoryPort, codec *token.Codec, repo Repository) *Service {
	return &Service{users: userLookup, creds: creds, codec: codec, repo: repo, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login validates username/password credentials and mints a signed token.
//
// Every failure collapses to ErrInvalidLogin: unknown user, missing, expired
// or inactive credential, and wrong password are indistinguishable to the
// caller so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, username, password string) (*session.Session, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", shared.ErrInvalidLogin
	}
	cred, err := s.creds.FindActivePassword(ctx, user.ID)
	if err != nil {
		return nil, "", shared.ErrInvalidLogin
	}
	if cred.Expired(s.now()) {
		return nil, "", shared.ErrInvalidLogin
	}
	if err := credentials.MatchPassword(cred.PasswordHash(), password); err != nil {
		return nil, "", shared.ErrInvalidLogin
	}
	sess := session.New(cred, user, session.WithClock(s.now))
	signed, err := s.codec.Generate(sess)
	if err != nil {
		return nil, "", err
	}
	return sess, signed, nil
}

// ChangePassword rotates the caller's password credential: the old one is
// deactivated, the replacement lives for PasswordTTL.
func (s *Service) ChangePassword(ctx context.Context, user *users.User, oldPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return &shared.ValidationError{Fields: map[string]string{
			"confirm_password": "does not match new password",
		}}
	}
	if newPassword == oldPassword {
		return &shared.ValidationError{Fields: map[string]string{
			"new_password": "must not equal the current password",
		}}
	}
	cred, err := s.creds.FindActivePassword(ctx, user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &shared.MissingPasswordError{UserID: user.ID}
		}
		return err
	}
	if err := credentials.MatchPassword(cred.PasswordHash(), oldPassword); err != nil {
		return err
	}
	hash, err := credentials.HashPassword(newPassword)
	if err != nil {
		return err
	}
	userID := user.ID
	replacement := &credentials.Credential{
		Kind:      credentials.KindPassword,
		Active:    true,
		Data:      credentials.NewPasswordData(hash),
		ExpiresAt: s.now().Add(PasswordTTL),
		UserID:    &userID,
	}
	return s.creds.Rotate(ctx, cred.ID, replacement)
}

// RegisterLogin persists the login audit row.
func (s *Service) RegisterLogin(ctx context.Context, rec LoginRecord) error {
	return s.repo.CreateLoginRecord(ctx, rec)
}

// RemoveLogin deletes the login audit row.
func (s *Service) RemoveLogin(ctx context.Context, sessionID string) error {
	return s.repo.DeleteLoginRecord(ctx, sessionID)
}
