package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/session"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

// AuthService drives the session lifecycle.
//
// Contract:
//   - Login/Register: validate locally, then authenticate; only a successful
//     answer persists a token.
//   - CurrentUser: fail-safe; any problem with the held token or the
//     identity check ends in a logged-out session and a nil user.
//   - Logout: never fails; client-side cleanup always happens.
//   - RefreshAPIKey/UpdateProfile: errors are surfaced, never retried.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	CurrentUser(ctx context.Context) *models.User
	Logout(ctx context.Context)
	RefreshAPIKey(ctx context.Context) (string, error)
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	CheckEmailAvailability(ctx context.Context, email string) (bool, error)
}

type authService struct {
	api  AuthAPI
	sess *session.Session
	log  logging.Logger
}

func NewAuthService(api AuthAPI, sess *session.Session, log logging.Logger) AuthService {
	return &authService{api: api, sess: sess, log: log.With("service", "auth")}
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validation.Credentials(creds); err != nil {
		return nil, err
	}

	resp, err := a.api.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.begin(ctx, resp)
}

func (a *authService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Username = strings.TrimSpace(reg.Username)
	if err := validation.Registration(reg); err != nil {
		return nil, err
	}

	resp, err := a.api.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return a.begin(ctx, resp)
}

func (a *authService) begin(ctx context.Context, resp *models.AuthResponse) (*models.User, error) {
	if err := a.sess.Begin(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	a.log.Info(ctx, "session started", "user_id", resp.User.ID.String())
	return a.sess.User(), nil
}

func (a *authService) CurrentUser(ctx context.Context) *models.User {
	if !a.sess.HasToken() {
		return nil
	}
	if !a.sess.Valid() {
		a.log.Info(ctx, "token expired, logging out")
		a.Logout(ctx)
		return nil
	}

	u, err := a.api.Me(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		a.log.Warn(ctx, "session check failed, logging out", "err", err)
		a.Logout(ctx)
		return nil
	}

	a.sess.SetUser(u)
	return a.sess.User()
}

func (a *authService) Logout(ctx context.Context) {
	defer func() {
		// Persistence failures are already logged by the session.
		_ = a.sess.Destroy(ctx)
	}()

	if !a.sess.Valid() {
		return
	}
	if err := a.api.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout notify failed, proceeding with client cleanup", "err", err)
	}
}

func (a *authService) RefreshAPIKey(ctx context.Context) (string, error) {
	key, err := a.api.RefreshAPIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh api key: %w", err)
	}
	if u := a.sess.User(); u != nil {
		u.APIKey = key
		a.sess.SetUser(u)
	}
	return key, nil
}

func (a *authService) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	if err := validation.ProfileUpdate(p); err != nil {
		return nil, err
	}

	updated, err := a.api.UpdateProfile(ctx, p.Body())
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	// Some deployments answer with an empty body; apply the sent fields.
	if updated == nil || updated.ID == "" {
		cur := a.sess.User()
		if cur == nil {
			cur = &models.User{}
		}
		cur.Username = p.Username
		cur.Email = p.Email
		updated = cur
	}
	a.sess.SetUser(updated)
	return updated.Clone(), nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validation.Email(email); err != nil {
		return err
	}
	if err := a.api.RequestPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if err := validation.PasswordReset(token, newPassword); err != nil {
		return err
	}
	if err := a.api.ResetPassword(ctx, token, newPassword); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (a *authService) CheckEmailAvailability(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if err := validation.Email(email); err != nil {
		return false, err
	}
	ok, err := a.api.CheckEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return ok, nil
}
