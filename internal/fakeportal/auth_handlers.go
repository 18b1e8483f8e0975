package fakeportal

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
	"github.com/FRANCK359/smart-search-ai/internal/common"
)

func (s *Server) issue(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	tok, err := GenerateToken(u.ID.String(), s.cfg.Secret, s.cfg.TokenTTL, s.cfg.Now())
	if err != nil {
		s.log.Error(r.Context(), "sign token", "user_id", u.ID.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeJSON(w, status, models.AuthResponse{AccessToken: tok, User: u})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if !decode(w, r, &reg) {
		return
	}
	reg.Username = strings.TrimSpace(reg.Username)
	if err := validation.Registration(reg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cfg.BcryptCost)
	if err != nil {
		s.log.Error(r.Context(), "hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	u, err := s.db.createAccount(models.User{
		Username: reg.Username,
		Email:    reg.Email,
		IsAdmin:  s.admins[normalizeEmail(reg.Email)],
	}, hash, s.cfg.Now())
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	s.log.Info(r.Context(), "user registered", "user_id", u.ID.String(), "admin", u.IsAdmin)
	s.issue(w, r, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}
	acc, ok := s.db.accountByEmail(creds.Email)
	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(creds.Password)) != nil {
		s.log.Warn(r.Context(), "failed authentication attempt", "email", normalizeEmail(creds.Email))
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.issue(w, r, http.StatusOK, acc.user)
}

// logout revokes the presented token. It always succeeds.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if claims, err := ParseToken(bearerToken(r), s.cfg.Secret, s.cfg.Now); err == nil {
		s.db.revoke(claims.ID, claims.ExpiresAt.Time)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	var body models.ProfileUpdateBody
	if !decode(w, r, &body) {
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(body.Email)
	if body.Username == "" || !validation.ValidEmail(body.Email) {
		writeError(w, http.StatusBadRequest, "Username and a valid email are required")
		return
	}

	var hash []byte
	if body.NewPassword != "" {
		if len(body.NewPassword) < validation.MinPasswordLength {
			writeError(w, http.StatusBadRequest, "New password is too short")
			return
		}
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(body.NewPassword), s.cfg.BcryptCost); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	errWrongPassword := errors.New("current password is incorrect")
	updated, err := s.db.updateAccount(u.ID, func(a *account) error {
		if hash != nil {
			if bcrypt.CompareHashAndPassword(a.hash, []byte(body.CurrentPassword)) != nil {
				return errWrongPassword
			}
			a.hash = hash
		}
		a.user.Username = body.Username
		a.user.Email = body.Email
		return nil
	})
	switch {
	case errors.Is(err, errWrongPassword):
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, errEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
	default:
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) refreshAPIKey(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r)
	updated, err := s.db.updateAccount(u.ID, func(a *account) error {
		a.user.APIKey = newAPIKey()
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"api_key": updated.APIKey})
}

func (s *Server) checkEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if !validation.ValidEmail(email) {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": !s.db.emailTaken(email, "")})
}

// requestPasswordReset answers the same whether or not the address exists.
func (s *Server) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &body) {
		return
	}
	if acc, ok := s.db.accountByEmail(body.Email); ok {
		tok, err := common.MakeRandHexString(16)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create reset token")
			return
		}
		s.db.addResetToken(tok, acc.user.ID)
		if s.cfg.OnPasswordReset != nil {
			s.cfg.OnPasswordReset(acc.user.Email, tok)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, a reset link was sent"})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := validation.PasswordReset(body.Token, body.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.db.takeResetToken(body.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	if _, err := s.db.updateAccount(id, func(a *account) error {
		a.hash = hash
		return nil
	}); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
