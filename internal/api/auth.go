package api

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgeaistudio/frontera/internal/auth"
	"github.com/forgeaistudio/frontera/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type signUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Token    string `json:"token,omitempty"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// usernameFromEmail derives the initial username from the address local
// part. Collisions get a random numeric suffix on retry.
func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

func randomSuffix() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "0"
	}
	return n.String()
}

// SignUp handles POST /api/auth/signup. Account creation and profile
// provisioning are separate steps; if the profile cannot be created even
// with a deduplicated username, the new account is rolled back so the
// email is not left claimed by a half-created user.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < 8 {
		jsonError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	account, err := store.CreateAccount(r.Context(), h.DB, req.Email, string(hash))
	if errors.Is(err, store.ErrUniqueViolation) {
		jsonError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		slog.Error("creating account", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	username := usernameFromEmail(req.Email)
	profile, err := store.CreateProfile(r.Context(), h.DB, account.ID, req.Email, username, req.FirstName, req.LastName)
	if errors.Is(err, store.ErrUniqueViolation) {
		username = fmt.Sprintf("%s%s", username, randomSuffix())
		profile, err = store.CreateProfile(r.Context(), h.DB, account.ID, req.Email, username, req.FirstName, req.LastName)
	}
	if err != nil {
		// Roll the account back so signup can be retried cleanly.
		if delErr := store.DeleteAccount(r.Context(), h.DB, account.ID); delErr != nil {
			slog.Error("rolling back account after profile failure", "error", delErr, "account", account.ID)
		}
		slog.Error("creating profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	token, err := auth.NewToken(h.JWTSecret, auth.Identity{
		UserID:   account.ID,
		Email:    account.Email,
		Username: profile.Username,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user signed up", "user", profile.Username)
	jsonResponse(w, http.StatusCreated, sessionResponse{
		Token:    token,
		UserID:   account.ID,
		Email:    account.Email,
		Username: profile.Username,
	})
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	account, err := store.GetAccountByEmail(r.Context(), h.DB, strings.TrimSpace(strings.ToLower(req.Email)))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		slog.Error("looking up account", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("sign in failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	profile, err := store.GetProfile(r.Context(), h.DB, account.ID)
	if err != nil {
		slog.Error("loading profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.NewToken(h.JWTSecret, auth.Identity{
		UserID:   account.ID,
		Email:    account.Email,
		Username: profile.Username,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user signed in", "user", profile.Username)
	jsonResponse(w, http.StatusOK, sessionResponse{
		Token:    token,
		UserID:   account.ID,
		Email:    account.Email,
		Username: profile.Username,
	})
}

// SignOut handles POST /api/auth/signout by revoking the presented token.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	expiresAt := time.Now().Add(auth.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, expiresAt); err != nil {
		slog.Error("revoking token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}

	slog.Info("user signed out", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// ResetPassword handles POST /api/auth/reset-password. The response is the
// same whether or not the email exists, so the endpoint cannot be used to
// probe for accounts. Without an outbound mailer the one-time token is only
// logged.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		jsonError(w, http.StatusBadRequest, "email required")
		return
	}

	account, err := store.GetAccountByEmail(r.Context(), h.DB, strings.TrimSpace(strings.ToLower(req.Email)))
	if err == nil {
		buf := make([]byte, 16)
		if _, randErr := rand.Read(buf); randErr == nil {
			slog.Info("password reset requested", "account", account.ID, "token", hex.EncodeToString(buf))
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		slog.Error("looking up account for reset", "error", err)
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "if the address is registered, a reset link has been sent"})
}

// Session handles GET /api/auth/session, returning the identity behind the
// presented token.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	jsonResponse(w, http.StatusOK, sessionResponse{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	})
}
