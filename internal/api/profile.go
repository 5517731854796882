package api

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgeaistudio/frontera/internal/blob"
	"github.com/forgeaistudio/frontera/internal/imaging"
	"github.com/forgeaistudio/frontera/internal/model"
	"github.com/forgeaistudio/frontera/internal/store"
)

// maxAvatarBytes caps avatar uploads at 5 MB, checked before any
// processing or storage happens.
const maxAvatarBytes = 5 << 20

// ProfileHandler handles profile and account endpoints.
type ProfileHandler struct {
	DB    *sql.DB
	Blobs blob.Store
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	profile, err := store.GetProfile(r.Context(), h.DB, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		slog.Error("loading profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var patch model.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		jsonError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	profile, err := store.UpdateProfile(r.Context(), h.DB, claims.UserID, patch)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		slog.Error("updating profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	slog.Info("profile updated", "user", claims.Username)
	jsonResponse(w, http.StatusOK, profile)
}

// UploadAvatar handles POST /api/profile/avatar. The body is the raw image.
// Size and type are validated before the blob store is touched; the stored
// avatar is always a downscaled JPEG.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	if r.ContentLength > maxAvatarBytes {
		jsonError(w, http.StatusRequestEntityTooLarge, "avatar must be 5MB or smaller")
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "avatar must be 5MB or smaller")
			return
		}
		jsonError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		jsonError(w, http.StatusBadRequest, "avatar must be an image")
		return
	}

	normalized, err := imaging.NormalizeAvatar(data)
	if err != nil {
		var unsupported *imaging.ErrUnsupportedFormat
		if errors.As(err, &unsupported) {
			jsonError(w, http.StatusBadRequest, unsupported.Error())
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid image")
		return
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	key := fmt.Sprintf("avatars/%s-%s.jpg", claims.UserID, hex.EncodeToString(suffix))

	url, err := h.Blobs.Put(r.Context(), key, normalized, "image/jpeg")
	if err != nil {
		slog.Error("storing avatar", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store avatar")
		return
	}

	profile, err := store.UpdateProfile(r.Context(), h.DB, claims.UserID, model.ProfilePatch{AvatarURL: &url})
	if err != nil {
		slog.Error("saving avatar url", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	slog.Info("avatar uploaded", "user", claims.Username, "key", key)
	jsonResponse(w, http.StatusOK, profile)
}

// DeleteAccount handles DELETE /api/account. Removes the caller's data and
// revokes the presented token.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	if err := store.DeleteUserData(r.Context(), h.DB, claims.UserID); err != nil {
		slog.Error("deleting user data", "error", err, "user", claims.UserID)
		jsonError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	if claims.ExpiresAt != nil {
		if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
			slog.Warn("revoking token after account deletion", "error", err)
		}
	}

	slog.Info("account deleted", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// AdminDeleteUser handles DELETE /api/admin/users/{id}, guarded by the
// service key.
func (h *ProfileHandler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, "user id required")
		return
	}

	if _, err := store.GetAccount(r.Context(), h.DB, id); errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	} else if err != nil {
		slog.Error("looking up account", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := store.DeleteUserData(r.Context(), h.DB, id); err != nil {
		slog.Error("deleting user data", "error", err, "user", id)
		jsonError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	slog.Info("user deleted by admin", "user", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
