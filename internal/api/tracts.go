package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgeaistudio/frontera/internal/derive"
	"github.com/forgeaistudio/frontera/internal/model"
	"github.com/forgeaistudio/frontera/internal/store"
)

// TractsHandler handles community tract endpoints.
type TractsHandler struct {
	DB *sql.DB
}

type createTractRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Location    string   `json:"location"`
	Size        string   `json:"size"`
}

type tractListResponse struct {
	Tracts     []model.Tract `json:"tracts"`
	SelectedID string        `json:"selected_id"`
}

// List handles GET /api/tracts. All tracts are community-visible; supports
// ?search= and ?selected= query parameters.
func (h *TractsHandler) List(w http.ResponseWriter, r *http.Request) {
	tracts, err := store.ListTracts(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing tracts", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list tracts")
		return
	}

	q := r.URL.Query()
	tracts = derive.FilterTracts(tracts, q.Get("search"))

	ids := make([]string, len(tracts))
	for i, t := range tracts {
		ids[i] = t.ID
	}

	jsonResponse(w, http.StatusOK, tractListResponse{
		Tracts:     tracts,
		SelectedID: derive.Resolve(q.Get("selected"), ids),
	})
}

// Create handles POST /api/tracts. The creator becomes the owner and the
// first member.
func (h *TractsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createTractRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	tract, err := store.CreateTract(r.Context(), h.DB, claims.UserID, model.Tract{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Location:    req.Location,
		Size:        req.Size,
	})
	if err != nil {
		slog.Error("creating tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create tract")
		return
	}

	slog.Info("tract created", "user", claims.Username, "tract", tract.Name)
	jsonResponse(w, http.StatusCreated, tract)
}

// Get handles GET /api/tracts/{id}.
func (h *TractsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tract, err := store.GetTract(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "tract not found")
		return
	}
	if err != nil {
		slog.Error("loading tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load tract")
		return
	}
	jsonResponse(w, http.StatusOK, tract)
}

// Update handles PUT /api/tracts/{id}. Only the owner can update.
func (h *TractsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var patch model.TractPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		jsonError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	tract, err := store.UpdateTract(r.Context(), h.DB, claims.UserID, r.PathValue("id"), patch)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "tract not found")
		return
	}
	if err != nil {
		slog.Error("updating tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update tract")
		return
	}

	slog.Info("tract updated", "user", claims.Username, "tract", tract.Name)
	jsonResponse(w, http.StatusOK, tract)
}

// Delete handles DELETE /api/tracts/{id}. Only the owner can delete;
// memberships go with the tract.
func (h *TractsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	err := store.DeleteTract(r.Context(), h.DB, claims.UserID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "tract not found")
		return
	}
	if err != nil {
		slog.Error("deleting tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete tract")
		return
	}

	slog.Info("tract deleted", "user", claims.Username, "tract", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "tract deleted"})
}

// ListMembers handles GET /api/tracts/{id}/members.
func (h *TractsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := store.GetTract(r.Context(), h.DB, id); errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "tract not found")
		return
	} else if err != nil {
		slog.Error("loading tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load tract")
		return
	}

	members, err := store.ListTractMembers(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("listing tract members", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	jsonResponse(w, http.StatusOK, members)
}

// Join handles POST /api/tracts/{id}/members. Joining twice returns a
// conflict.
func (h *TractsHandler) Join(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id := r.PathValue("id")

	if _, err := store.GetTract(r.Context(), h.DB, id); errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "tract not found")
		return
	} else if err != nil {
		slog.Error("loading tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load tract")
		return
	}

	member, err := store.AddTractMember(r.Context(), h.DB, id, claims.UserID, model.TractRoleMember)
	if errors.Is(err, store.ErrUniqueViolation) {
		jsonError(w, http.StatusConflict, "already a member")
		return
	}
	if err != nil {
		slog.Error("joining tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to join tract")
		return
	}

	slog.Info("tract joined", "user", claims.Username, "tract", id)
	jsonResponse(w, http.StatusCreated, member)
}

// Leave handles DELETE /api/tracts/{id}/members.
func (h *TractsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	err := store.RemoveTractMember(r.Context(), h.DB, r.PathValue("id"), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "membership not found")
		return
	}
	if err != nil {
		slog.Error("leaving tract", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to leave tract")
		return
	}

	slog.Info("tract left", "user", claims.Username, "tract", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "left tract"})
}
