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

// ResourcesHandler handles resource library endpoints.
type ResourcesHandler struct {
	DB *sql.DB
}

type createResourceRequest struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
	Category    string  `json:"category"`
	URL         string  `json:"url"`
	Rating      float64 `json:"rating"`
	Content     string  `json:"content"`
}

type toggleBookmarkRequest struct {
	CurrentValue bool `json:"current_value"`
}

type resourceListResponse struct {
	Resources  []model.Resource `json:"resources"`
	SelectedID string           `json:"selected_id"`
	Types      []string         `json:"types"`
}

// List handles GET /api/resources. Supports ?search=, ?type=, ?category=,
// ?bookmarked=, and ?selected= query parameters. Shared resources (no
// owner) are included alongside the caller's own.
func (h *ResourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	resources, err := store.ListResources(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("listing resources", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list resources")
		return
	}

	q := r.URL.Query()
	resources = derive.FilterResources(resources, derive.ResourceFilter{
		Search:     q.Get("search"),
		Type:       q.Get("type"),
		Category:   q.Get("category"),
		Bookmarked: q.Get("bookmarked") == "true",
	})

	ids := make([]string, len(resources))
	for i, res := range resources {
		ids[i] = res.ID
	}

	jsonResponse(w, http.StatusOK, resourceListResponse{
		Resources:  resources,
		SelectedID: derive.Resolve(q.Get("selected"), ids),
		Types:      model.ResourceTypes,
	})
}

// Create handles POST /api/resources.
func (h *ResourcesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		jsonError(w, http.StatusBadRequest, "rating must be between 0 and 5")
		return
	}

	resource, err := store.CreateResource(r.Context(), h.DB, claims.UserID, model.Resource{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Author:      req.Author,
		Category:    req.Category,
		URL:         req.URL,
		Rating:      req.Rating,
		Content:     req.Content,
	})
	if err != nil {
		slog.Error("creating resource", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create resource")
		return
	}

	slog.Info("resource created", "user", claims.Username, "resource", resource.Title)
	jsonResponse(w, http.StatusCreated, resource)
}

// Get handles GET /api/resources/{id}.
func (h *ResourcesHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	resource, err := store.GetResource(r.Context(), h.DB, claims.UserID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}
	if err != nil {
		slog.Error("loading resource", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load resource")
		return
	}
	jsonResponse(w, http.StatusOK, resource)
}

// Update handles PUT /api/resources/{id}.
func (h *ResourcesHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var patch model.ResourcePatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		jsonError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		jsonError(w, http.StatusBadRequest, "rating must be between 0 and 5")
		return
	}

	resource, err := store.UpdateResource(r.Context(), h.DB, claims.UserID, r.PathValue("id"), patch)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}
	if err != nil {
		slog.Error("updating resource", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update resource")
		return
	}

	slog.Info("resource updated", "user", claims.Username, "resource", resource.Title)
	jsonResponse(w, http.StatusOK, resource)
}

// Delete handles DELETE /api/resources/{id}. Only owned resources can be
// deleted; shared ones return not found.
func (h *ResourcesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	err := store.DeleteResource(r.Context(), h.DB, claims.UserID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}
	if err != nil {
		slog.Error("deleting resource", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete resource")
		return
	}

	slog.Info("resource deleted", "user", claims.Username, "resource", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "resource deleted"})
}

// ToggleBookmark handles POST /api/resources/{id}/bookmark. The client
// sends the value it last saw and the row is set to its inverse, so a
// stale client flips from what it displayed rather than blind-toggling.
func (h *ResourcesHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req toggleBookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resource, err := store.ToggleResourceBookmark(r.Context(), h.DB, claims.UserID, r.PathValue("id"), req.CurrentValue)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}
	if err != nil {
		slog.Error("toggling bookmark", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to toggle bookmark")
		return
	}

	jsonResponse(w, http.StatusOK, resource)
}
