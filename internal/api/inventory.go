package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/forgeaistudio/frontera/internal/derive"
	"github.com/forgeaistudio/frontera/internal/model"
	"github.com/forgeaistudio/frontera/internal/store"
)

// InventoryHandler handles inventory CRUD endpoints.
type InventoryHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    json.RawMessage `json:"quantity"`
	Unit        string          `json:"unit"`
	Location    string          `json:"location"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
}

type updateItemRequest struct {
	Name        *string         `json:"name"`
	Category    *string         `json:"category"`
	Quantity    json.RawMessage `json:"quantity"`
	Unit        *string         `json:"unit"`
	Location    *string         `json:"location"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	ClearExpiry bool            `json:"clear_expiry"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
}

type inventoryListResponse struct {
	Items      []model.InventoryItem `json:"items"`
	SelectedID string                `json:"selected_id"`
	Categories []string              `json:"categories"`
}

// parseQuantity accepts a JSON number or a numeric string. Forms submit
// quantities as text, so "3" must work, but non-numeric input is rejected
// before anything reaches the store.
func parseQuantity(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, errors.New("Quantity must be a number")
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, errors.New("Quantity must be a number")
	}
	return n, nil
}

// List handles GET /api/inventory. Supports ?search=, ?category=,
// ?location=, and ?selected= query parameters.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	items, err := store.ListInventory(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("listing inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}

	q := r.URL.Query()
	items = derive.FilterInventory(items, derive.InventoryFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Location: q.Get("location"),
	})

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	jsonResponse(w, http.StatusOK, inventoryListResponse{
		Items:      items,
		SelectedID: derive.Resolve(q.Get("selected"), ids),
		Categories: model.InventoryCategories,
	})
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.CreateInventoryItem(r.Context(), h.DB, claims.UserID, model.InventoryItem{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    quantity,
		Unit:        req.Unit,
		Location:    req.Location,
		ExpiryDate:  req.ExpiryDate,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		slog.Error("creating inventory item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	slog.Info("inventory item created", "user", claims.Username, "item", item.Name)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	item, err := store.GetInventoryItem(r.Context(), h.DB, claims.UserID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("loading inventory item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/inventory/{id}.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := model.InventoryPatch{
		Name:        req.Name,
		Category:    req.Category,
		Unit:        req.Unit,
		Location:    req.Location,
		ExpiryDate:  req.ExpiryDate,
		ClearExpiry: req.ClearExpiry,
		Description: req.Description,
		Status:      req.Status,
	}
	if len(req.Quantity) > 0 {
		quantity, err := parseQuantity(req.Quantity)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.Quantity = &quantity
	}
	if patch.Empty() {
		jsonError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	item, err := store.UpdateInventoryItem(r.Context(), h.DB, claims.UserID, r.PathValue("id"), patch)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("updating inventory item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	slog.Info("inventory item updated", "user", claims.Username, "item", item.Name)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	err := store.DeleteInventoryItem(r.Context(), h.DB, claims.UserID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		slog.Error("deleting inventory item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	slog.Info("inventory item deleted", "user", claims.Username, "item", r.PathValue("id"))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
