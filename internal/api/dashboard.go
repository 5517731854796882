package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgeaistudio/frontera/internal/derive"
	"github.com/forgeaistudio/frontera/internal/model"
	"github.com/forgeaistudio/frontera/internal/score"
	"github.com/forgeaistudio/frontera/internal/store"
)

// DashboardHandler serves the aggregated home view.
type DashboardHandler struct {
	DB *sql.DB
}

type dashboardResponse struct {
	Score          score.Card            `json:"score"`
	InventoryCount int                   `json:"inventory_count"`
	ExpiringSoon   []model.InventoryItem `json:"expiring_soon"`
}

// Get handles GET /api/dashboard. The preparedness score is computed from
// live counts, never stored.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	userID := claims.UserID

	inventoryCount, err := store.CountInventory(r.Context(), h.DB, userID)
	if err != nil {
		slog.Error("counting inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	maxMembers, err := store.MaxOwnedTractMembers(r.Context(), h.DB, userID)
	if err != nil {
		slog.Error("counting tract members", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	bookmarked, medicalTotal, medicalBookmarked, err := store.CountBookmarkedResources(r.Context(), h.DB, userID, "Medical")
	if err != nil {
		slog.Error("counting resources", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	expiring, err := store.ListExpiringInventory(r.Context(), h.DB, userID, time.Now(), derive.ExpiryWindow)
	if err != nil {
		slog.Error("listing expiring inventory", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	if expiring == nil {
		expiring = []model.InventoryItem{}
	}

	card := score.Evaluate(score.Stats{
		InventoryCount:    inventoryCount,
		MaxTractMembers:   maxMembers,
		BookmarkedCount:   bookmarked,
		MedicalTotal:      medicalTotal,
		MedicalBookmarked: medicalBookmarked,
	})

	jsonResponse(w, http.StatusOK, dashboardResponse{
		Score:          card,
		InventoryCount: inventoryCount,
		ExpiringSoon:   expiring,
	})
}
