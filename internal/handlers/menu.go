package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"foodeck-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const defaultMenuListLimit = 30

type MenuHandler struct {
	companies CompanyStore
	menus     MenuStore
	ratings   RatingStore
}

func NewMenuHandler(companies CompanyStore, menus MenuStore, ratings RatingStore) *MenuHandler {
	return &MenuHandler{
		companies: companies,
		menus:     menus,
		ratings:   ratings,
	}
}

type MenuItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateMenuRequest struct {
	Date  string          `json:"date"`
	Items []MenuItemInput `json:"items"`
}

type UpdateMenuItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// newMenuItems assigns a fresh id to every submitted item.
func newMenuItems(inputs []MenuItemInput) []models.MenuItem {
	items := make([]models.MenuItem, len(inputs))
	for i, input := range inputs {
		items[i] = models.MenuItem{
			ID:          bson.NewObjectID(),
			Name:        input.Name,
			Description: input.Description,
		}
	}
	return items
}

// --- POST /api/menu/{id}?replace=true|false ---

// CreateOrMerge creates the company's menu for the given date, or
// merges into the existing one: replace=true (the default) overwrites
// the whole item list with regenerated ids, replace=false appends the
// submitted items while existing items keep their ids.
func (h *MenuHandler) CreateOrMerge(w http.ResponseWriter, r *http.Request) {
	companyID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	replace := true
	if raw := r.URL.Query().Get("replace"); raw != "" {
		replace, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid replace flag")
			return
		}
	}

	var req CreateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	company, err := h.companies.FindByID(r.Context(), companyID)
	if err != nil {
		logrus.WithError(err).Error("failed to find company")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if company == nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	items := newMenuItems(req.Items)

	existing, err := h.menus.FindByCompanyDate(r.Context(), companyID.Hex(), req.Date)
	if err != nil {
		logrus.WithError(err).Error("failed to look up menu")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if existing == nil {
		menu := &models.Menu{
			CompanyID: companyID.Hex(),
			Date:      req.Date,
			Items:     items,
		}
		err := h.menus.Create(r.Context(), menu)
		if err == nil {
			writeJSON(w, http.StatusCreated, menu)
			return
		}
		if !mongo.IsDuplicateKeyError(err) {
			logrus.WithError(err).Error("failed to create menu")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		// Lost the create race against a concurrent request for the
		// same (company, date); re-read and fall through to the merge.
		existing, err = h.menus.FindByCompanyDate(r.Context(), companyID.Hex(), req.Date)
		if err != nil || existing == nil {
			logrus.WithError(err).Error("failed to reload menu after create conflict")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	if replace {
		_, err = h.menus.SetItems(r.Context(), existing.ID, items)
	} else {
		_, err = h.menus.PushItems(r.Context(), existing.ID, items)
	}
	if err != nil {
		logrus.WithError(err).Error("failed to merge menu items")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updated, err := h.menus.FindByID(r.Context(), existing.ID)
	if err != nil || updated == nil {
		logrus.WithError(err).Error("failed to reload menu after merge")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// --- GET /api/menu/{id}/{date} ---

// GetByDate serves the kiosk, so it requires no auth.
func (h *MenuHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	companyID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	menu, err := h.menus.FindByCompanyDate(r.Context(), companyID.Hex(), chi.URLParam(r, "date"))
	if err != nil {
		logrus.WithError(err).Error("failed to find menu")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if menu == nil {
		writeError(w, http.StatusNotFound, "menu not found for this date")
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// --- GET /api/menus/{companyID}?limit=30 ---

func (h *MenuHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	companyID, err := bson.ObjectIDFromHex(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	limit := int64(defaultMenuListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	menus, err := h.menus.FindRecent(r.Context(), companyID.Hex(), limit)
	if err != nil {
		logrus.WithError(err).Error("failed to list menus")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if menus == nil {
		menus = []models.Menu{}
	}
	writeJSON(w, http.StatusOK, menus)
}

// --- POST /api/menu/{id}/items ---

func (h *MenuHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	menuID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu ID")
		return
	}

	var inputs []MenuItemInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	matched, err := h.menus.PushItems(r.Context(), menuID, newMenuItems(inputs))
	if err != nil {
		logrus.WithError(err).Error("failed to add menu items")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !matched {
		writeError(w, http.StatusNotFound, "menu not found")
		return
	}

	updated, err := h.menus.FindByID(r.Context(), menuID)
	if err != nil || updated == nil {
		logrus.WithError(err).Error("failed to reload menu after adding items")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// --- PUT /api/menu/{id}/items/{itemID} ---

func (h *MenuHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	menuID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu ID")
		return
	}
	itemID, err := bson.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req UpdateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	matched, err := h.menus.UpdateItem(r.Context(), menuID, itemID, fields)
	if err != nil {
		logrus.WithError(err).Error("failed to update menu item")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !matched {
		writeError(w, http.StatusNotFound, "menu or item not found")
		return
	}

	updated, err := h.menus.FindByID(r.Context(), menuID)
	if err != nil || updated == nil {
		logrus.WithError(err).Error("failed to reload menu after item update")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// --- DELETE /api/menu/{id}/items/{itemID} ---

// DeleteItem removes one item and cascades to every rating recorded
// against it. Deleting an item the menu does not contain succeeds with
// zero removals.
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	menuID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu ID")
		return
	}
	itemID, err := bson.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item ID")
		return
	}

	menu, err := h.menus.FindByID(r.Context(), menuID)
	if err != nil {
		logrus.WithError(err).Error("failed to find menu")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if menu == nil {
		writeError(w, http.StatusNotFound, "menu not found")
		return
	}

	// Ratings first, then the item itself.
	ratingsDeleted, err := h.ratings.DeleteByItem(r.Context(), menuID.Hex(), itemID.Hex())
	if err != nil {
		logrus.WithError(err).WithField("menu_id", menuID.Hex()).Error("cascade: failed to delete item ratings")
	}
	if _, err := h.menus.PullItem(r.Context(), menuID, itemID); err != nil {
		logrus.WithError(err).Error("failed to remove menu item")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updated, err := h.menus.FindByID(r.Context(), menuID)
	if err != nil || updated == nil {
		logrus.WithError(err).Error("failed to reload menu after item delete")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "menu item and associated ratings deleted successfully",
		"menu_id":         menuID.Hex(),
		"item_id":         itemID.Hex(),
		"remaining_items": len(updated.Items),
		"deleted_ratings": ratingsDeleted,
	})
}

// --- DELETE /api/menu/{id} ---

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	menuID, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu ID")
		return
	}

	menu, err := h.menus.FindByID(r.Context(), menuID)
	if err != nil {
		logrus.WithError(err).Error("failed to find menu")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if menu == nil {
		writeError(w, http.StatusNotFound, "menu not found")
		return
	}

	ratingsDeleted, err := h.ratings.DeleteByMenu(r.Context(), menuID.Hex())
	if err != nil {
		logrus.WithError(err).WithField("menu_id", menuID.Hex()).Error("cascade: failed to delete menu ratings")
	}
	menuDeleted, err := h.menus.Delete(r.Context(), menuID)
	if err != nil {
		logrus.WithError(err).Error("failed to delete menu")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "menu deleted successfully",
		"menu_id": menuID.Hex(),
		"date":    menu.Date,
		"deleted_counts": map[string]int64{
			"menu":    menuDeleted,
			"ratings": ratingsDeleted,
		},
	})
}
