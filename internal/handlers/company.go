package handlers

import (
	"encoding/json"
	"net/http"

	"foodeck-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CompanyHandler struct {
	companies   CompanyStore
	menus       MenuStore
	submissions SubmissionStore
	ratings     RatingStore
}

func NewCompanyHandler(companies CompanyStore, menus MenuStore, submissions SubmissionStore, ratings RatingStore) *CompanyHandler {
	return &CompanyHandler{
		companies:   companies,
		menus:       menus,
		submissions: submissions,
		ratings:     ratings,
	}
}

type CreateCompanyRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type UpdateCompanyRequest struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

// --- POST /api/companies ---

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "company name is required")
		return
	}
	if !models.ValidCompanyType(req.Type) {
		writeError(w, http.StatusBadRequest, "company type must be static or cafeteria")
		return
	}

	company := &models.Company{
		Name: req.Name,
		Type: req.Type,
	}
	if err := h.companies.Create(r.Context(), company); err != nil {
		logrus.WithError(err).Error("failed to create company")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, company)
}

// --- GET /api/companies ---

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.FindAll(r.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to list companies")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

// --- GET /api/companies/{companyID} ---

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, err := bson.ObjectIDFromHex(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
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
	writeJSON(w, http.StatusOK, company)
}

// --- PUT /api/companies/{companyID} ---

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	companyID, err := bson.ObjectIDFromHex(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	var req UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Type != nil {
		if !models.ValidCompanyType(*req.Type) {
			writeError(w, http.StatusBadRequest, "company type must be static or cafeteria")
			return
		}
		fields["type"] = *req.Type
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	matched, err := h.companies.Update(r.Context(), companyID, fields)
	if err != nil {
		logrus.WithError(err).Error("failed to update company")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !matched {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	company, err := h.companies.FindByID(r.Context(), companyID)
	if err != nil || company == nil {
		logrus.WithError(err).Error("failed to reload company after update")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

// --- DELETE /api/companies/{companyID} ---

// Delete removes a company and cascades to everything it owns,
// children first. The cascade is not transactional: a failed step is
// logged and skipped, and the response reports best-effort counts.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, err := bson.ObjectIDFromHex(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
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

	companyHex := companyID.Hex()

	ratingsDeleted, err := h.ratings.DeleteByCompany(r.Context(), companyHex)
	if err != nil {
		logrus.WithError(err).WithField("company_id", companyHex).Error("cascade: failed to delete ratings")
	}
	submissionsDeleted, err := h.submissions.DeleteByCompany(r.Context(), companyHex)
	if err != nil {
		logrus.WithError(err).WithField("company_id", companyHex).Error("cascade: failed to delete submissions")
	}
	if _, err := h.submissions.DeleteCountersByCompany(r.Context(), companyHex); err != nil {
		logrus.WithError(err).WithField("company_id", companyHex).Error("cascade: failed to delete counters")
	}
	menusDeleted, err := h.menus.DeleteByCompany(r.Context(), companyHex)
	if err != nil {
		logrus.WithError(err).WithField("company_id", companyHex).Error("cascade: failed to delete menus")
	}
	companyDeleted, err := h.companies.Delete(r.Context(), companyID)
	if err != nil {
		logrus.WithError(err).WithField("company_id", companyHex).Error("cascade: failed to delete company")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "company and all associated data deleted successfully",
		"deleted_counts": map[string]int64{
			"company":     companyDeleted,
			"menus":       menusDeleted,
			"submissions": submissionsDeleted,
			"ratings":     ratingsDeleted,
		},
	})
}
