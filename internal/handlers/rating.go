package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"foodeck-backend/internal/models"
	"foodeck-backend/internal/notifier"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Submissions whose mean score is at or below this trigger an admin
// alert through the notifier.
const lowScoreAlertThreshold = 2.0

type RatingHandler struct {
	menus       MenuStore
	submissions SubmissionStore
	ratings     RatingStore
	notifier    notifier.Notifier
}

func NewRatingHandler(menus MenuStore, submissions SubmissionStore, ratings RatingStore, n notifier.Notifier) *RatingHandler {
	return &RatingHandler{
		menus:       menus,
		submissions: submissions,
		ratings:     ratings,
		notifier:    n,
	}
}

type RatingInput struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Score    int    `json:"score"`
}

type SubmitRatingsRequest struct {
	CompanyID string        `json:"company_id"`
	MenuID    string        `json:"menu_id"`
	Ratings   []RatingInput `json:"ratings"`
}

// --- POST /api/ratings ---

// Submit records one anonymous kiosk session: a submission with the
// next employee number for (company, today) plus one rating row per
// scored item. Reachable from the public kiosk, so no auth.
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRatingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := bson.ObjectIDFromHex(req.CompanyID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}
	menuID, err := bson.ObjectIDFromHex(req.MenuID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu ID")
		return
	}
	if len(req.Ratings) == 0 {
		writeError(w, http.StatusBadRequest, "at least one rating is required")
		return
	}
	for _, rating := range req.Ratings {
		if rating.Score < 0 || rating.Score > 5 {
			writeError(w, http.StatusBadRequest, "score must be between 0 and 5")
			return
		}
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

	today := utcToday()
	counter, err := h.submissions.NextEmployeeCounter(r.Context(), req.CompanyID, today)
	if err != nil {
		logrus.WithError(err).Error("failed to allocate employee counter")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		CompanyID:       req.CompanyID,
		Date:            today,
		EmployeeCounter: counter,
		Timestamp:       now,
		RatingsCount:    len(req.Ratings),
	}
	if err := h.submissions.Create(r.Context(), submission); err != nil {
		logrus.WithError(err).Error("failed to create submission")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Item names are stored exactly as submitted, never re-looked-up
	// from the menu: historical ratings keep the name the employee saw.
	ratings := make([]models.Rating, len(req.Ratings))
	for i, input := range req.Ratings {
		ratings[i] = models.Rating{
			CompanyID:    req.CompanyID,
			MenuID:       req.MenuID,
			ItemID:       input.ItemID,
			ItemName:     input.ItemName,
			Score:        input.Score,
			Timestamp:    now,
			SubmissionID: submission.ID.Hex(),
		}
	}
	if err := h.ratings.CreateMany(r.Context(), ratings); err != nil {
		logrus.WithError(err).Error("failed to persist ratings")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.alertIfLowScore(req, counter)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":         "ratings submitted successfully",
		"submission_id":   submission.ID.Hex(),
		"employee_number": counter,
		"ratings_count":   len(req.Ratings),
	})
}

// alertIfLowScore fires a notification in a background goroutine
// (non-blocking) when a submission averages at or below the threshold.
func (h *RatingHandler) alertIfLowScore(req SubmitRatingsRequest, counter int) {
	total := 0
	for _, rating := range req.Ratings {
		total += rating.Score
	}
	mean := float64(total) / float64(len(req.Ratings))
	if mean > lowScoreAlertThreshold {
		return
	}

	go func() {
		subject := "Low food-deck rating received"
		message := fmt.Sprintf(
			"Company %s: employee #%d rated %d item(s) with a mean score of %.2f",
			req.CompanyID, counter, len(req.Ratings), mean,
		)
		if err := h.notifier.Publish(context.Background(), subject, message); err != nil {
			logrus.WithError(err).Error("failed to publish low-score alert")
		}
	}()
}
