package handlers

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"time"

	"foodeck-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	errBadPeriod    = errors.New("period must be daily, weekly or monthly")
	errBadStartDate = errors.New("invalid start_date, expected YYYY-MM-DD")
	errBadEndDate   = errors.New("invalid end_date, expected YYYY-MM-DD")
)

type AnalyticsHandler struct {
	submissions SubmissionStore
	ratings     RatingStore
}

func NewAnalyticsHandler(submissions SubmissionStore, ratings RatingStore) *AnalyticsHandler {
	return &AnalyticsHandler{
		submissions: submissions,
		ratings:     ratings,
	}
}

type ItemRating struct {
	ItemName      string  `json:"item_name"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

type AnalyticsResponse struct {
	CompanyID        string       `json:"company_id"`
	DateRange        string       `json:"date_range"`
	TotalSubmissions int64        `json:"total_submissions"`
	AverageRating    float64      `json:"average_rating"`
	ItemRatings      []ItemRating `json:"item_ratings"`
	BestDish         *ItemRating  `json:"best_dish"`
	WorstDish        *ItemRating  `json:"worst_dish"`
}

// --- GET /api/analytics/{companyID}?start_date&end_date&period ---

func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, err := bson.ObjectIDFromHex(chi.URLParam(r, "companyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company ID")
		return
	}

	startDate, endDate, err := resolveDateRange(
		r.URL.Query().Get("start_date"),
		r.URL.Query().Get("end_date"),
		r.URL.Query().Get("period"),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Submissions are counted by calendar-date string, both endpoints
	// inclusive. Ratings are selected by timestamp over the half-open
	// window [start 00:00, end+1d 00:00) so the end date keeps its
	// full 24 hours.
	totalSubmissions, err := h.submissions.CountByDateRange(r.Context(), companyID.Hex(), startDate, endDate)
	if err != nil {
		logrus.WithError(err).Error("failed to count submissions")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	from, _ := time.ParseInLocation(dateLayout, startDate, time.UTC)
	endDay, _ := time.ParseInLocation(dateLayout, endDate, time.UTC)
	to := endDay.AddDate(0, 0, 1)

	ratings, err := h.ratings.FindByTimeWindow(r.Context(), companyID.Hex(), from, to)
	if err != nil {
		logrus.WithError(err).Error("failed to load ratings")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := AnalyticsResponse{
		CompanyID:        companyID.Hex(),
		DateRange:        startDate + " to " + endDate,
		TotalSubmissions: totalSubmissions,
		ItemRatings:      []ItemRating{},
	}
	resp.AverageRating, resp.ItemRatings = aggregateRatings(ratings)
	if len(resp.ItemRatings) > 0 {
		resp.BestDish = &resp.ItemRatings[0]
		resp.WorstDish = &resp.ItemRatings[len(resp.ItemRatings)-1]
	}

	writeJSON(w, http.StatusOK, resp)
}

// resolveDateRange fills in the defaults: end defaults to today (UTC),
// start defaults to end minus the period's span (daily 0, weekly 7,
// monthly 30 days).
func resolveDateRange(startDate, endDate, period string) (string, string, error) {
	if period == "" {
		period = "daily"
	}

	var span int
	switch period {
	case "daily":
		span = 0
	case "weekly":
		span = 7
	case "monthly":
		span = 30
	default:
		return "", "", errBadPeriod
	}

	if endDate == "" {
		endDate = utcToday()
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return "", "", errBadEndDate
	}

	if startDate == "" {
		startDate = end.AddDate(0, 0, -span).Format(dateLayout)
	} else if _, err := time.ParseInLocation(dateLayout, startDate, time.UTC); err != nil {
		return "", "", errBadStartDate
	}

	return startDate, endDate, nil
}

// aggregateRatings computes the overall mean plus per-item groups,
// keyed by item name: two items sharing a name merge into one group.
// Groups are sorted by average descending; equal averages fall back to
// item name ascending so the ordering is stable across store iteration
// order.
func aggregateRatings(ratings []models.Rating) (float64, []ItemRating) {
	if len(ratings) == 0 {
		return 0, []ItemRating{}
	}

	type itemStats struct {
		total int
		count int
	}
	stats := make(map[string]*itemStats)
	var order []string
	total := 0

	for _, rating := range ratings {
		total += rating.Score
		s, ok := stats[rating.ItemName]
		if !ok {
			s = &itemStats{}
			stats[rating.ItemName] = s
			order = append(order, rating.ItemName)
		}
		s.total += rating.Score
		s.count++
	}

	items := make([]ItemRating, 0, len(order))
	for _, name := range order {
		s := stats[name]
		items = append(items, ItemRating{
			ItemName:      name,
			AverageRating: round2(float64(s.total) / float64(s.count)),
			TotalRatings:  s.count,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AverageRating != items[j].AverageRating {
			return items[i].AverageRating > items[j].AverageRating
		}
		return items[i].ItemName < items[j].ItemName
	})

	return round2(float64(total) / float64(len(ratings))), items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
