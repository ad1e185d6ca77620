package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Submission records one kiosk rating session. EmployeeCounter is the
// 1-based sequential number handed to that employee for the day; it is
// allocated atomically and never reused, even after deletions.
type Submission struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID       string        `bson:"company_id" json:"company_id"`
	Date            string        `bson:"date" json:"date"` // YYYY-MM-DD
	EmployeeCounter int           `bson:"employee_counter" json:"employee_counter"`
	Timestamp       time.Time     `bson:"timestamp" json:"timestamp"`
	RatingsCount    int           `bson:"ratings_count" json:"ratings_count"`
}
