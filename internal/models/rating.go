package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Rating is one score for one menu item within one submission.
// ItemName is a snapshot of the name at submission time; renaming the
// menu item later must not retroactively rename historical ratings.
type Rating struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID    string        `bson:"company_id" json:"company_id"`
	MenuID       string        `bson:"menu_id" json:"menu_id"`
	ItemID       string        `bson:"item_id" json:"item_id"`
	ItemName     string        `bson:"item_name" json:"item_name"`
	Score        int           `bson:"score" json:"score"` // 0-5
	Timestamp    time.Time     `bson:"timestamp" json:"timestamp"`
	SubmissionID string        `bson:"submission_id" json:"submission_id"`
}
