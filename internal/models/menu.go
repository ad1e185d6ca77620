package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MenuItem lives nested inside its Menu document. Item ids are assigned
// once at insert time and stay stable across appends and field updates.
type MenuItem struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
}

// Menu holds one company's offering for one calendar day. At most one
// menu exists per (company_id, date); a unique index enforces this.
type Menu struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyID string        `bson:"company_id" json:"company_id"`
	Date      string        `bson:"date" json:"date"` // YYYY-MM-DD
	Items     []MenuItem    `bson:"items" json:"items"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
