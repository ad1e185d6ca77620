package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Company types: "static" companies keep one standing menu, "cafeteria"
// companies publish a fresh menu every day.
const (
	CompanyTypeStatic    = "static"
	CompanyTypeCafeteria = "cafeteria"
)

type Company struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Type      string        `bson:"type" json:"type"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

func ValidCompanyType(t string) bool {
	return t == CompanyTypeStatic || t == CompanyTypeCafeteria
}
