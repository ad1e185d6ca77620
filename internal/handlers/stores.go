package handlers

import (
	"context"
	"time"

	"foodeck-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store interfaces consumed by the handlers. The concrete
// implementations live in internal/repository; tests substitute
// in-memory fakes.

type CompanyStore interface {
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Company, error)
	FindAll(ctx context.Context) ([]models.Company, error)
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (bool, error)
	Delete(ctx context.Context, id bson.ObjectID) (int64, error)
}

type MenuStore interface {
	Create(ctx context.Context, menu *models.Menu) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Menu, error)
	FindByCompanyDate(ctx context.Context, companyID, date string) (*models.Menu, error)
	FindRecent(ctx context.Context, companyID string, limit int64) ([]models.Menu, error)
	SetItems(ctx context.Context, id bson.ObjectID, items []models.MenuItem) (bool, error)
	PushItems(ctx context.Context, id bson.ObjectID, items []models.MenuItem) (bool, error)
	UpdateItem(ctx context.Context, menuID, itemID bson.ObjectID, fields bson.M) (bool, error)
	PullItem(ctx context.Context, menuID, itemID bson.ObjectID) (bool, error)
	Delete(ctx context.Context, id bson.ObjectID) (int64, error)
	DeleteByCompany(ctx context.Context, companyID string) (int64, error)
}

type SubmissionStore interface {
	Create(ctx context.Context, submission *models.Submission) error
	NextEmployeeCounter(ctx context.Context, companyID, date string) (int, error)
	CountByDateRange(ctx context.Context, companyID, startDate, endDate string) (int64, error)
	DeleteByCompany(ctx context.Context, companyID string) (int64, error)
	DeleteCountersByCompany(ctx context.Context, companyID string) (int64, error)
}

type RatingStore interface {
	CreateMany(ctx context.Context, ratings []models.Rating) error
	FindByTimeWindow(ctx context.Context, companyID string, from, to time.Time) ([]models.Rating, error)
	DeleteByItem(ctx context.Context, menuID, itemID string) (int64, error)
	DeleteByMenu(ctx context.Context, menuID string) (int64, error)
	DeleteByCompany(ctx context.Context, companyID string) (int64, error)
}
