package repository

import (
	"context"
	"time"

	"foodeck-backend/internal/database"
	"foodeck-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type RatingRepo struct {
	collection *mongo.Collection
}

func NewRatingRepo() *RatingRepo {
	return &RatingRepo{
		collection: database.GetCollection("ratings"),
	}
}

func (r *RatingRepo) CreateMany(ctx context.Context, ratings []models.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	docs := make([]interface{}, len(ratings))
	for i := range ratings {
		docs[i] = ratings[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByTimeWindow returns the company's ratings with timestamp in
// [from, to) — from inclusive, to exclusive.
func (r *RatingRepo) FindByTimeWindow(ctx context.Context, companyID string, from, to time.Time) ([]models.Rating, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{
		"company_id": companyID,
		"timestamp":  bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return nil, err
	}
	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *RatingRepo) DeleteByItem(ctx context.Context, menuID, itemID string) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"menu_id": menuID,
		"item_id": itemID,
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *RatingRepo) DeleteByMenu(ctx context.Context, menuID string) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"menu_id": menuID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *RatingRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes for the ratings collection.
func (r *RatingRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "timestamp", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "menu_id", Value: 1}, {Key: "item_id", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
