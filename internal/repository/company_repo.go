package repository

import (
	"context"
	"time"

	"foodeck-backend/internal/database"
	"foodeck-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type CompanyRepo struct {
	collection *mongo.Collection
}

func NewCompanyRepo() *CompanyRepo {
	return &CompanyRepo{
		collection: database.GetCollection("companies"),
	}
}

func (r *CompanyRepo) Create(ctx context.Context, company *models.Company) error {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	company.CreatedAt = time.Now().UTC()
	result, err := r.collection.InsertOne(ctx, company)
	if err != nil {
		return err
	}
	company.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *CompanyRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Company, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	var company models.Company
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepo) FindAll(ctx context.Context) ([]models.Company, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var companies []models.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// Update applies a partial field update. Returns false when no company
// matched the id.
func (r *CompanyRepo) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (bool, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *CompanyRepo) Delete(ctx context.Context, id bson.ObjectID) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
