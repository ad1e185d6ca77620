package repository

import (
	"context"

	"foodeck-backend/internal/database"
	"foodeck-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type SubmissionRepo struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewSubmissionRepo() *SubmissionRepo {
	return &SubmissionRepo{
		collection: database.GetCollection("submissions"),
		counters:   database.GetCollection("counters"),
	}
}

func (r *SubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, submission)
	if err != nil {
		return err
	}
	submission.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// NextEmployeeCounter allocates the next per-(company, date) counter
// with an atomic find-and-increment on a dedicated counter document.
// Two concurrent submissions can never receive the same number. The
// counter document is only ever incremented, so numbers are not reused
// even after submissions are deleted.
func (r *SubmissionRepo) NextEmployeeCounter(ctx context.Context, companyID, date string) (int, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"company_id": companyID, "date": date},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// CountByDateRange counts submissions whose calendar date falls in
// [startDate, endDate], both endpoints inclusive.
func (r *SubmissionRepo) CountByDateRange(ctx context.Context, companyID, startDate, endDate string) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{
		"company_id": companyID,
		"date":       bson.M{"$gte": startDate, "$lte": endDate},
	})
}

func (r *SubmissionRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteCountersByCompany drops the company's counter documents. Only
// the company cascade calls this; per-day counters otherwise live
// forever so employee numbers stay strictly increasing.
func (r *SubmissionRepo) DeleteCountersByCompany(ctx context.Context, companyID string) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.counters.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes for the submissions and
// counters collections.
func (r *SubmissionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = r.counters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
