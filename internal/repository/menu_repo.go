package repository

import (
	"context"
	"time"

	"foodeck-backend/internal/database"
	"foodeck-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MenuRepo struct {
	collection *mongo.Collection
}

func NewMenuRepo() *MenuRepo {
	return &MenuRepo{
		collection: database.GetCollection("menus"),
	}
}

func (r *MenuRepo) Create(ctx context.Context, menu *models.Menu) error {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	menu.CreatedAt = time.Now().UTC()
	result, err := r.collection.InsertOne(ctx, menu)
	if err != nil {
		return err
	}
	menu.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *MenuRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Menu, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	var menu models.Menu
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&menu)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &menu, nil
}

func (r *MenuRepo) FindByCompanyDate(ctx context.Context, companyID, date string) (*models.Menu, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	var menu models.Menu
	err := r.collection.FindOne(ctx, bson.M{"company_id": companyID, "date": date}).Decode(&menu)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &menu, nil
}

func (r *MenuRepo) FindRecent(ctx context.Context, companyID string, limit int64) ([]models.Menu, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"company_id": companyID}, opts)
	if err != nil {
		return nil, err
	}
	var menus []models.Menu
	if err := cursor.All(ctx, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// SetItems overwrites the whole item list (the replace=true merge path).
func (r *MenuRepo) SetItems(ctx context.Context, id bson.ObjectID, items []models.MenuItem) (bool, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"items":      items,
			"created_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// PushItems appends items to the existing ordered sequence, leaving
// previously assigned item ids untouched.
func (r *MenuRepo) PushItems(ctx context.Context, id bson.ObjectID, items []models.MenuItem) (bool, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"items": bson.M{"$each": items}},
	})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// UpdateItem patches fields of one item inside the menu's item array.
// Returns false when no (menu, item) pair matched.
func (r *MenuRepo) UpdateItem(ctx context.Context, menuID, itemID bson.ObjectID, fields bson.M) (bool, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	set := bson.M{}
	for key, value := range fields {
		set["items.$."+key] = value
	}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": menuID, "items._id": itemID},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// PullItem removes one item from the menu's item array. A menu match
// with zero pulls is still a success.
func (r *MenuRepo) PullItem(ctx context.Context, menuID, itemID bson.ObjectID) (bool, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": menuID}, bson.M{
		"$pull": bson.M{"items": bson.M{"_id": itemID}},
	})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MenuRepo) Delete(ctx context.Context, id bson.ObjectID) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *MenuRepo) DeleteByCompany(ctx context.Context, companyID string) (int64, error) {
	ctx, cancel := database.OpContext(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes for the menus collection.
// The unique (company_id, date) index backs the one-menu-per-day
// invariant; concurrent first-creates surface as duplicate-key errors
// that callers resolve by re-reading and merging.
func (r *MenuRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
