package documents

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dmitrijs2005/tickethub/internal/common"
	"github.com/dmitrijs2005/tickethub/internal/server/models"
)

// MongoRepository implements detail-document storage on a MongoDB collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository constructs a repository bound to the given collection.
func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

// Insert stores the document and returns the generated ObjectID in hex form.
func (r *MongoRepository) Insert(ctx context.Context, detail *models.Detail) (string, error) {
	res, err := r.collection.InsertOne(ctx, detail.Doc)
	if err != nil {
		return "", fmt.Errorf("document store: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("document store: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByIDs resolves all given IDs in a single $in query. Malformed IDs are
// skipped rather than failing the whole batch.
func (r *MongoRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Detail, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}

	result := make(map[string]*models.Detail, len(oids))
	if len(oids) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("document store: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("document store: %w", err)
		}
		if id, ok := docID(doc); ok {
			result[id] = models.NewDetail(doc)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("document store: %w", err)
	}
	return result, nil
}

// FindByID resolves a single document by its hex ID.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Detail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	var doc bson.D
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("document store: %w", err)
	}
	return models.NewDetail(doc), nil
}

// Replace performs a full overwrite of the document content.
func (r *MongoRepository) Replace(ctx context.Context, id string, detail *models.Detail) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, detail.Doc); err != nil {
		return fmt.Errorf("document store: %w", err)
	}
	return nil
}

// Delete removes a document by its hex ID.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("document store: %w", err)
	}
	return nil
}

// docID extracts the _id of a decoded document as a hex string.
func docID(doc bson.D) (string, bool) {
	for _, e := range doc {
		if e.Key != "_id" {
			continue
		}
		if oid, ok := e.Value.(primitive.ObjectID); ok {
			return oid.Hex(), true
		}
		return "", false
	}
	return "", false
}
