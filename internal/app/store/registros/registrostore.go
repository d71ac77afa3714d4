// internal/app/store/registros/registrostore.go
package registrostore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratawallet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection holds per-login records ("registros").
const Collection = "registros"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts one record for token and userID. Records are never deduplicated.
func (s *Store) Create(ctx context.Context, token string, userID primitive.ObjectID) (models.Record, error) {
	rec := models.Record{
		ID:        primitive.NewObjectID(),
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// GetByID returns the record whose _id is id, or nil when there is none.
//
// The profile endpoint looks records up by the owner's user id, which
// almost never equals a record _id; a nil result is the normal outcome.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Record, error) {
	var rec models.Record
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByUser returns the records owned by userID, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"IdUsuario": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
