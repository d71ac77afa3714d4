// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratawallet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection holds one entry per successful login ("logs").
const Collection = "logs"

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 24 * time.Hour

type Store struct {
	c   *mongo.Collection
	ttl time.Duration
}

// New returns a store whose entries expire ttl after creation.
func New(db *mongo.Database, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{c: db.Collection(Collection), ttl: ttl}
}

// Create records a login for userID under token and returns the stored entry.
func (s *Store) Create(ctx context.Context, token string, userID primitive.ObjectID) (models.LoginLog, error) {
	l := models.LoginLog{Token: token, UserID: userID}
	if err := s.Insert(ctx, &l); err != nil {
		return models.LoginLog{}, err
	}
	return l, nil
}

// Insert stores l, filling ID, CreatedAt, Day and ExpiresAt when unset.
// Day uses the server's local calendar day.
func (s *Store) Insert(ctx context.Context, l *models.LoginLog) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if l.Day == "" {
		l.Day = l.CreatedAt.Local().Format(models.DayMonthLayout)
	}
	if l.ExpiresAt.IsZero() {
		l.ExpiresAt = l.CreatedAt.Add(s.ttl)
	}
	_, err := s.c.InsertOne(ctx, l)
	return err
}

// GetActiveByToken resolves a bearer token to its login entry.
// Expired and revoked entries are treated as missing (mongo.ErrNoDocuments).
func (s *Store) GetActiveByToken(ctx context.Context, token string) (*models.LoginLog, error) {
	var l models.LoginLog
	err := s.c.FindOne(ctx, bson.M{
		"token":      token,
		"revoked_at": bson.M{"$exists": false},
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Revoke marks the entry for token as revoked. Returns mongo.ErrNoDocuments
// when no unrevoked entry exists for token.
func (s *Store) Revoke(ctx context.Context, token string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"token": token, "revoked_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"revoked_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountByUser returns how many login entries exist for userID.
func (s *Store) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"IdUsuario": userID})
}
