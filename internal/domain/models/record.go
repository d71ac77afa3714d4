// internal/domain/models/record.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is a per-login financial-record placeholder ("registros").
// Its schema beyond the token and owner is not defined yet.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Token     string             `bson:"token" json:"token"`
	UserID    primitive.ObjectID `bson:"IdUsuario" json:"IdUsuario"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"-"`
}
