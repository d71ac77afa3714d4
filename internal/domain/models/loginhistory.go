// internal/domain/models/loginhistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayMonthLayout formats the Day field of a LoginLog ("17/10").
const DayMonthLayout = "02/01"

// LoginLog captures a single successful login and doubles as the active
// session table: bearer tokens are resolved back to users through it.
//
// An entry authenticates requests while ExpiresAt is in the future and
// RevokedAt is unset.
type LoginLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"`
	UserID    primitive.ObjectID `bson:"IdUsuario"`
	Day       string             `bson:"dia"`
	CreatedAt time.Time          `bson:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at"`
	RevokedAt *time.Time         `bson:"revoked_at,omitempty"`
}

// Active reports whether the entry still authenticates requests at now.
func (l LoginLog) Active(now time.Time) bool {
	return l.RevokedAt == nil && now.Before(l.ExpiresAt)
}
