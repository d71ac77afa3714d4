// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / IdUsuario: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Email: The address users type to log in (stored lowercase, unique)

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a wallet account holder.
//
// Field names in bson match the documents written by the first version of
// the wallet API, so existing databases keep working.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name         string             `bson:"nome" json:"nome"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"senha" json:"-"` // bcrypt hash (never in JSON)

	CreatedAt time.Time `bson:"created_at,omitempty" json:"-"`
}

// Profile is the public view of a user returned by the profile endpoint.
// It deliberately carries neither the id nor the password hash.
type Profile struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// Profile returns the public view of u.
func (u User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email}
}
