// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the wallet collections (if missing) and attaches
// JSON-Schema validators. Servers without collMod support are skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("usuarios", usersSchema())
	ensure("logs", loginLogsSchema())
	ensure("registros", recordsSchema())
	ensure("audit_logs", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	if exists, err := collectionExists(ctx, db, name); err == nil && exists {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if hasCode(err, 48) || strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

func hasCode(err error, code int32) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == code
}

// isUnsupported matches "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	if hasCode(err, 59) || hasCode(err, 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") ||
		strings.Contains(s, "not implemented") ||
		strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"nome", "email", "senha"},
			"properties": bson.M{
				"nome":  bson.M{"bsonType": "string", "minLength": 1},
				"email": bson.M{"bsonType": "string", "minLength": 3},
				"senha": bson.M{"bsonType": "string"},
			},
		},
	}
}

func loginLogsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"token", "IdUsuario", "dia", "expires_at"},
			"properties": bson.M{
				"token":      bson.M{"bsonType": "string", "minLength": 1},
				"IdUsuario":  bson.M{"bsonType": "objectId"},
				"dia":        bson.M{"bsonType": "string", "pattern": "^[0-9]{2}/[0-9]{2}$"},
				"expires_at": bson.M{"bsonType": "date"},
				"revoked_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func recordsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"token", "IdUsuario"},
			"properties": bson.M{
				"token":     bson.M{"bsonType": "string"},
				"IdUsuario": bson.M{"bsonType": "objectId"},
			},
		},
	}
}
