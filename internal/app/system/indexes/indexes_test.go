// External test package: testutil imports indexes to prepare test databases.
package indexes_test

import (
	"testing"
	"time"

	"github.com/dalemusser/stratawallet/internal/app/system/indexes"
	"github.com/dalemusser/stratawallet/internal/testutil"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type indexSpec struct {
	Name               string `bson:"name"`
	Unique             *bool  `bson:"unique,omitempty"`
	ExpireAfterSeconds *int32 `bson:"expireAfterSeconds,omitempty"`
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t) // already ran EnsureAll once
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll() error = %v", err)
	}
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		collection string
		name       string
		unique     bool
		ttl        bool
	}{
		{"usuarios", "uniq_usuarios_email", true, false},
		{"logs", "uniq_logs_token", true, false},
		{"logs", "idx_logs_expires_ttl", false, true},
		{"registros", "idx_registros_user_created", false, false},
		{"audit_logs", "idx_audit_created", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, err := db.Collection(tt.collection).Indexes().List(ctx)
			if err != nil {
				t.Fatalf("list indexes: %v", err)
			}
			var specs []indexSpec
			if err := cur.All(ctx, &specs); err != nil {
				t.Fatalf("decode indexes: %v", err)
			}

			var found *indexSpec
			for i := range specs {
				if specs[i].Name == tt.name {
					found = &specs[i]
				}
			}
			if found == nil {
				t.Fatalf("index %s missing on %s", tt.name, tt.collection)
			}
			unique := found.Unique != nil && *found.Unique
			if unique != tt.unique {
				t.Errorf("unique = %v, want %v", unique, tt.unique)
			}
			if (found.ExpireAfterSeconds != nil) != tt.ttl {
				t.Errorf("ttl set = %v, want %v", found.ExpireAfterSeconds != nil, tt.ttl)
			}
			if tt.ttl && *found.ExpireAfterSeconds != 0 {
				t.Errorf("expireAfterSeconds = %d, want 0", *found.ExpireAfterSeconds)
			}
		})
	}
}

func TestEnsureAll_EmailIsUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := db.Collection("usuarios")
	doc := func() bson.M {
		return bson.M{"_id": primitive.NewObjectID(), "nome": "Ana", "email": "ana@x.com", "senha": "hash", "created_at": time.Now()}
	}
	if _, err := users.InsertOne(ctx, doc()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := users.InsertOne(ctx, doc())
	if !wafflemongo.IsDup(err) {
		t.Errorf("second insert error = %v, want duplicate key", err)
	}
}
