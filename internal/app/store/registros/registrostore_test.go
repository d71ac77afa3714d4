package registrostore

import (
	"testing"

	"github.com/dalemusser/stratawallet/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	rec, err := store.Create(ctx, "tok-1", userID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID.IsZero() || rec.CreatedAt.IsZero() {
		t.Errorf("Create() = %+v, want ID and CreatedAt set", rec)
	}

	// Same token again is stored as a second record.
	if _, err := store.Create(ctx, "tok-1", userID); err != nil {
		t.Fatalf("second Create() error = %v", err)
	}

	recs, err := store.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("ListByUser() returned %d records, want 2", len(recs))
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	rec, err := store.Create(ctx, "tok-1", userID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil || got.Token != "tok-1" || got.UserID != userID {
		t.Errorf("GetByID() = %+v", got)
	}

	// Looking up by the owner's id finds nothing.
	got, err = store.GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID(userID) error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByID(userID) = %+v, want nil", got)
	}
}
