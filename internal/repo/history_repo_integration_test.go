//go:build integration

// These tests run against a real MongoDB, opted in via the integration build
// tag and MONGODB_URI:
//
//	MONGODB_URI=mongodb://localhost:27017 go test -tags integration ./internal/repo/
//
// They cover what the unit tests cannot: the list sort order actually applied
// by the server and the ownership filter on deletes. Each test works in a
// dropped-on-cleanup database so reruns start clean.
package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tbourn/go-legal-backend/internal/config"
	"github.com/tbourn/go-legal-backend/internal/domain"
)

func integrationColl(t *testing.T) *mongo.Collection {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := Connect(ctx, config.MongoConfig{URI: uri, Database: "legalmind_repotest"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	coll := ConsultationCollection(db)
	if err := EnsureIndexes(ctx, coll); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return coll
}

func insertQuestion(t *testing.T, coll *mongo.Collection, userID, question string, ts time.Time) *domain.ConsultationRecord {
	t.Helper()
	rec := &domain.ConsultationRecord{
		UserID:    userID,
		UserEmail: userID + "@example.com",
		UserName:  "Integration User",
		Question:  question,
		Timestamp: ts,
	}
	if err := InsertConsultation(context.Background(), coll, rec); err != nil {
		t.Fatalf("insert %q: %v", question, err)
	}
	return rec
}

func TestListOrdering_AgainstServer(t *testing.T) {
	coll := integrationColl(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	insertQuestion(t, coll, "u1", "first", base)
	insertQuestion(t, coll, "u1", "second-same-instant", base)
	insertQuestion(t, coll, "u1", "third-later", base.Add(time.Hour))
	insertQuestion(t, coll, "u2", "other-user", base.Add(2*time.Hour))

	items, err := ListConsultationsPage(ctx, coll, "u1", 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"third-later", "second-same-instant", "first"}
	if len(items) != len(want) {
		t.Fatalf("got %d records, want %d", len(items), len(want))
	}
	for i, q := range want {
		if items[i].Question != q {
			t.Errorf("position %d: got %q, want %q", i, items[i].Question, q)
		}
	}
}

func TestListPagination_AgainstServer(t *testing.T) {
	coll := integrationColl(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		insertQuestion(t, coll, "u1", "q", base.Add(time.Duration(i)*time.Minute))
	}

	total, err := CountConsultations(ctx, coll, "u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 7 {
		t.Fatalf("count = %d, want 7", total)
	}

	page2, err := ListConsultationsPage(ctx, coll, "u1", 5, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("second page has %d records, want 2", len(page2))
	}
}

func TestDeleteOwnership_AgainstServer(t *testing.T) {
	coll := integrationColl(t)
	ctx := context.Background()

	rec := insertQuestion(t, coll, "u1", "owned", time.Time{})

	// The double-key filter must keep another user from deleting it.
	deleted, err := DeleteConsultation(ctx, coll, rec.ID.Hex(), "intruder")
	if err != nil {
		t.Fatalf("delete as intruder: %v", err)
	}
	if deleted {
		t.Fatal("record deleted by non-owner")
	}
	if n, _ := CountConsultations(ctx, coll, "u1"); n != 1 {
		t.Fatalf("record missing after foreign delete attempt, count = %d", n)
	}

	deleted, err = DeleteConsultation(ctx, coll, rec.ID.Hex(), "u1")
	if err != nil {
		t.Fatalf("delete as owner: %v", err)
	}
	if !deleted {
		t.Fatal("owner delete reported nothing deleted")
	}
}

func TestDeleteAll_AgainstServer(t *testing.T) {
	coll := integrationColl(t)
	ctx := context.Background()

	insertQuestion(t, coll, "u1", "a", time.Time{})
	insertQuestion(t, coll, "u1", "b", time.Time{})
	insertQuestion(t, coll, "u2", "keep", time.Time{})

	n, err := DeleteAllConsultations(ctx, coll, "u1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 2 {
		t.Fatalf("cleared %d, want 2", n)
	}

	// Idempotent on an already-empty history.
	n, err = DeleteAllConsultations(ctx, coll, "u1")
	if err != nil || n != 0 {
		t.Fatalf("second clear: n=%d err=%v", n, err)
	}

	if kept, _ := CountConsultations(ctx, coll, "u2"); kept != 1 {
		t.Fatalf("other user's record lost, count = %d", kept)
	}
}
