// Package repo implements the data persistence layer for consultation
// records, backed by MongoDB. This file provides repository functions over
// the consultation history collection.
//
// All functions are context-aware and accept a *mongo.Collection handle.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Every read and delete is filtered by
// userId in addition to any record identity, so a record is only ever visible
// to its owner.
//
// Error semantics:
//   - A malformed record identity (not a valid ObjectID hex) is reported as
//     not-found (false, nil), never as a server error.
//   - On driver errors (connectivity, server-side failures), the raw error is
//     propagated for the service layer to translate.
package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tbourn/go-legal-backend/internal/domain"
)

// InsertConsultation persists a new consultation record. A zero ID gets a
// fresh ObjectID and a zero Timestamp gets the current UTC time, so callers
// may leave both unset. The record is written exactly once and never updated.
func InsertConsultation(ctx context.Context, coll *mongo.Collection, rec *domain.ConsultationRecord) error {
	applyInsertDefaults(rec, time.Now().UTC())
	_, err := coll.InsertOne(ctx, rec)
	return err
}

// applyInsertDefaults assigns the server-generated identity and write
// timestamp when the caller has not set them.
func applyInsertDefaults(rec *domain.ConsultationRecord, now time.Time) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
}

// CountConsultations returns the total number of records owned by userID.
func CountConsultations(ctx context.Context, coll *mongo.Collection, userID string) (int64, error) {
	return coll.CountDocuments(ctx, bson.M{"userId": userID})
}

// ListConsultationsPage returns a page of records for userID ordered by
// timestamp descending, with _id descending as a tiebreak so equal timestamps
// keep insertion order. The caller computes offset and limit.
func ListConsultationsPage(ctx context.Context, coll *mongo.Collection, userID string, offset, limit int) ([]domain.ConsultationRecord, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "timestamp", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []domain.ConsultationRecord{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteConsultation removes the record identified by id, but only when it is
// owned by userID. It reports whether a record was actually deleted. The
// double-key filter is the authorization gate: a caller cannot delete another
// user's record even with a leaked identity.
func DeleteConsultation(ctx context.Context, coll *mongo.Collection, id, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Wrong identity format can never match a record.
		return false, nil
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteAllConsultations removes every record owned by userID and returns the
// number deleted. Deleting an empty history is not an error.
func DeleteAllConsultations(ctx context.Context, coll *mongo.Collection, userID string) (int64, error) {
	res, err := coll.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
