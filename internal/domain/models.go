// Package domain defines the persistence and transport models for legal
// consultations. Records are stored in MongoDB and returned verbatim over the
// JSON API, so both bson and json tags are maintained here.
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConsultationResult is the structured answer produced for a single legal
// question. It is created exactly once per consultation (either parsed from
// the model reply or synthesized as a fallback) and never mutated afterwards.
//
// All list fields are ordered; the normalizer preserves whatever the model
// returned without validating individual entries.
type ConsultationResult struct {
	Message         string   `json:"message"          bson:"message"`
	LegalReferences []string `json:"legalReferences"  bson:"legalReferences"`
	Recommendations []string `json:"recommendations"  bson:"recommendations"`
	Disclaimers     []string `json:"disclaimers"      bson:"disclaimers"`
	FollowUp        []string `json:"followUp"         bson:"followUp"`
}

// ConsultationRecord is one persisted consultation, owned by exactly one user.
// Records are write-once: they are inserted on save, read via paginated
// queries filtered by UserID, and deleted individually or in bulk. There is
// no update path.
//
// The ID is a MongoDB ObjectID assigned at insert time. Specialization,
// Jurisdiction, and Language are defaulted by the history service before the
// record reaches the store.
type ConsultationRecord struct {
	ID             primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	UserID         string             `json:"userId"         bson:"userId"`
	UserEmail      string             `json:"userEmail"      bson:"userEmail"`
	UserName       string             `json:"userName"       bson:"userName"`
	Question       string             `json:"question"       bson:"question"`
	Specialization string             `json:"specialization" bson:"specialization"`
	Jurisdiction   string             `json:"jurisdiction"   bson:"jurisdiction"`
	Language       string             `json:"language"       bson:"language"`
	Response       ConsultationResult `json:"response"       bson:"response"`
	Timestamp      time.Time          `json:"timestamp"      bson:"timestamp"`
}

// CollectionName returns the MongoDB collection for consultation records.
func (ConsultationRecord) CollectionName() string { return "consultationhistories" }

// ConsultationRequest is the inbound payload for a consultation. Message is
// required; the optional fields normalize to empty strings when absent.
type ConsultationRequest struct {
	Message        string `json:"message"`
	Specialization string `json:"specialization"`
	Jurisdiction   string `json:"jurisdiction"`
	Language       string `json:"language"`
}
