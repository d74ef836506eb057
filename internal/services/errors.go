// Package services defines the business logic for consultations and history.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

// Consultation validation errors. These are detected before any upstream call
// is made, so a rejected request has no side effects.
var (
	// ErrEmptyQuestion is returned when the consultation message is missing,
	// blank, or whitespace-only.
	ErrEmptyQuestion = errors.New("legal question is required and must be a non-empty string")

	// ErrQuestionTooLong is returned when the consultation message exceeds
	// the configured length cap.
	ErrQuestionTooLong = errors.New("legal question exceeds the maximum allowed length")
)

// History errors.
var (
	// ErrMissingIdentity is returned when a save request lacks the required
	// user identity fields.
	ErrMissingIdentity = errors.New("userId, userEmail, and userName are required")

	// ErrMissingQuestion is returned when a save request lacks the question.
	ErrMissingQuestion = errors.New("question is required")

	// ErrConsultationNotFound indicates that a delete target does not exist
	// or is not owned by the caller. Both cases look identical on purpose.
	ErrConsultationNotFound = errors.New("consultation not found")
)
