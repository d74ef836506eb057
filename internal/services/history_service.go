// Package services – HistoryService
//
// This file implements the HistoryService, the paginated CRUD facade over the
// consultation history store. It applies field defaults on save, computes the
// pagination envelope on reads, and maps the store's "nothing deleted" result
// to a distinct not-found condition so handlers can answer 404 instead of 500.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-legal-backend/internal/domain"
)

// Field defaults applied when a save request omits the optional fields.
const (
	defaultSpecialization = "General"
	defaultJurisdiction   = "General"
	defaultLanguage       = "English"
)

// HistoryRepo defines the repository contract required by HistoryService.
// Implementations are responsible for persistence of consultation records.
type HistoryRepo interface {
	// Insert persists a new record, assigning identity and timestamp.
	Insert(ctx context.Context, rec *domain.ConsultationRecord) error

	// Count returns the total number of records owned by userID.
	Count(ctx context.Context, userID string) (int64, error)

	// ListPage returns a page of records for userID, newest first.
	ListPage(ctx context.Context, userID string, offset, limit int) ([]domain.ConsultationRecord, error)

	// Delete removes one record when both id and userID match, reporting
	// whether anything was deleted.
	Delete(ctx context.Context, id, userID string) (bool, error)

	// DeleteAll removes every record for userID and returns the count.
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

// Pagination carries the envelope returned alongside a history page.
type Pagination struct {
	CurrentPage        int   `json:"currentPage"`
	TotalPages         int   `json:"totalPages"`
	TotalConsultations int64 `json:"totalConsultations"`
	HasNextPage        bool  `json:"hasNextPage"`
	HasPrevPage        bool  `json:"hasPrevPage"`
}

// SaveConsultationInput is the payload for persisting one consultation.
type SaveConsultationInput struct {
	UserID         string
	UserEmail      string
	UserName       string
	Question       string
	Specialization string
	Jurisdiction   string
	Language       string
	Response       domain.ConsultationResult
}

// HistoryService provides the paginated CRUD operations over consultation
// history. It enforces required identity fields and ownership semantics.
type HistoryService struct {
	// Repo is the history repository used by this service.
	Repo HistoryRepo

	// DefaultPageSize is used when the caller supplies no limit.
	DefaultPageSize int
}

// NewHistoryService constructs a HistoryService with the conventional page
// size default.
func NewHistoryService(r HistoryRepo) *HistoryService {
	return &HistoryService{
		Repo:            r,
		DefaultPageSize: 10,
	}
}

// Save persists one consultation record. Specialization and jurisdiction
// default to "General" and language to "English" when not supplied. Identity
// fields and the question are required; records rejected here never reach
// the store.
func (s *HistoryService) Save(ctx context.Context, in SaveConsultationInput) error {
	in.UserID = strings.TrimSpace(in.UserID)
	in.UserEmail = strings.TrimSpace(in.UserEmail)
	in.UserName = strings.TrimSpace(in.UserName)
	in.Question = strings.TrimSpace(in.Question)

	if in.UserID == "" || in.UserEmail == "" || in.UserName == "" {
		return ErrMissingIdentity
	}
	if in.Question == "" {
		return ErrMissingQuestion
	}

	rec := &domain.ConsultationRecord{
		UserID:         in.UserID,
		UserEmail:      in.UserEmail,
		UserName:       in.UserName,
		Question:       in.Question,
		Specialization: defaultIfBlank(in.Specialization, defaultSpecialization),
		Jurisdiction:   defaultIfBlank(in.Jurisdiction, defaultJurisdiction),
		Language:       defaultIfBlank(in.Language, defaultLanguage),
		Response:       in.Response,
	}
	return s.Repo.Insert(ctx, rec)
}

// GetHistory returns one page of the user's consultations, newest first,
// together with the pagination envelope. Invalid page/limit values clamp to
// defaults rather than erroring.
func (s *HistoryService) GetHistory(ctx context.Context, userID string, page, limit int) ([]domain.ConsultationRecord, Pagination, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "GetHistory",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.DefaultPageSize
		if limit <= 0 {
			limit = 10
		}
	}
	offset := (page - 1) * limit

	total, err := s.Repo.Count(ctx, userID)
	if err != nil {
		return nil, Pagination{}, err
	}
	if total == 0 {
		return []domain.ConsultationRecord{}, Pagination{
			CurrentPage: page,
			HasPrevPage: page > 1,
		}, nil
	}

	items, err := s.Repo.ListPage(ctx, userID, offset, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return items, Pagination{
		CurrentPage:        page,
		TotalPages:         totalPages,
		TotalConsultations: total,
		HasNextPage:        int64(offset+len(items)) < total,
		HasPrevPage:        page > 1,
	}, nil
}

// DeleteConsultation removes one record owned by userID. When nothing was
// deleted (unknown id, malformed id, or a record owned by someone else) it
// returns ErrConsultationNotFound.
func (s *HistoryService) DeleteConsultation(ctx context.Context, id, userID string) error {
	deleted, err := s.Repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrConsultationNotFound
	}
	return nil
}

// ClearHistory removes every record for userID and returns the count deleted.
// Clearing an already-empty history succeeds with zero.
func (s *HistoryService) ClearHistory(ctx context.Context, userID string) (int64, error) {
	return s.Repo.DeleteAll(ctx, userID)
}

// defaultIfBlank returns def when s trims to empty.
func defaultIfBlank(s, def string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return def
}
