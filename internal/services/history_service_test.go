package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-legal-backend/internal/domain"
)

// ----- Fake repo -----

type fakeHistoryRepo struct {
	// capture args
	inserted *domain.ConsultationRecord
	insErr   error

	countUserID string
	countTotal  int64
	countErr    error

	pageUserID string
	pageOffset int
	pageLimit  int
	pageItems  []domain.ConsultationRecord
	pageErr    error

	delID      string
	delUserID  string
	delDeleted bool
	delErr     error

	clearUserID string
	clearCount  int64
	clearErr    error
}

func (r *fakeHistoryRepo) Insert(ctx context.Context, rec *domain.ConsultationRecord) error {
	r.inserted = rec
	return r.insErr
}

func (r *fakeHistoryRepo) Count(ctx context.Context, userID string) (int64, error) {
	r.countUserID = userID
	return r.countTotal, r.countErr
}

func (r *fakeHistoryRepo) ListPage(ctx context.Context, userID string, offset, limit int) ([]domain.ConsultationRecord, error) {
	r.pageUserID, r.pageOffset, r.pageLimit = userID, offset, limit
	return r.pageItems, r.pageErr
}

func (r *fakeHistoryRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	r.delID, r.delUserID = id, userID
	return r.delDeleted, r.delErr
}

func (r *fakeHistoryRepo) DeleteAll(ctx context.Context, userID string) (int64, error) {
	r.clearUserID = userID
	return r.clearCount, r.clearErr
}

func records(n int) []domain.ConsultationRecord {
	out := make([]domain.ConsultationRecord, n)
	for i := range out {
		out[i] = domain.ConsultationRecord{UserID: "u1", Question: "q"}
	}
	return out
}

// ----- Save -----

func TestSave_AppliesDefaults(t *testing.T) {
	r := &fakeHistoryRepo{}
	s := NewHistoryService(r)

	err := s.Save(context.Background(), SaveConsultationInput{
		UserID:    " u1 ",
		UserEmail: "u1@example.com",
		UserName:  "User One",
		Question:  " my question ",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec := r.inserted
	if rec == nil {
		t.Fatalf("nothing inserted")
	}
	if rec.UserID != "u1" || rec.Question != "my question" {
		t.Fatalf("fields not trimmed: %+v", rec)
	}
	if rec.Specialization != "General" || rec.Jurisdiction != "General" || rec.Language != "English" {
		t.Fatalf("defaults not applied: %+v", rec)
	}
}

func TestSave_KeepsSuppliedOptionalFields(t *testing.T) {
	r := &fakeHistoryRepo{}
	s := NewHistoryService(r)

	err := s.Save(context.Background(), SaveConsultationInput{
		UserID:         "u1",
		UserEmail:      "u1@example.com",
		UserName:       "User One",
		Question:       "q",
		Specialization: "Tax",
		Jurisdiction:   "France",
		Language:       "French",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec := r.inserted
	if rec.Specialization != "Tax" || rec.Jurisdiction != "France" || rec.Language != "French" {
		t.Fatalf("supplied values overwritten: %+v", rec)
	}
}

func TestSave_RequiredFields(t *testing.T) {
	cases := []struct {
		name string
		in   SaveConsultationInput
		want error
	}{
		{"missing user id", SaveConsultationInput{UserEmail: "e", UserName: "n", Question: "q"}, ErrMissingIdentity},
		{"missing email", SaveConsultationInput{UserID: "u", UserName: "n", Question: "q"}, ErrMissingIdentity},
		{"missing name", SaveConsultationInput{UserID: "u", UserEmail: "e", Question: "q"}, ErrMissingIdentity},
		{"missing question", SaveConsultationInput{UserID: "u", UserEmail: "e", UserName: "n"}, ErrMissingQuestion},
		{"blank question", SaveConsultationInput{UserID: "u", UserEmail: "e", UserName: "n", Question: "  "}, ErrMissingQuestion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeHistoryRepo{}
			s := NewHistoryService(r)
			if err := s.Save(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
			if r.inserted != nil {
				t.Fatalf("invalid input must not reach the store")
			}
		})
	}
}

func TestSave_RepoErrorPassesThrough(t *testing.T) {
	boom := errors.New("insert failed")
	r := &fakeHistoryRepo{insErr: boom}
	s := NewHistoryService(r)
	err := s.Save(context.Background(), SaveConsultationInput{
		UserID: "u", UserEmail: "e", UserName: "n", Question: "q",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want repo error", err)
	}
}

// ----- GetHistory -----

func TestGetHistory_PaginationEnvelope(t *testing.T) {
	// 12 records, limit 5, page 2: exactly 5 returned, 3 pages, both flags set.
	r := &fakeHistoryRepo{countTotal: 12, pageItems: records(5)}
	s := NewHistoryService(r)

	items, pg, err := s.GetHistory(context.Background(), "u1", 2, 5)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("items = %d; want 5", len(items))
	}
	if r.pageOffset != 5 || r.pageLimit != 5 {
		t.Fatalf("offset/limit = %d/%d", r.pageOffset, r.pageLimit)
	}
	if pg.CurrentPage != 2 || pg.TotalPages != 3 || pg.TotalConsultations != 12 {
		t.Fatalf("envelope = %+v", pg)
	}
	if !pg.HasNextPage || !pg.HasPrevPage {
		t.Fatalf("flags = %+v", pg)
	}
}

func TestGetHistory_LastPartialPage(t *testing.T) {
	r := &fakeHistoryRepo{countTotal: 12, pageItems: records(2)}
	s := NewHistoryService(r)

	_, pg, err := s.GetHistory(context.Background(), "u1", 3, 5)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if pg.HasNextPage {
		t.Fatalf("last page must not report next: %+v", pg)
	}
	if !pg.HasPrevPage || pg.TotalPages != 3 {
		t.Fatalf("envelope = %+v", pg)
	}
}

func TestGetHistory_EmptyHistory(t *testing.T) {
	r := &fakeHistoryRepo{countTotal: 0}
	s := NewHistoryService(r)

	items, pg, err := s.GetHistory(context.Background(), "u1", 1, 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v; want empty", items)
	}
	if pg.TotalPages != 0 || pg.HasNextPage || pg.HasPrevPage {
		t.Fatalf("envelope = %+v", pg)
	}
	if r.pageUserID != "" {
		t.Fatalf("ListPage should be skipped when total is zero")
	}
}

func TestGetHistory_ClampsPageAndLimit(t *testing.T) {
	r := &fakeHistoryRepo{countTotal: 3, pageItems: records(3)}
	s := NewHistoryService(r)

	_, pg, err := s.GetHistory(context.Background(), "u1", 0, -1)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if pg.CurrentPage != 1 {
		t.Fatalf("page not clamped: %+v", pg)
	}
	if r.pageLimit != 10 {
		t.Fatalf("limit = %d; want default 10", r.pageLimit)
	}
}

func TestGetHistory_CountError(t *testing.T) {
	boom := errors.New("count failed")
	r := &fakeHistoryRepo{countErr: boom}
	s := NewHistoryService(r)
	if _, _, err := s.GetHistory(context.Background(), "u1", 1, 10); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

// ----- DeleteConsultation / ClearHistory -----

func TestDeleteConsultation_Success(t *testing.T) {
	r := &fakeHistoryRepo{delDeleted: true}
	s := NewHistoryService(r)
	if err := s.DeleteConsultation(context.Background(), "abc", "u1"); err != nil {
		t.Fatalf("DeleteConsultation: %v", err)
	}
	if r.delID != "abc" || r.delUserID != "u1" {
		t.Fatalf("repo called with %q/%q", r.delID, r.delUserID)
	}
}

func TestDeleteConsultation_NotDeletedIsNotFound(t *testing.T) {
	// Covers both an unknown id and a record owned by another user: the repo
	// reports "nothing deleted" for either and the service answers not-found.
	r := &fakeHistoryRepo{delDeleted: false}
	s := NewHistoryService(r)
	err := s.DeleteConsultation(context.Background(), "abc", "attacker")
	if !errors.Is(err, ErrConsultationNotFound) {
		t.Fatalf("err = %v; want ErrConsultationNotFound", err)
	}
}

func TestDeleteConsultation_RepoError(t *testing.T) {
	boom := errors.New("delete failed")
	r := &fakeHistoryRepo{delErr: boom}
	s := NewHistoryService(r)
	if err := s.DeleteConsultation(context.Background(), "abc", "u1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestClearHistory_ReportsCountAndIsIdempotent(t *testing.T) {
	r := &fakeHistoryRepo{clearCount: 7}
	s := NewHistoryService(r)

	n, err := s.ClearHistory(context.Background(), "u1")
	if err != nil || n != 7 {
		t.Fatalf("ClearHistory = %d, %v", n, err)
	}

	// Second clear: nothing left, still success.
	r.clearCount = 0
	n, err = s.ClearHistory(context.Background(), "u1")
	if err != nil || n != 0 {
		t.Fatalf("second ClearHistory = %d, %v; want 0, nil", n, err)
	}
}
