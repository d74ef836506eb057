// Package services – ConsultationService
//
// This file implements the ConsultationService, which owns the request
// pipeline for a single legal consultation: validate and normalize the
// request, build the instruction prompt, call the upstream chat-completion
// API once, and normalize the reply into a structured result.
//
// The service persists nothing; saving a consultation to history is a
// separate, explicit operation (see HistoryService).
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-legal-backend/internal/domain"
	"github.com/tbourn/go-legal-backend/internal/normalize"
)

const (
	// systemPrompt frames the upstream conversation.
	systemPrompt = "You are an AI legal assistant."

	// noAnswerPlaceholder is fed to the normalizer when the upstream response
	// carries no choice content.
	noAnswerPlaceholder = "No answer generated."
)

// ChatCompleter is the upstream model contract required by the
// ConsultationService. Implementations must be safe for concurrent use: many
// consultations may be in flight at once, each independent.
type ChatCompleter interface {
	// ChatComplete sends a system/user prompt pair and returns the first
	// choice's message content, or "" when the model produced no choices.
	ChatComplete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ConsultationService validates consultation requests and produces structured
// results from the upstream model.
type ConsultationService struct {
	// LLM is the upstream chat-completion client.
	LLM ChatCompleter

	// MaxQuestionRunes caps the question length (after trimming).
	MaxQuestionRunes int
}

// NewConsultationService constructs a ConsultationService with the default
// question cap.
func NewConsultationService(llm ChatCompleter) *ConsultationService {
	return &ConsultationService{
		LLM:              llm,
		MaxQuestionRunes: 2000,
	}
}

// Consult runs one consultation end to end. Validation failures are reported
// before any upstream call; upstream and configuration failures pass through
// untranslated for the handler to classify.
func (s *ConsultationService) Consult(ctx context.Context, req domain.ConsultationRequest) (domain.ConsultationResult, error) {
	tr := otel.Tracer("services/ConsultationService")
	ctx, span := tr.Start(ctx, "Consult",
		trace.WithAttributes(
			attribute.String("consult.specialization", req.Specialization),
			attribute.String("consult.jurisdiction", req.Jurisdiction),
		),
	)
	defer span.End()

	req = sanitizeRequest(req)
	if req.Message == "" {
		return domain.ConsultationResult{}, ErrEmptyQuestion
	}
	if s.MaxQuestionRunes > 0 && utf8.RuneCountInString(req.Message) > s.MaxQuestionRunes {
		return domain.ConsultationResult{}, ErrQuestionTooLong
	}

	answer, err := s.LLM.ChatComplete(ctx, systemPrompt, buildPrompt(req))
	if err != nil {
		return domain.ConsultationResult{}, err
	}
	if answer == "" {
		answer = noAnswerPlaceholder
	}

	return normalize.Normalize(answer), nil
}

// sanitizeRequest trims every string field; absent optional fields stay empty.
func sanitizeRequest(req domain.ConsultationRequest) domain.ConsultationRequest {
	req.Message = strings.TrimSpace(req.Message)
	req.Specialization = strings.TrimSpace(req.Specialization)
	req.Jurisdiction = strings.TrimSpace(req.Jurisdiction)
	req.Language = strings.TrimSpace(req.Language)
	return req
}

// buildPrompt assembles the single natural-language instruction sent upstream.
// It requests a JSON-shaped answer with the five result fields and asks for
// disclaimers when the model is not a licensed professional; the normalizer
// handles replies that ignore the shape.
func buildPrompt(req domain.ConsultationRequest) string {
	return fmt.Sprintf(`
You are an AI legal assistant. Answer the following question as a lawyer would, using clear, professional language.

Please provide your response in the following JSON format:
{
  "message": "Your main legal analysis here...",
  "legalReferences": ["Reference 1", "Reference 2"],
  "recommendations": ["Recommendation 1", "Recommendation 2"],
  "disclaimers": ["Disclaimer 1", "Disclaimer 2"],
  "followUp": ["Follow-up question 1", "Follow-up question 2"]
}

Question Details:
- Specialization: %s
- Jurisdiction: %s
- Language: %s
- Question: %s

If you are not a lawyer, include appropriate disclaimers.`,
		req.Specialization, req.Jurisdiction, req.Language, req.Message)
}
