// Consultation HTTP handler.
//
// This file exposes the consultation endpoint:
//   - POST /legal-consult
//
// The handler is transport-thin: it validates the JSON body, calls the
// consultation service, and translates service errors into the uniform
// envelope. Validation failures are reported before any upstream call is
// made; upstream failures pass the upstream error body through for
// diagnosability.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-legal-backend/internal/domain"
	"github.com/tbourn/go-legal-backend/internal/http/middleware"
	"github.com/tbourn/go-legal-backend/internal/llm"
	"github.com/tbourn/go-legal-backend/internal/services"
)

// ConsultService defines the consultation operation consumed by HTTP
// handlers. Implementations must be safe for concurrent use; many
// consultations can be in flight at once.
type ConsultService interface {
	// Consult validates the request, calls the upstream model once, and
	// returns the normalized result.
	Consult(ctx context.Context, req domain.ConsultationRequest) (domain.ConsultationResult, error)
}

// ConsultResponse is the success envelope for POST /legal-consult.
type ConsultResponse struct {
	Status string        `json:"status" example:"success"`
	Result ConsultResult `json:"result"`
}

// ConsultResult nests the structured response under "result.response".
type ConsultResult struct {
	Response domain.ConsultationResult `json:"response"`
}

// LegalConsult godoc
// @ID          legalConsult
// @Summary     Run a legal consultation
// @Description Sends the question to the upstream model and returns a structured analysis.
// @Tags        Consultation
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.ConsultationRequest  true  "Consultation payload"
//
// @Success     200  {object}  handlers.ConsultResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     500  {object}  handlers.ErrorResponse  "Configuration or upstream failure"
// @Router      /legal-consult [post]
func (h *Handlers) LegalConsult(c *gin.Context) {
	var req domain.ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	res, err := h.consultSvc.Consult(c.Request.Context(), req)
	if err != nil {
		h.consultError(c, err)
		return
	}

	ok(c, http.StatusOK, ConsultResponse{
		Status: "success",
		Result: ConsultResult{Response: res},
	})
}

// consultError maps service errors onto status codes: validation errors are
// 400, a missing credential is a generic 500 (detail stays in the logs), and
// upstream failures are 500 with the upstream body passed through.
func (h *Handlers) consultError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyQuestion), errors.Is(err, services.ErrQuestionTooLong):
		fail(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, llm.ErrMissingAPIKey):
		middleware.LoggerFrom(c).Error().Err(err).Msg("upstream credential missing")
		fail(c, http.StatusInternalServerError, "API configuration error")

	default:
		var se *llm.StatusError
		if errors.As(err, &se) {
			failDetail(c, http.StatusInternalServerError, "Failed to get response from OpenRouter", se.Body)
			return
		}
		failDetail(c, http.StatusInternalServerError, "Failed to get response from OpenRouter", err.Error())
	}
}

// bindErrorMessage turns a JSON binding error into a constraint description.
// Type mismatches name the offending field; anything else is a generic
// malformed-body message.
func bindErrorMessage(err error) string {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return fmt.Sprintf("%s must be a string", ute.Field)
	}
	return "request body must be valid JSON"
}
