// Consultation history HTTP handlers.
//
// This file exposes the profile history endpoints:
//   - POST   /api/profile/save-consultation
//   - GET    /api/profile/history/:userId
//   - DELETE /api/profile/history/:consultationId?userId=
//   - DELETE /api/profile/history/clear/:userId
//
// Handlers are transport-thin: parameter parsing and envelope shaping live
// here, ownership and defaulting rules live in the history service.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-legal-backend/internal/domain"
	"github.com/tbourn/go-legal-backend/internal/http/middleware"
	"github.com/tbourn/go-legal-backend/internal/services"
	"github.com/tbourn/go-legal-backend/internal/utils"
)

// HistoryService defines the history operations consumed by HTTP handlers.
type HistoryService interface {
	// Save persists one consultation record, applying field defaults.
	Save(ctx context.Context, in services.SaveConsultationInput) error
	// GetHistory returns one page of records plus the pagination envelope.
	GetHistory(ctx context.Context, userID string, page, limit int) ([]domain.ConsultationRecord, services.Pagination, error)
	// DeleteConsultation removes one record owned by userID.
	DeleteConsultation(ctx context.Context, id, userID string) error
	// ClearHistory removes every record for userID, returning the count.
	ClearHistory(ctx context.Context, userID string) (int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for consultations and history. It
// depends on abstract service interfaces to keep transport concerns separate
// from business logic.
type Handlers struct {
	consultSvc ConsultService
	historySvc HistoryService
}

// New constructs a Handlers instance bound to the given services.
func New(consultSvc ConsultService, historySvc HistoryService) *Handlers {
	return &Handlers{consultSvc: consultSvc, historySvc: historySvc}
}

//
// DTOs
//

// SaveConsultationRequest is the JSON payload for saving a consultation.
type SaveConsultationRequest struct {
	UserID         string                    `json:"userId" example:"auth0|123"`
	UserEmail      string                    `json:"userEmail" example:"user@example.com"`
	UserName       string                    `json:"userName" example:"Jane Doe"`
	Question       string                    `json:"question" example:"Can my landlord raise rent mid-lease?"`
	Specialization string                    `json:"specialization" example:"Real Estate"`
	Jurisdiction   string                    `json:"jurisdiction" example:"Germany"`
	Language       string                    `json:"language" example:"English"`
	Response       domain.ConsultationResult `json:"response"`
}

// StatusMessageResponse is the generic success envelope with a message.
type StatusMessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Consultation saved to history"`
}

// HistoryResponse wraps a page of consultations and pagination information.
type HistoryResponse struct {
	Status string      `json:"status" example:"success"`
	Data   HistoryData `json:"data"`
}

// HistoryData carries the history page payload.
type HistoryData struct {
	Consultations []domain.ConsultationRecord `json:"consultations"`
	Pagination    services.Pagination         `json:"pagination"`
}

//
// Handlers
//

// SaveConsultation godoc
// @ID          saveConsultation
// @Summary     Save a consultation to history
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SaveConsultationRequest  true  "Consultation record"
//
// @Success     200  {object}  handlers.StatusMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed body"
// @Failure     500  {object}  handlers.ErrorResponse  "Persistence failure"
// @Router      /api/profile/save-consultation [post]
func (h *Handlers) SaveConsultation(c *gin.Context) {
	var req SaveConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	err := h.historySvc.Save(c.Request.Context(), services.SaveConsultationInput{
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
		UserName:       req.UserName,
		Question:       req.Question,
		Specialization: req.Specialization,
		Jurisdiction:   req.Jurisdiction,
		Language:       req.Language,
		Response:       req.Response,
	})
	if err != nil {
		// Missing required fields and store failures both surface as a
		// persistence failure, matching the write-once schema contract.
		middleware.LoggerFrom(c).Error().Err(err).Msg("save consultation failed")
		fail(c, http.StatusInternalServerError, "Failed to save consultation")
		return
	}

	ok(c, http.StatusOK, StatusMessageResponse{
		Status:  "success",
		Message: "Consultation saved to history",
	})
}

// GetHistory godoc
// @ID          getHistory
// @Summary     Get consultation history (paginated)
// @Tags        History
// @Produce     json
//
// @Param       userId  path   string  true   "User ID"
// @Param       page    query  int     false  "Page number"      minimum(1) default(1)
// @Param       limit   query  int     false  "Items per page"   minimum(1) default(10)
//
// @Success     200  {object}  handlers.HistoryResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Persistence failure"
// @Router      /api/profile/history/{userId} [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	userID := c.Param("userId")
	page := utils.AtoiDefault(c.Query("page"), 1)
	limit := utils.AtoiDefault(c.Query("limit"), 10)

	items, pagination, err := h.historySvc.GetHistory(c.Request.Context(), userID, page, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch consultation history")
		return
	}

	ok(c, http.StatusOK, HistoryResponse{
		Status: "success",
		Data: HistoryData{
			Consultations: items,
			Pagination:    pagination,
		},
	})
}

// DeleteConsultation godoc
// @ID          deleteConsultation
// @Summary     Delete one consultation from history
// @Description Deletes the record only when it is owned by the given user.
// @Tags        History
// @Produce     json
//
// @Param       consultationId  path   string  true  "Consultation ID"
// @Param       userId          query  string  true  "Owning user ID"
//
// @Success     200  {object}  handlers.StatusMessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found or not owned"
// @Failure     500  {object}  handlers.ErrorResponse  "Persistence failure"
// @Router      /api/profile/history/{consultationId} [delete]
func (h *Handlers) DeleteConsultation(c *gin.Context) {
	consultationID := c.Param("consultationId")
	userID := c.Query("userId")

	err := h.historySvc.DeleteConsultation(c.Request.Context(), consultationID, userID)
	if err != nil {
		if errors.Is(err, services.ErrConsultationNotFound) {
			fail(c, http.StatusNotFound, "Consultation not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to delete consultation")
		return
	}

	ok(c, http.StatusOK, StatusMessageResponse{
		Status:  "success",
		Message: "Consultation deleted from history",
	})
}

// ClearHistory godoc
// @ID          clearHistory
// @Summary     Clear all consultation history for a user
// @Tags        History
// @Produce     json
//
// @Param       userId  path  string  true  "User ID"
//
// @Success     200  {object}  handlers.StatusMessageResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Persistence failure"
// @Router      /api/profile/history/clear/{userId} [delete]
func (h *Handlers) ClearHistory(c *gin.Context) {
	userID := c.Param("userId")

	deleted, err := h.historySvc.ClearHistory(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to clear consultation history")
		return
	}

	middleware.LoggerFrom(c).Info().
		Str("user_id", userID).
		Int64("deleted", deleted).
		Msg("history cleared")

	ok(c, http.StatusOK, StatusMessageResponse{
		Status:  "success",
		Message: "All consultation history cleared",
	})
}
