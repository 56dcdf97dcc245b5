package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"angelina/internal/dto"
	apperrors "angelina/internal/errors"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ContactService interface {
	SubmitContact(ctx context.Context, req dto.ContactRequest) error
}

type NewsletterService interface {
	Subscribe(ctx context.Context, req dto.SubscribeRequest) error
}

type ContactController struct {
	contact    ContactService
	newsletter NewsletterService
	logger     *zap.Logger
}

func NewContactController(contact ContactService, newsletter NewsletterService, logger *zap.Logger) *ContactController {
	return &ContactController{
		contact:    contact,
		newsletter: newsletter,
		logger:     logger,
	}
}

func (c *ContactController) SubmitContact(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("requestId", middleware.GetReqID(r.Context())))

	var req dto.ContactRequest
	if !c.decode(w, r, &req) {
		return
	}

	if err := c.contact.SubmitContact(r.Context(), req); err != nil {
		c.handleError(w, err, "Error sending message", logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}

func (c *ContactController) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("requestId", middleware.GetReqID(r.Context())))

	var req dto.SubscribeRequest
	if !c.decode(w, r, &req) {
		return
	}

	if err := c.newsletter.Subscribe(r.Context(), req); err != nil {
		c.handleError(w, err, "Error processing subscription", logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Successfully subscribed to newsletter",
	})
}

func (c *ContactController) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}

	c.writeError(w, http.StatusBadRequest, "Invalid JSON body", apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})
	return false
}

// handleError maps service errors. An existing subscription is reported as
// 400, which is what the site's newsletter form expects.
func (c *ContactController) handleError(w http.ResponseWriter, err error, fallback string, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, http.StatusBadRequest, ve.Message, ve.Details...)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusBadRequest, ce.Message)
		return
	}

	if ne, ok := apperrors.IsNotificationError(err); ok {
		logger.Error("contact message not delivered", zap.String("stage", ne.Message), zap.Error(ne.Cause))
		c.writeError(w, http.StatusInternalServerError, fallback)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, fallback)
}

func (c *ContactController) writeError(w http.ResponseWriter, status int, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, status, dto.ErrorResponse{
		Success: false,
		Message: message,
		Details: details,
	})
}

func (c *ContactController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
