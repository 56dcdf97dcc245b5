package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"angelina/internal/domain"
	"angelina/internal/dto"
	apperrors "angelina/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type AppointmentService interface {
	Submit(ctx context.Context, req dto.SubmitAppointmentRequest) (int64, error)
	List(ctx context.Context, filter dto.ListAppointmentsFilter) ([]domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) error
	Delete(ctx context.Context, id int64) error
}

type AppointmentController struct {
	service AppointmentService
	logger  *zap.Logger
}

func NewAppointmentController(service AppointmentService, logger *zap.Logger) *AppointmentController {
	return &AppointmentController{
		service: service,
		logger:  logger,
	}
}

func (c *AppointmentController) Submit(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	var req dto.SubmitAppointmentRequest
	if !c.decode(w, r, &req, logger) {
		return
	}

	id, err := c.service.Submit(r.Context(), req)
	if err != nil {
		c.handleError(w, err, "Error processing your request", logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.SubmitAppointmentResponse{
		Success:       true,
		Message:       "Appointment request submitted successfully",
		AppointmentID: id,
	})
}

func (c *AppointmentController) List(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)
	query := r.URL.Query()

	filter := dto.ListAppointmentsFilter{
		Status: domain.AppointmentStatus(query.Get("status")),
		Limit:  dto.DefaultListLimit,
	}

	var details []apperrors.ValidationDetail
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "limit must be an integer"})
		}
		filter.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "offset", Message: "offset must be an integer"})
		}
		filter.Offset = offset
	}
	if len(details) > 0 {
		c.writeError(w, http.StatusBadRequest, "Invalid query parameters", details...)
		return
	}

	appointments, err := c.service.List(r.Context(), filter)
	if err != nil {
		c.handleError(w, err, "Error fetching appointments", logger)
		return
	}

	data := make([]dto.AppointmentDTO, len(appointments))
	for i, a := range appointments {
		data[i] = dto.NewAppointmentDTO(a)
	}

	c.writeJSON(w, http.StatusOK, dto.AppointmentListResponse{
		Success: true,
		Data:    data,
		Total:   len(data),
	})
}

func (c *AppointmentController) Get(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	a, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.handleError(w, err, "Error fetching appointment", logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.AppointmentResponse{
		Success: true,
		Data:    dto.NewAppointmentDTO(*a),
	})
}

func (c *AppointmentController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !c.decode(w, r, &req, logger) {
		return
	}

	if err := c.service.UpdateStatus(r.Context(), id, req); err != nil {
		c.handleError(w, err, "Error updating appointment", logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Appointment status updated successfully",
	})
}

func (c *AppointmentController) Delete(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		c.handleError(w, err, "Error deleting appointment", logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Appointment deleted successfully",
	})
}

func (c *AppointmentController) requestLogger(r *http.Request) *zap.Logger {
	return c.logger.With(zap.String("requestId", middleware.GetReqID(r.Context())))
}

func (c *AppointmentController) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.writeError(w, http.StatusBadRequest, "Invalid appointment id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

func (c *AppointmentController) decode(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}

	logger.Warn("invalid JSON body", zap.Error(err))
	c.writeError(w, http.StatusBadRequest, "Invalid JSON body", apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})
	return false
}

func (c *AppointmentController) handleError(w http.ResponseWriter, err error, fallback string, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, http.StatusBadRequest, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, fallback)
}

func (c *AppointmentController) writeError(w http.ResponseWriter, status int, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, status, dto.ErrorResponse{
		Success: false,
		Message: message,
		Details: details,
	})
}

func (c *AppointmentController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
