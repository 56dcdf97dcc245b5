package service

import (
	"context"
	"strings"

	"angelina/internal/domain"
	"angelina/internal/dto"
	apperrors "angelina/internal/errors"
	"angelina/internal/notification"

	"go.uber.org/zap"
)

type AppointmentRepository interface {
	Insert(ctx context.Context, a domain.Appointment) (int64, error)
	List(ctx context.Context, status domain.AppointmentStatus, limit, offset int) ([]domain.Appointment, error)
	FindByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, notes *string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type Notifier interface {
	ClientConfirmation(ctx context.Context, c notification.ClientConfirmation) notification.Result
	AdminAlert(ctx context.Context, a notification.AdminAlert) notification.Result
	StatusUpdate(ctx context.Context, s notification.StatusUpdate) notification.Result
	Record(res notification.Result)
}

type Dispatcher interface {
	Go(ctx context.Context, fn func(ctx context.Context))
}

type Validator interface {
	Struct(s interface{}) error
}

type EventRecorder interface {
	ObserveAppointmentEvent(event, status string)
}

type AppointmentService struct {
	repo       AppointmentRepository
	notifier   Notifier
	dispatcher Dispatcher
	validator  Validator
	events     EventRecorder
	logger     *zap.Logger
}

func NewAppointmentService(
	repo AppointmentRepository,
	notifier Notifier,
	dispatcher Dispatcher,
	validator Validator,
	events EventRecorder,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:       repo,
		notifier:   notifier,
		dispatcher: dispatcher,
		validator:  validator,
		events:     events,
		logger:     logger,
	}
}

// Submit stores a new pending appointment and queues the client
// confirmation and admin alert. Email failures never fail the submission.
func (s *AppointmentService) Submit(ctx context.Context, req dto.SubmitAppointmentRequest) (int64, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return 0, err
	}

	a := req.ToDomain()
	id, err := s.repo.Insert(ctx, a)
	if err != nil {
		s.logger.Error("failed to insert appointment", zap.String("email", a.Email), zap.Error(err))
		return 0, err
	}
	a.ID = id

	s.logger.Info("appointment submitted",
		zap.Int64("appointmentId", id),
		zap.String("workType", a.WorkType),
		zap.String("ranking", a.Ranking),
	)
	s.observe("submitted", a.Status)

	s.dispatcher.Go(ctx, func(ctx context.Context) {
		s.notifier.Record(s.notifier.ClientConfirmation(ctx, notification.ClientConfirmation{
			To:            a.Email,
			FirstName:     a.FirstName,
			Surname:       a.Surname,
			AppointmentID: id,
			WorkType:      a.WorkType,
			Ranking:       a.Ranking,
		}))
		s.notifier.Record(s.notifier.AdminAlert(ctx, notification.AdminAlert{
			AppointmentID: id,
			FirstName:     a.FirstName,
			Surname:       a.Surname,
			Email:         a.Email,
			Phone:         a.Phone,
			WorkType:      a.WorkType,
			Ranking:       a.Ranking,
			Description:   a.Description,
		}))
	})

	return id, nil
}

func (s *AppointmentService) List(ctx context.Context, filter dto.ListAppointmentsFilter) ([]domain.Appointment, error) {
	var details []apperrors.ValidationDetail

	if filter.Status != "" && !filter.Status.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of pending, reviewed, accepted, rejected, completed",
		})
	}
	if filter.Limit < 1 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "limit",
			Message: "limit must be a positive integer",
		})
	}
	if filter.Offset < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "offset",
			Message: "offset must not be negative",
		})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("Invalid query parameters", details...)
	}

	limit := filter.Limit
	if limit > dto.MaxListLimit {
		limit = dto.MaxListLimit
	}

	appointments, err := s.repo.List(ctx, filter.Status, limit, filter.Offset)
	if err != nil {
		s.logger.Error("failed to list appointments", zap.Error(err))
		return nil, err
	}

	return appointments, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus moves an appointment to any valid status, same-value moves
// included. A missing id is not an error; nothing is written or sent.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) error {
	status := domain.AppointmentStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return apperrors.NewValidationError("Invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of pending, reviewed, accepted, rejected, completed",
		})
	}

	req.Notes = strings.TrimSpace(req.Notes)
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	matched, err := s.repo.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		s.logger.Error("failed to update appointment status", zap.Int64("appointmentId", id), zap.Error(err))
		return err
	}
	if !matched {
		s.logger.Warn("status update for unknown appointment", zap.Int64("appointmentId", id))
		return nil
	}

	s.logger.Info("appointment status updated", zap.Int64("appointmentId", id), zap.String("status", string(status)))
	s.observe("status_updated", status)

	if !status.Notifies() {
		return nil
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil
		}
		// The write is committed; only the email is lost.
		s.notifier.Record(notification.Result{Kind: notification.KindStatusUpdate, Err: err})
		return nil
	}

	s.dispatcher.Go(ctx, func(ctx context.Context) {
		s.notifier.Record(s.notifier.StatusUpdate(ctx, notification.StatusUpdate{
			AppointmentID: a.ID,
			FirstName:     a.FirstName,
			To:            a.Email,
			Status:        status,
		}))
	})

	return nil
}

func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete appointment", zap.Int64("appointmentId", id), zap.Error(err))
		return err
	}

	s.logger.Info("appointment deleted", zap.Int64("appointmentId", id))
	s.observe("deleted", "")
	return nil
}

func (s *AppointmentService) observe(event string, status domain.AppointmentStatus) {
	if s.events != nil {
		s.events.ObserveAppointmentEvent(event, string(status))
	}
}
