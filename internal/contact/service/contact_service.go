package service

import (
	"context"

	"angelina/internal/dto"
	apperrors "angelina/internal/errors"
	"angelina/internal/notification"

	"go.uber.org/zap"
)

type Validator interface {
	Struct(s interface{}) error
}

type ContactNotifier interface {
	ContactMessage(ctx context.Context, c notification.ContactMessage) error
}

type ContactService struct {
	notifier  ContactNotifier
	validator Validator
	logger    *zap.Logger
}

func NewContactService(notifier ContactNotifier, validator Validator, logger *zap.Logger) *ContactService {
	return &ContactService{
		notifier:  notifier,
		validator: validator,
		logger:    logger,
	}
}

// SubmitContact relays a contact-form message to the administrator. The
// email is the whole operation, so a failed send fails the request.
func (s *ContactService) SubmitContact(ctx context.Context, req dto.ContactRequest) error {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	err := s.notifier.ContactMessage(ctx, notification.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return apperrors.NewNotificationError("sending contact message", err)
	}

	s.logger.Info("contact message relayed", zap.String("replyTo", req.Email))
	return nil
}
