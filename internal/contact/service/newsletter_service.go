package service

import (
	"context"

	"angelina/internal/domain"
	"angelina/internal/dto"
	apperrors "angelina/internal/errors"
	"angelina/internal/notification"

	"go.uber.org/zap"
)

const (
	MessageEmailRequired     = "Email is required"
	MessageAlreadySubscribed = "Email already subscribed"
)

type SubscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error)
	Insert(ctx context.Context, email string) (int64, error)
}

type WelcomeNotifier interface {
	Welcome(ctx context.Context, to string) notification.Result
	Record(res notification.Result)
}

type Dispatcher interface {
	Go(ctx context.Context, fn func(ctx context.Context))
}

type NewsletterService struct {
	repo       SubscriberRepository
	notifier   WelcomeNotifier
	dispatcher Dispatcher
	validator  Validator
	logger     *zap.Logger
}

func NewNewsletterService(
	repo SubscriberRepository,
	notifier WelcomeNotifier,
	dispatcher Dispatcher,
	validator Validator,
	logger *zap.Logger,
) *NewsletterService {
	return &NewsletterService{
		repo:       repo,
		notifier:   notifier,
		dispatcher: dispatcher,
		validator:  validator,
		logger:     logger,
	}
}

// Subscribe records email once. A second subscription of the same address
// is a ConflictError whether caught by the lookup or by the unique key.
// The welcome email is best-effort and never undoes the subscription.
func (s *NewsletterService) Subscribe(ctx context.Context, req dto.SubscribeRequest) error {
	req.Normalize()
	if req.Email == "" {
		return apperrors.NewValidationError(MessageEmailRequired, apperrors.ValidationDetail{
			Field:   "email",
			Message: "email is required",
		})
	}
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return apperrors.NewConflictError(MessageAlreadySubscribed)
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		s.logger.Error("failed to look up subscriber", zap.Error(err))
		return err
	}

	id, err := s.repo.Insert(ctx, req.Email)
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			return apperrors.NewConflictError(MessageAlreadySubscribed)
		}
		s.logger.Error("failed to insert subscriber", zap.Error(err))
		return err
	}

	s.logger.Info("newsletter subscription added", zap.Int64("subscriberId", id))

	email := req.Email
	s.dispatcher.Go(ctx, func(ctx context.Context) {
		s.notifier.Record(s.notifier.Welcome(ctx, email))
	})

	return nil
}
