package contact

import (
	"database/sql"

	"angelina/internal/contact/controller"
	"angelina/internal/contact/repository"
	"angelina/internal/contact/service"
	"angelina/internal/notification"
	"angelina/internal/validation"

	"go.uber.org/zap"
)

func NewModule(
	db *sql.DB,
	notifier *notification.Notifier,
	dispatcher *notification.Dispatcher,
	validator *validation.Validator,
	logger *zap.Logger,
) *controller.ContactController {
	subscriberRepo := repository.NewMySQLSubscriberRepository(db)

	contactSvc := service.NewContactService(notifier, validator, logger)
	newsletterSvc := service.NewNewsletterService(subscriberRepo, notifier, dispatcher, validator, logger)

	return controller.NewContactController(contactSvc, newsletterSvc, logger)
}
