package appointment

import (
	"database/sql"

	"angelina/internal/appointment/controller"
	"angelina/internal/appointment/repository"
	"angelina/internal/appointment/service"
	"angelina/internal/infrastructure/metrics"
	"angelina/internal/notification"
	"angelina/internal/validation"

	"go.uber.org/zap"
)

func NewModule(
	db *sql.DB,
	notifier *notification.Notifier,
	dispatcher *notification.Dispatcher,
	validator *validation.Validator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *controller.AppointmentController {
	repo := repository.NewMySQLAppointmentRepository(db)
	svc := service.NewAppointmentService(repo, notifier, dispatcher, validator, m, logger)
	return controller.NewAppointmentController(svc, logger)
}
