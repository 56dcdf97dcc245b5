package notification

import (
	"context"
	"fmt"
	"time"

	"angelina/internal/domain"
	"angelina/internal/infrastructure/mailer"

	"go.uber.org/zap"
)

type Kind string

const (
	KindClientConfirmation Kind = "client_confirmation"
	KindAdminAlert         Kind = "admin_alert"
	KindStatusUpdate       Kind = "status_update"
	KindContactMessage     Kind = "contact_message"
	KindWelcome            Kind = "welcome"
)

var statusBodies = map[domain.AppointmentStatus]string{
	domain.AppointmentStatusAccepted:  "Your appointment has been accepted! We will contact you soon to discuss the details.",
	domain.AppointmentStatusRejected:  "We regret to inform you that we cannot proceed with your request at this time.",
	domain.AppointmentStatusCompleted: "Your project has been completed! Thank you for working with us.",
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type Recorder interface {
	ObserveNotification(kind, outcome string)
}

// Result is the outcome of a best-effort send. Callers hand it to
// Notifier.Record and carry on; it is never returned as an error.
type Result struct {
	Kind      Kind
	Recipient string
	Skipped   bool
	Err       error
}

func (r Result) Delivered() bool {
	return !r.Skipped && r.Err == nil
}

type Settings struct {
	Brand        string
	AdminAddress string
	Phone        string
	WhatsApp     string
}

type ClientConfirmation struct {
	To            string
	FirstName     string
	Surname       string
	AppointmentID int64
	WorkType      string
	Ranking       string
}

type AdminAlert struct {
	AppointmentID int64
	FirstName     string
	Surname       string
	Email         string
	Phone         string
	WorkType      string
	Ranking       string
	Description   string
}

type StatusUpdate struct {
	AppointmentID int64
	FirstName     string
	To            string
	Status        domain.AppointmentStatus
}

type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Notifier struct {
	mailer   Mailer
	settings Settings
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewNotifier(m Mailer, settings Settings, recorder Recorder, logger *zap.Logger) *Notifier {
	return &Notifier{
		mailer:   m,
		settings: settings,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (n *Notifier) ClientConfirmation(ctx context.Context, c ClientConfirmation) Result {
	body, err := render("client_confirmation", struct {
		ClientConfirmation
		Brand, Package, ContactEmail, Phone, WhatsApp string
		Year                                          int
	}{
		ClientConfirmation: c,
		Brand:              n.settings.Brand,
		Package:            domain.PackageLabel(c.WorkType, c.Ranking),
		ContactEmail:       n.settings.AdminAddress,
		Phone:              n.settings.Phone,
		WhatsApp:           n.settings.WhatsApp,
		Year:               n.now().Year(),
	})
	return n.send(ctx, KindClientConfirmation, mailer.Message{
		To:       c.To,
		Subject:  fmt.Sprintf("Appointment Request Received - %s", n.settings.Brand),
		HTMLBody: body,
	}, err)
}

func (n *Notifier) AdminAlert(ctx context.Context, a AdminAlert) Result {
	body, err := render("admin_alert", struct {
		AdminAlert
		Package string
	}{
		AdminAlert: a,
		Package:    domain.PackageLabel(a.WorkType, a.Ranking),
	})
	return n.send(ctx, KindAdminAlert, mailer.Message{
		To:       n.settings.AdminAddress,
		ReplyTo:  a.Email,
		Subject:  fmt.Sprintf("New Appointment Request #%d", a.AppointmentID),
		HTMLBody: body,
	}, err)
}

// StatusUpdate emails the client about a transition. Statuses without a
// client-facing message are skipped.
func (n *Notifier) StatusUpdate(ctx context.Context, s StatusUpdate) Result {
	text, ok := statusBodies[s.Status]
	if !ok {
		return Result{Kind: KindStatusUpdate, Recipient: s.To, Skipped: true}
	}

	body, err := render("status_update", struct {
		FirstName, Body string
	}{FirstName: s.FirstName, Body: text})
	return n.send(ctx, KindStatusUpdate, mailer.Message{
		To:       s.To,
		Subject:  fmt.Sprintf("Appointment Update - #%d", s.AppointmentID),
		HTMLBody: body,
	}, err)
}

func (n *Notifier) Welcome(ctx context.Context, to string) Result {
	body, err := render("welcome", struct{ Brand string }{Brand: n.settings.Brand})
	return n.send(ctx, KindWelcome, mailer.Message{
		To:       to,
		Subject:  fmt.Sprintf("Welcome to %s Newsletter!", n.settings.Brand),
		HTMLBody: body,
	}, err)
}

// ContactMessage forwards a contact-form submission to the administrator.
// Unlike the other sends, its failure belongs to the caller.
func (n *Notifier) ContactMessage(ctx context.Context, c ContactMessage) error {
	body, err := render("contact_message", c)
	res := n.send(ctx, KindContactMessage, mailer.Message{
		To:       n.settings.AdminAddress,
		ReplyTo:  c.Email,
		Subject:  fmt.Sprintf("Contact Form: %s", c.Subject),
		HTMLBody: body,
	}, err)
	n.Record(res)
	return res.Err
}

// Record logs and counts a send outcome.
func (n *Notifier) Record(res Result) {
	var outcome string
	switch {
	case res.Delivered():
		outcome = "sent"
		n.logger.Info("notification sent",
			zap.String("kind", string(res.Kind)),
			zap.String("recipient", res.Recipient),
		)
	case res.Skipped:
		outcome = "skipped"
		n.logger.Debug("notification skipped", zap.String("kind", string(res.Kind)))
	default:
		outcome = "failed"
		n.logger.Error("notification failed",
			zap.String("kind", string(res.Kind)),
			zap.String("recipient", res.Recipient),
			zap.Error(res.Err),
		)
	}
	if n.recorder != nil {
		n.recorder.ObserveNotification(string(res.Kind), outcome)
	}
}

func (n *Notifier) send(ctx context.Context, kind Kind, msg mailer.Message, renderErr error) Result {
	res := Result{Kind: kind, Recipient: msg.To}
	if renderErr != nil {
		res.Err = fmt.Errorf("rendering %s: %w", kind, renderErr)
		return res
	}
	res.Err = n.mailer.Send(ctx, msg)
	return res
}
