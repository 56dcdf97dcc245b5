package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"angelina/internal/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Message is one outbound HTML email.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// SMTPMailer delivers messages through an authenticated SMTP relay. A
// mail.Client holds its connection in unguarded fields, so every Send
// builds its own client from the stored options.
type SMTPMailer struct {
	host string
	opts []mail.Option
	from string
}

func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("mailer: sender address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	if _, err := mail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("mailer: creating smtp client: %w", err)
	}

	return &SMTPMailer{host: cfg.Host, opts: opts, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	built, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("mailer: creating smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("mailer: sending to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("mailer: invalid sender %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mailer: invalid recipient %q: %w", msg.To, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("mailer: invalid reply-to %q: %w", msg.ReplyTo, err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	return m, nil
}

// LogMailer writes messages to the log instead of delivering them. It backs
// MAIL_DRIVER=log.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email delivery disabled, message logged",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("bodyBytes", len(msg.HTMLBody)),
	)
	return nil
}
