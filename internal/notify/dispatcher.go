package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recepce/internal/config"
	"recepce/internal/domain"

	"github.com/rs/zerolog"
)

// Default message templates, used when the config leaves them empty.
// Placeholders in braces are filled in per booking.
const (
	defaultCustomerSMS      = "Vaše rezervace v {company} na {date} v {time} byla potvrzena."
	defaultCustomerCancel   = "Vaše rezervace v {company} na {date} v {time} byla zrušena."
	defaultOperatorSubject  = "Nová rezervace: {name} {date} {time}"
	defaultOperatorBody     = "Klient: {name}\nTelefon: {phone}\nSlužba: {service}\nTermín: {date} {time}"
	defaultOperatorCancel   = "Zrušená rezervace\nTelefon: {phone}\nTermín: {date} {time}"
	defaultCancelledSubject = "Zrušená rezervace: {date} {time}"
)

// Dispatcher renders notification jobs and fans them out over the enabled
// channels. Channel failures are collected, not short-circuited, so one
// dead provider does not silence the others.
type Dispatcher struct {
	cfg      config.NotificationsConfig
	company  string
	email    string
	loc      *time.Location
	sms      domain.NotificationPort
	operator OperatorChannel
	logger   zerolog.Logger
}

// OperatorChannel pushes a message to the staff (Telegram chat today).
type OperatorChannel interface {
	NotifyOperator(ctx context.Context, text string) error
}

func NewDispatcher(cfg config.NotificationsConfig, company, operatorEmail string, loc *time.Location, sms domain.NotificationPort, operator OperatorChannel, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		company:  company,
		email:    operatorEmail,
		loc:      loc,
		sms:      sms,
		operator: operator,
		logger:   logger,
	}
}

// Dispatch sends all configured notifications for one job. The returned
// error aggregates per-channel failures so the worker can decide to retry.
func (d *Dispatcher) Dispatch(ctx context.Context, job domain.NotifyJob) error {
	vars := d.templateVars(job)
	var errs []error

	if d.cfg.SMSEnabled && job.Phone != "" {
		body := render(d.customerTemplate(job), vars)
		if err := d.sms.SendSMS(ctx, job.Phone, body); err != nil {
			d.logger.Error().Err(err).Str("phone", job.Phone).Msg("sms send failed")
			errs = append(errs, fmt.Errorf("sms: %w", err))
		}
	}

	if d.cfg.EmailEnabled && d.email != "" {
		subject := render(d.subjectTemplate(job), vars)
		body := render(d.operatorTemplate(job, d.cfg.Templates.OperatorEmail), vars)
		if err := d.sms.SendEmail(ctx, subject, body, d.email); err != nil {
			d.logger.Error().Err(err).Str("to", d.email).Msg("email send failed")
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	if d.cfg.TelegramEnabled && d.operator != nil {
		text := render(d.operatorTemplate(job, d.cfg.Templates.OperatorTelegram), vars)
		if err := d.operator.NotifyOperator(ctx, text); err != nil {
			d.logger.Error().Err(err).Msg("telegram send failed")
			errs = append(errs, fmt.Errorf("telegram: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) templateVars(job domain.NotifyJob) *strings.Replacer {
	start := job.Start.In(d.loc)
	return strings.NewReplacer(
		"{name}", job.Name,
		"{phone}", job.Phone,
		"{service}", job.Service,
		"{date}", start.Format("02.01.2006"),
		"{time}", start.Format("15:04"),
		"{company}", d.company,
	)
}

func (d *Dispatcher) customerTemplate(job domain.NotifyJob) string {
	if job.Cancelled {
		return defaultCustomerCancel
	}
	if d.cfg.Templates.CustomerSMS != "" {
		return d.cfg.Templates.CustomerSMS
	}
	return defaultCustomerSMS
}

func (d *Dispatcher) subjectTemplate(job domain.NotifyJob) string {
	if job.Cancelled {
		return defaultCancelledSubject
	}
	if d.cfg.Templates.OperatorSubject != "" {
		return d.cfg.Templates.OperatorSubject
	}
	return defaultOperatorSubject
}

func (d *Dispatcher) operatorTemplate(job domain.NotifyJob, configured string) string {
	if job.Cancelled {
		return defaultOperatorCancel
	}
	if configured != "" {
		return configured
	}
	return defaultOperatorBody
}

func render(template string, vars *strings.Replacer) string {
	return vars.Replace(template)
}
