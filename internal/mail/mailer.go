// Package mail sends the two notification emails produced by a contact-form
// submission: an alert to the site owner and a confirmation to the customer.
// Delivery is best-effort with at most one attempt per email.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"sync"

	"github.com/jordan-wright/email"
	"github.com/triplec/contact-api/internal/config"
	"github.com/triplec/contact-api/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Dispatcher sends notification emails over SMTP.
type Dispatcher struct {
	host       string
	port       int
	user       string
	password   string
	fromEmail  string
	ownerEmail string

	ownerTmpl    *template.Template
	customerTmpl *template.Template

	// send is a seam for tests; defaults to SMTP delivery.
	send func(e *email.Email) error

	// wg tracks in-flight dispatch goroutines so Close can drain them.
	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher from SMTP configuration.
func NewDispatcher(cfg *config.Config) (*Dispatcher, error) {
	ownerTmpl, err := template.ParseFS(templatesFS, "templates/owner_notification.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse owner template: %w", err)
	}
	customerTmpl, err := template.ParseFS(templatesFS, "templates/customer_confirmation.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer template: %w", err)
	}

	d := &Dispatcher{
		host:         cfg.SMTPHost,
		port:         cfg.SMTPPort,
		user:         cfg.SMTPUser,
		password:     cfg.SMTPPassword,
		fromEmail:    cfg.FromEmail,
		ownerEmail:   cfg.OwnerEmail,
		ownerTmpl:    ownerTmpl,
		customerTmpl: customerTmpl,
	}
	d.send = d.sendSMTP
	return d, nil
}

// Dispatch sends the owner alert and customer confirmation for sub on a
// background goroutine. It never blocks and never reports failure to the
// caller; errors are logged only. The submission is already persisted, so
// the user-visible outcome does not depend on email delivery.
func (d *Dispatcher) Dispatch(sub *model.Submission) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.sendOwnerAlert(sub); err != nil {
			slog.Error("owner notification failed", "error", err, "submission_id", sub.ID)
		}
		if err := d.sendCustomerConfirmation(sub); err != nil {
			slog.Error("customer confirmation failed", "error", err, "submission_id", sub.ID)
		}
		slog.Info("notification emails dispatched", "submission_id", sub.ID)
	}()
}

// Close waits for in-flight sends to finish. Used on graceful shutdown.
func (d *Dispatcher) Close() {
	d.wg.Wait()
}

func (d *Dispatcher) sendOwnerAlert(sub *model.Submission) error {
	org := sub.Organization
	if org == "" {
		org = "Not provided"
	}

	var html bytes.Buffer
	err := d.ownerTmpl.Execute(&html, map[string]any{
		"ID":           sub.ID,
		"Name":         sub.Name,
		"Email":        sub.Email,
		"Organization": org,
		"Message":      sub.Message,
		"CreatedAt":    sub.CreatedAt.Format("2006-01-02 15:04 MST"),
	})
	if err != nil {
		return fmt.Errorf("failed to render owner template: %w", err)
	}

	text := fmt.Sprintf(
		"New Contact Form Submission #%d\n\nFrom: %s (%s)\nOrganization: %s\n\nMessage:\n%s\n",
		sub.ID, sub.Name, sub.Email, org, sub.Message)

	e := email.NewEmail()
	e.From = d.fromEmail
	e.To = []string{d.ownerEmail}
	e.ReplyTo = []string{fmt.Sprintf("%s <%s>", sub.Name, sub.Email)}
	e.Subject = fmt.Sprintf("New Contact Form Submission #%d - %s", sub.ID, sub.Name)
	e.Text = []byte(text)
	e.HTML = html.Bytes()

	return d.send(e)
}

func (d *Dispatcher) sendCustomerConfirmation(sub *model.Submission) error {
	var html bytes.Buffer
	if err := d.customerTmpl.Execute(&html, map[string]any{"Name": sub.Name}); err != nil {
		return fmt.Errorf("failed to render customer template: %w", err)
	}

	text := fmt.Sprintf(
		"Hi %s,\n\nThank you for your message. We'll be in touch within 24 hours.\n\n— Triple C Consulting\n",
		sub.Name)

	e := email.NewEmail()
	e.From = d.fromEmail
	e.To = []string{sub.Email}
	e.Subject = "We received your message - Triple C Consulting"
	e.Text = []byte(text)
	e.HTML = html.Bytes()

	return d.send(e)
}

func (d *Dispatcher) sendSMTP(e *email.Email) error {
	addr := net.JoinHostPort(d.host, strconv.Itoa(d.port))
	auth := smtp.PlainAuth("", d.user, d.password, d.host)
	return e.Send(addr, auth)
}
