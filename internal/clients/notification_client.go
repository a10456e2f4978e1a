package clients

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// EmailSender is the subset of the Resend emails service used here.
type EmailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotificationClient emails the office about new contact messages.
type ResendNotificationClient struct {
	emails    EmailSender
	fromEmail string
	fromName  string
	notifyTo  string
	logger    *logging.Logger
}

// NewResendNotificationClient creates a notifier backed by the Resend API.
func NewResendNotificationClient(cfg config.EmailConfig) *ResendNotificationClient {
	client := resend.NewClient(cfg.ResendAPIKey)
	return newResendNotificationClient(client.Emails, cfg)
}

func newResendNotificationClient(emails EmailSender, cfg config.EmailConfig) *ResendNotificationClient {
	return &ResendNotificationClient{
		emails:    emails,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		notifyTo:  cfg.NotifyTo,
		logger:    logging.NewLogger("notification-client"),
	}
}

// NotifyContacto sends the contact message to the office inbox, with
// Reply-To set to the sender.
func (c *ResendNotificationClient) NotifyContacto(ctx context.Context, contacto *models.Contacto) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.notifyTo},
		ReplyTo: contacto.Email,
		Subject: "Nuevo mensaje de contacto de " + contacto.Nombre,
		Html:    contactoHTML(contacto),
		Text:    contactoText(contacto),
		Headers: map[string]string{
			"X-Entity-Ref-ID": uuid.NewString(),
		},
		Tags: []resend.Tag{
			{Name: "category", Value: "contacto"},
		},
	}

	sent, err := c.emails.Send(params)
	if err != nil {
		c.logger.Error("Failed to send contacto email", logging.Fields{
			"contacto_id": contacto.ID,
			"error":       err.Error(),
		})
		return fmt.Errorf("sending contacto email: %w", err)
	}

	c.logger.Info("Contacto email sent", logging.Fields{
		"contacto_id": contacto.ID,
		"email_id":    sent.Id,
	})
	return nil
}

func contactoText(c *models.Contacto) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nombre: %s\n", c.Nombre)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	if c.Telefono != nil {
		fmt.Fprintf(&b, "Teléfono: %s\n", *c.Telefono)
	}
	fmt.Fprintf(&b, "\n%s\n", c.Mensaje)
	return b.String()
}

func contactoHTML(c *models.Contacto) string {
	var b strings.Builder
	b.WriteString("<h2>Nuevo mensaje de contacto</h2>")
	fmt.Fprintf(&b, "<p><strong>Nombre:</strong> %s</p>", html.EscapeString(c.Nombre))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(c.Email))
	if c.Telefono != nil {
		fmt.Fprintf(&b, "<p><strong>Teléfono:</strong> %s</p>", html.EscapeString(*c.Telefono))
	}
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(c.Mensaje), "\n", "<br>"))
	return b.String()
}

// LogNotificationClient only logs. Used when no Resend API key is set.
type LogNotificationClient struct {
	logger *logging.Logger
}

func NewLogNotificationClient() *LogNotificationClient {
	return &LogNotificationClient{logger: logging.NewLogger("notification-client")}
}

func (c *LogNotificationClient) NotifyContacto(_ context.Context, contacto *models.Contacto) error {
	c.logger.Info("Contacto notification skipped, email disabled", logging.Fields{
		"contacto_id": contacto.ID,
		"email":       contacto.Email,
	})
	return nil
}
