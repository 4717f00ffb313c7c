package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/wneessen/go-mail"

	"hambax/entity"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers tickets and verification links over SMTP.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) Mailer {
	return Mailer{cfg: cfg}
}

const ticketBodyHTML = `
<div style="font-family: Arial, sans-serif; color: #333; line-height: 1.6;">
  <h2>Thank you for your purchase!</h2>
  <p>Your ticket is attached as a PDF. The QR code below will also be scanned at the entrance:</p>
  <div style="margin: 20px 0;">
    <img src="cid:qrcode.png" alt="QR Code" style="max-width: 200px;"/>
  </div>
  <div style="margin-top: 20px; padding: 10px; background-color: #fff3cd; border: 1px solid #ffeeba; border-radius: 5px;">
    <p><strong>Important:</strong></p>
    <p>The QR code is valid <strong>once</strong> and only on the stated date. Please present it at the entrance.</p>
    <p><i>Tickets are non-refundable and non-exchangeable.</i></p>
  </div>
</div>
`

func (m Mailer) SendTicket(ctx context.Context, ticket entity.Ticket) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("could not set sender: %w", err)
	}
	if err := msg.To(ticket.Email); err != nil {
		return fmt.Errorf("could not set recipient: %w", err)
	}

	msg.Subject("Your ticket")
	msg.SetBodyString(mail.TypeTextHTML, ticketBodyHTML)
	msg.EmbedFile(ticket.QRCodePath, mail.WithFileName("qrcode.png"))
	msg.AttachFile(ticket.PDFPath, mail.WithFileName(fmt.Sprintf("%s_%s_ticket.pdf", ticket.Email, ticket.PaymentReference)))

	if err := m.send(ctx, msg); err != nil {
		return err
	}

	log.FromContext(ctx).WithField("email", ticket.Email).Info("Ticket email sent")
	return nil
}

const verificationBodyHTML = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Welcome to HAMBAX!</h1>
  <p>Thank you for registering. Please verify your email address by opening the link below:</p>
  <p><a href="%[1]s">%[1]s</a></p>
  <p style="font-size: 12px; color: #999;">If you did not create an account, no further action is required.</p>
</div>
`

func (m Mailer) SendVerificationLink(ctx context.Context, email, link string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("could not set sender: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("could not set recipient: %w", err)
	}

	msg.Subject("Verify your email")
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(verificationBodyHTML, link))

	if err := m.send(ctx, msg); err != nil {
		return err
	}

	log.FromContext(ctx).WithField("email", email).Info("Verification email sent")
	return nil
}

const sendTimeout = 30 * time.Second

func (m Mailer) send(ctx context.Context, msg *mail.Msg) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("could not create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}
	return nil
}
