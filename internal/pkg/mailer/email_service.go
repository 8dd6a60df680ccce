package mailer

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

// Mail is a rendered message ready for SMTP.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type IEmailService interface {
	Send(mail Mail) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) Send(mail Mail) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/html", mail.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", mail.Subject, mail.To, err)
	}
	return nil
}

const layout = `
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			%s
			<p style="color: #888; font-size: 12px;">CuraMind Telemedicine</p>
		</div>
	`

func render(heading, inner string) string {
	return fmt.Sprintf(layout, html.EscapeString(heading), inner)
}

// TemporaryPasswordMail is sent on patient sign-up and on doctor verification.
func TemporaryPasswordMail(to, fullName, password, loginURL string) Mail {
	inner := fmt.Sprintf(`
			<p>Hello %s,</p>
			<p>Your CuraMind account is ready. Sign in with this temporary password:</p>
			<h1 style="color: #4CAF50; letter-spacing: 2px;">%s</h1>
			<p>You will be asked to choose a new password after your first login.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Sign in</a>
		`, html.EscapeString(fullName), html.EscapeString(password), html.EscapeString(loginURL))

	return Mail{
		To:      to,
		Subject: "Your CuraMind temporary password",
		Body:    render("Welcome to CuraMind!", inner),
	}
}

func ResetOtpMail(to, otp string, ttl time.Duration) Mail {
	inner := fmt.Sprintf(`
			<p>Your password reset code is:</p>
			<h1 style="color: #4CAF50; letter-spacing: 5px;">%s</h1>
			<p>This code will expire in %d minutes.</p>
			<p>If you didn't request this, please ignore this email.</p>
		`, html.EscapeString(otp), int(ttl.Minutes()))

	return Mail{
		To:      to,
		Subject: "Your password reset code",
		Body:    render("Password Reset Request", inner),
	}
}

func DoctorRejectionMail(to, fullName, reason, note string) Mail {
	inner := fmt.Sprintf(`
			<p>Dear Dr. %s,</p>
			<p>We could not verify your registration.</p>
			<p><strong>Reason:</strong> %s</p>
		`, html.EscapeString(fullName), html.EscapeString(reason))
	if note != "" {
		inner += fmt.Sprintf(`<p><strong>Note from the reviewer:</strong> %s</p>`, html.EscapeString(note))
	}
	inner += `<p>You are welcome to register again with corrected details.</p>`

	return Mail{
		To:      to,
		Subject: "CuraMind registration update",
		Body:    render("Registration not approved", inner),
	}
}
