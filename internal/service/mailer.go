package service

import (
	"fmt"

	"clinic-care/config"

	"github.com/go-gomail/gomail"
)

// Mailer is the outbound email collaborator. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendVerificationEmail(to, code string) error
	SendForgotPasswordEmail(to, code string) error
	SendAppointmentApprovalEmail(to, name, date, timeOfDay string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendVerificationEmail(to, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in a few minutes.", code)
	return m.send(to, "Account verification code", body)
}

func (m *smtpMailer) SendForgotPasswordEmail(to, code string) error {
	body := fmt.Sprintf("Your password reset code is %s. If you did not request this, ignore this email.", code)
	return m.send(to, "Password reset code", body)
}

func (m *smtpMailer) SendAppointmentApprovalEmail(to, name, date, timeOfDay string) error {
	body := fmt.Sprintf("Hi %s, your appointment on %s at %s has been updated.", name, date, timeOfDay)
	return m.send(to, "Appointment update", body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}

	return nil
}
