package email

import (
	"fmt"

	"phonebook_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Sender delivers outbound mail. The SMTP implementation is used in
// production; tests substitute a recording fake.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
	SendVerification(to, verificationToken string) error
}

type SMTPSender struct {
	cfg *config.Config
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, htmlBody, textBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Email.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUsername,
		s.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

// SendVerification mails the confirmation link for a fresh or re-sent
// verification token.
func (s *SMTPSender) SendVerification(to, verificationToken string) error {
	link := fmt.Sprintf("%s/verify/%s", s.cfg.BaseURL, verificationToken)

	html := fmt.Sprintf(`To confirm your email please go to the <a href="%s">link</a>`, link)
	text := fmt.Sprintf("To confirm your email please open the link %s", link)

	return s.Send(to, "Welcome to Phonebook", html, text)
}
