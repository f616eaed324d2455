package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// ResetEmailHTML renders the password-reset mail body. The link expires in one hour.
func ResetEmailHTML(username, resetURL string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;margin:0 auto;">
<h2>Hi %s,</h2>
<p>We received a request to reset your password.</p>
<p><a href="%s">Reset Password</a></p>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break:break-all;">%s</p>
<p style="color:#999;font-size:12px;">This link expires in 1 hour.<br>
If you didn't request a password reset, please ignore this email.</p>
</div>`, username, resetURL, resetURL)
}
