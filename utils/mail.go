package utils

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Kariqs/amexan-eats/initializers"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrMailNotConfigured = errors.New("smtp is not configured")

const (
	VerifyEmailTemplate   = "verify_email.html"
	ResetPasswordTemplate = "reset_password.html"
)

type EmailData struct {
	Name            string
	Message         string
	VerificationURL string
	LogoURL         string
}

// RenderEmail executes one of the embedded templates.
func RenderEmail(templateName string, data EmailData) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func SendEmail(emailTo string, emailSubject string, data EmailData, templateName string) error {
	env := initializers.Env
	if env.FromEmail == "" || env.SMTPAddress == "" {
		return ErrMailNotConfigured
	}

	body, err := RenderEmail(templateName, data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		env.FromEmail,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", env.FromEmail, env.EmailPassword, env.SMTPHost)
	if err := smtp.SendMail(env.SMTPAddress, auth, env.FromEmail, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
