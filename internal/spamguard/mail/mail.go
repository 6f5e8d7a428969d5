// Package mail delivers verification codes by email.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
)

// Mailer sends a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var subjects = map[domain.Purpose]string{
	domain.PurposeSignup: "Your Signup Verification Code",
	domain.PurposeLogin:  "Your Login Verification Code",
}

type codeData struct {
	Code      string
	Origin    string
	ExpiresIn string
}

// RenderCode builds the subject and HTML body for a verification code.
func RenderCode(purpose domain.Purpose, code, origin string, ttl time.Duration) (string, string, error) {
	subject, ok := subjects[purpose]
	if !ok {
		return "", "", fmt.Errorf("mail: no template for purpose %q", purpose)
	}

	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, string(purpose)+".html", codeData{
		Code:      code,
		Origin:    origin,
		ExpiresIn: humanMinutes(ttl),
	})
	if err != nil {
		return "", "", fmt.Errorf("mail: render %s: %w", purpose, err)
	}
	return subject, buf.String(), nil
}

// SendCode renders and sends a verification code.
func SendCode(ctx context.Context, m Mailer, to string, purpose domain.Purpose, code, origin string, ttl time.Duration) error {
	subject, body, err := RenderCode(purpose, code, origin, ttl)
	if err != nil {
		return err
	}
	return m.Send(ctx, to, subject, body)
}

func humanMinutes(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
