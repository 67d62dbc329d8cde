package mail

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"
	"time"

	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"github.com/shandysiswandi/gootp/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

const subjectOTP = "Your OTP Verification Code"

var htmlOTP = htmltemplate.Must(htmltemplate.New("otp.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Email Verification</h2>
  <p style="font-size: 16px; color: #555;">Your OTP code is:</p>
  <div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #333; border-radius: 5px;">{{ .Code }}</div>
  <p style="font-size: 14px; color: #888; margin-top: 20px;">This code will expire in {{ .Minutes }} minutes.</p>
  <p style="font-size: 14px; color: #888;">If you didn't request this code, please ignore this email.</p>
</div>
`))

var textOTP = texttemplate.Must(texttemplate.New("otp.txt").Parse(`Email Verification

Your OTP code is: {{ .Code }}

This code will expire in {{ .Minutes }} minutes.
If you didn't request this code, please ignore this email.
`))

type otpData struct {
	Code    string
	Minutes int
}

type Mail struct {
	client mail.Mail
	ttl    time.Duration
	ins    instrument.Instrumentation
}

// New returns a notifier sending OTP mails through client. ttl is only used
// for the expiry note in the body.
func New(client mail.Mail, ttl time.Duration, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ttl: ttl, ins: ins}
}

func render(code string, ttl time.Duration) (mail.Message, error) {
	data := otpData{Code: code, Minutes: int(ttl / time.Minute)}

	var html, text bytes.Buffer
	if err := htmlOTP.Execute(&html, data); err != nil {
		return mail.Message{}, err
	}
	if err := textOTP.Execute(&text, data); err != nil {
		return mail.Message{}, err
	}

	return mail.Message{
		Subject:  subjectOTP,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}

func (m *Mail) SendOTP(ctx context.Context, email, code string) error {
	ctx, span := m.ins.Tracer("identity.outbound.mail").Start(ctx, "SendOTP")
	defer span.End()

	msg, err := render(code, m.ttl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	msg.To = []string{email}

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	slog.InfoContext(ctx, "otp email sent", "email", email)

	return nil
}
