package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"regtrack/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendLoginCode(ctx context.Context, toEmail, toName, code string) error {
	subject := "Your RegTrack sign-in code"
	htmlBody := buildLoginCodeHTML(toName, code)
	textBody := fmt.Sprintf("Hi %s,\n\nYour sign-in code is %s.\n\nIt expires in a few minutes. If you did not try to sign in, you can ignore this email.\n\nRegTrack", toName, code)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendPasswordReset(ctx context.Context, toEmail, toName, token string) error {
	subject := "Reset your RegTrack password"
	htmlBody := buildPasswordResetHTML(toName, token)
	textBody := fmt.Sprintf("Hi %s,\n\nUse this token to reset your password within the next hour:\n\n%s\n\nIf you did not ask for a reset, you can ignore this email.\n\nRegTrack", toName, token)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildLoginCodeHTML(name, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <p>Hi %s,</p>
  <p>Your sign-in code is:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</p>
  <p>It expires in a few minutes. If you did not try to sign in, you can ignore this email.</p>
  <p>RegTrack</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(code))
}

func buildPasswordResetHTML(name, token string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <p>Hi %s,</p>
  <p>Use this token to reset your password within the next hour:</p>
  <p style="font-family: monospace; word-break: break-all;">%s</p>
  <p>If you did not ask for a reset, you can ignore this email.</p>
  <p>RegTrack</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(token))
}
