package port

import "context"

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendLoginCode(ctx context.Context, toEmail, toName, code string) error
	SendPasswordReset(ctx context.Context, toEmail, toName, token string) error
}
