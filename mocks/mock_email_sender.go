package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendLoginCode(ctx context.Context, toEmail, toName, code string) error {
	args := m.Called(ctx, toEmail, toName, code)
	return args.Error(0)
}

func (m *MockEmailSender) SendPasswordReset(ctx context.Context, toEmail, toName, token string) error {
	args := m.Called(ctx, toEmail, toName, token)
	return args.Error(0)
}
