package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"regtrack/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, tenantID uuid.UUID, req service.ExportRequest, w io.Writer) error {
	args := m.Called(ctx, tenantID, req, w)
	return args.Error(0)
}
