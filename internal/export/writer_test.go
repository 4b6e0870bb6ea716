package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"regtrack/internal/domain"
	"regtrack/internal/export"
)

func sampleRegistration() *domain.Registration {
	approved := domain.NewDate(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	expiry := approved.AddDays(365 * 5)
	return &domain.Registration{
		ID:                 uuid.New(),
		ProductName:        "Amoxicillin 500mg",
		CountryName:        "Germany",
		CountryCode:        "DE",
		RegistrationNumber: "DE-2025-0042",
		Status:             domain.RegistrationApproved,
		ApprovalDate:       &approved,
		ExpiryDate:         &expiry,
		Notes:              "Decentralised procedure, \"RMS\" = NL",
		CreatedAt:          time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestCSVWriter_BOMAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	w, err := export.NewWriter(domain.ExportCSV, &buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader(export.RegistrationColumns))
	require.NoError(t, w.WriteRow(export.RegistrationRow(sampleRegistration())))
	require.NoError(t, w.Close())

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, export.BOM))

	records, err := csv.NewReader(bytes.NewReader(out[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, export.RegistrationColumns, records[0])
	assert.Equal(t, "DE-2025-0042", records[1][3])
	assert.Equal(t, "", records[1][5], "missing submission date renders empty")
	assert.Equal(t, "2025-04-01", records[1][6])
	assert.Equal(t, `Decentralised procedure, "RMS" = NL`, records[1][8])
}

func TestCSVWriter_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	w, err := export.NewCSVWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(export.VariationColumns))
	require.NoError(t, w.Close())

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestXLSXWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := export.NewWriter(domain.ExportXLSX, &buf)
	require.NoError(t, err)

	due := domain.NewDate(time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, w.WriteHeader(export.RenewalColumns))
	require.NoError(t, w.WriteRow(export.RenewalRow(&domain.Renewal{
		ProductName:        "Amoxicillin 500mg",
		CountryName:        "Germany",
		RegistrationNumber: "DE-2025-0042",
		Status:             domain.RenewalUpcoming,
		DueDate:            due,
		CreatedAt:          time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	})))
	require.NoError(t, w.Close())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, export.RenewalColumns, rows[0])
	assert.Equal(t, "upcoming", rows[1][3])
	assert.Equal(t, "2030-03-01", rows[1][4])
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	_, err := export.NewWriter(domain.ExportFormat("pdf"), &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType(domain.ExportCSV))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.ContentType(domain.ExportXLSX))
}

func TestBuildFilename(t *testing.T) {
	day := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "registrations_2026-10-19.csv", export.BuildFilename("registrations", "csv", day))
	assert.Equal(t, "my_export_2026-10-19.xlsx", export.BuildFilename("my export!", "xlsx", day))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b-c", export.SanitizeFilename("a / b-c"))
	assert.Equal(t, "", export.SanitizeFilename("!!!"))
	long := bytes.Repeat([]byte("x"), 150)
	assert.Len(t, export.SanitizeFilename(string(long)), 100)
}
