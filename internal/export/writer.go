// Package export renders registry records as CSV or XLSX spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"regtrack/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// SheetName is the single worksheet of XLSX exports.
const SheetName = "Export"

// RowWriter receives a header row followed by data rows. Close flushes the
// output and must be called once after the last row.
type RowWriter interface {
	WriteHeader(columns []string) error
	WriteRow(row []string) error
	Close() error
}

// NewWriter returns a RowWriter for format that writes to w.
func NewWriter(format domain.ExportFormat, w io.Writer) (RowWriter, error) {
	switch format {
	case domain.ExportCSV:
		return NewCSVWriter(w)
	case domain.ExportXLSX:
		return NewXLSXWriter(w)
	default:
		return nil, domain.ErrInvalidExportFormat
	}
}

// ContentType returns the MIME type of format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportXLSX {
		return domain.AllowedFileTypes[domain.FileTypeXLSX]
	}
	return "text/csv; charset=utf-8"
}

// CSVWriter wraps csv.Writer and prefixes the output with a BOM.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter writes the BOM to w and returns a CSVWriter.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	if _, err := w.Write(BOM); err != nil {
		return nil, fmt.Errorf("writing BOM: %w", err)
	}
	return &CSVWriter{csv: csv.NewWriter(w)}, nil
}

func (w *CSVWriter) WriteHeader(columns []string) error {
	return w.csv.Write(columns)
}

func (w *CSVWriter) WriteRow(row []string) error {
	return w.csv.Write(row)
}

func (w *CSVWriter) Close() error {
	w.csv.Flush()
	return w.csv.Error()
}

// XLSXWriter fills a single-sheet workbook with a bold, auto-filtered
// header row. The workbook is written to the destination on Close.
type XLSXWriter struct {
	dst     io.Writer
	file    *excelize.File
	bold    int
	row     int
	columns int
}

// NewXLSXWriter creates an XLSXWriter that writes the workbook to w.
func NewXLSXWriter(w io.Writer) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	return &XLSXWriter{dst: w, file: f, bold: bold, row: 1}, nil
}

func (w *XLSXWriter) WriteHeader(columns []string) error {
	w.columns = len(columns)
	return w.WriteRow(columns)
}

func (w *XLSXWriter) WriteRow(row []string) error {
	axis, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(SheetName, axis, &row); err != nil {
		return fmt.Errorf("writing row %d: %w", w.row, err)
	}
	w.row++
	return nil
}

func (w *XLSXWriter) Close() error {
	defer w.file.Close()

	if w.columns > 0 {
		if err := w.file.SetRowStyle(SheetName, 1, 1, w.bold); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(w.columns, w.row-1)
		if err != nil {
			return err
		}
		if err := w.file.AutoFilter(SheetName, "A1:"+last, nil); err != nil {
			return fmt.Errorf("setting autofilter: %w", err)
		}
	}
	if _, err := w.file.WriteTo(w.dst); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
