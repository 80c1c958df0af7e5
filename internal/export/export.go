// Package export writes list results as CSV or XLSX downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Sheet1"
)

// Row exposes record columns by field name.
type Row interface {
	Field(name string) any
}

// Table is an ordered set of fields with their headers. Fields and Headers
// have the same length.
type Table struct {
	Fields   []string
	Headers  []string
	Filename string // without extension
}

// Requested reports whether format names a supported export.
func Requested(format string) bool {
	return format == FormatCSV || format == FormatExcel
}

// Send writes rows in the requested format as an attachment.
func Send[R Row](c *fiber.Ctx, format string, t Table, rows []R) error {
	if format == FormatExcel {
		return SendExcel(c, t, rows)
	}
	return SendCSV(c, t, rows)
}

func SendCSV[R Row](c *fiber.Ctx, t Table, rows []R) error {
	body, err := CSV(t, rows)
	if err != nil {
		return err
	}
	c.Attachment(t.Filename + ".csv")
	c.Set(fiber.HeaderContentType, ContentTypeCSV)
	return c.Send(body)
}

func SendExcel[R Row](c *fiber.Ctx, t Table, rows []R) error {
	body, err := Excel(t, rows)
	if err != nil {
		return err
	}
	c.Attachment(t.Filename + ".xlsx")
	c.Set(fiber.HeaderContentType, ContentTypeXLSX)
	return c.Send(body)
}

// CSV renders the header row followed by one line per row.
func CSV[R Row](t Table, rows []R) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	record := make([]string, len(t.Fields))
	for _, r := range rows {
		for i, f := range t.Fields {
			record[i] = Text(r.Field(f))
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Excel renders a single sheet workbook with a bold header row.
func Excel[R Row](t Table, rows []R) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}

	for i, r := range rows {
		cells := make([]any, len(t.Fields))
		for j, field := range t.Fields {
			cells[j] = Cell(r.Field(field))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// Text formats a field value for CSV.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case decimal.Decimal:
		return x.StringFixed(2)
	case decimal.NullDecimal:
		if !x.Valid {
			return ""
		}
		return x.Decimal.StringFixed(2)
	case time.Time:
		return formatTime(x)
	case *time.Time:
		if x == nil {
			return ""
		}
		return formatTime(*x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Cell converts a field value to what excelize stores natively, so amounts
// land as numbers.
func Cell(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal.InexactFloat64()
	case uint:
		return int64(x)
	default:
		return Text(v)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
