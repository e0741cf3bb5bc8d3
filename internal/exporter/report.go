package exporter

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/xuri/excelize/v2"

	"olareport/internal/config"
	apperrors "olareport/internal/errors"
	"olareport/pkg/contracts/domain"
)

// plainNumber matches decimals a spreadsheet would store as numbers without
// losing text: no leading zeros, no exponent, at most 15 integer digits
var plainNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]{0,14})(\.[0-9]+)?$`)

// Formatter renders a consolidated table as the styled OLA report workbook
type Formatter struct {
	sheetName  string
	fontName   string
	fontSize   float64
	headerFill string
}

// NewFormatter creates a formatter from the report section of the config
func NewFormatter(cfg config.ReportConfig) *Formatter {
	f := DefaultFormatter()
	if cfg.SheetName != "" {
		f.sheetName = cfg.SheetName
	}
	if cfg.FontName != "" {
		f.fontName = cfg.FontName
	}
	if cfg.FontSize > 0 {
		f.fontSize = cfg.FontSize
	}
	if cfg.HeaderFill != "" {
		f.headerFill = cfg.HeaderFill
	}
	return f
}

// DefaultFormatter uses Arial 9 with a light blue header
func DefaultFormatter() *Formatter {
	return &Formatter{
		sheetName:  config.DefaultSheetName,
		fontName:   config.DefaultFontName,
		fontSize:   config.DefaultFontSize,
		headerFill: config.DefaultHeaderFill,
	}
}

// FormatExcel builds the report workbook with the default styling
func FormatExcel(table *domain.Table) (*excelize.File, error) {
	return DefaultFormatter().Format(table)
}

// Format projects the table onto the report columns and writes it to a
// single sheet: header in row 1, then one row per record in table order.
// Every cell shares font, border and alignment; the header adds a fill.
// The caller owns the returned file and must Close it.
func (f *Formatter) Format(table *domain.Table) (*excelize.File, error) {
	if table == nil {
		table = domain.NewTable()
	}

	report, missing := table.Select(domain.ReportColumns...)
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError("consolidated report", missing...)
	}

	wb := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			wb.Close()
		}
	}()

	sheet := wb.GetSheetName(0)
	if sheet != f.sheetName {
		if err := wb.SetSheetName(sheet, f.sheetName); err != nil {
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		sheet = f.sheetName
	}

	headerStyle, err := wb.NewStyle(f.cellStyle(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	dataStyle, err := wb.NewStyle(f.cellStyle(false))
	if err != nil {
		return nil, fmt.Errorf("failed to create data style: %w", err)
	}

	header := make([]interface{}, len(report.Columns))
	for i, c := range report.Columns {
		header[i] = c
	}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(domain.ReportColumns))
	if err != nil {
		return nil, err
	}
	if err := wb.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if report.Len() > 0 {
		last := fmt.Sprintf("%s%d", lastCol, report.Len()+1)
		if err := wb.SetCellStyle(sheet, "A2", last, dataStyle); err != nil {
			return nil, fmt.Errorf("failed to style rows: %w", err)
		}
	}

	ok = true
	return wb, nil
}

// WriteTo formats the table and writes the workbook to w
func (f *Formatter) WriteTo(w io.Writer, table *domain.Table) error {
	wb, err := f.Format(table)
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := wb.Write(w); err != nil {
		return apperrors.NewStorageError("failed to write report", err)
	}
	return nil
}

func (f *Formatter) cellStyle(header bool) *excelize.Style {
	style := &excelize.Style{
		Font: &excelize.Font{Family: f.fontName, Size: f.fontSize},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}
	if header {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{f.headerFill}}
	}
	return style
}

// cellValue returns a number for plain decimal text, otherwise the text
func cellValue(v string) interface{} {
	if !plainNumber.MatchString(v) {
		return v
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	return v
}
