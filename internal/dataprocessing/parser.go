package dataprocessing

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	apperrors "olareport/internal/errors"
	"olareport/pkg/contracts/domain"
)

// Format identifies the container of an input spreadsheet
type Format string

const (
	// FormatXLS is the legacy BIFF workbook inside an OLE2 compound file
	FormatXLS Format = "xls"
	// FormatXLSX is the Office Open XML workbook inside a ZIP package
	FormatXLSX Format = "xlsx"
)

var (
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
)

// SupportedExtensions lists the file extensions accepted as input
var SupportedExtensions = []string{".xls", ".xlsx", ".xlsm"}

// DetectFormat identifies a workbook by its leading bytes. The extension is
// only used to reject binary (.xlsb) workbooks, which share the ZIP
// signature with .xlsx but cannot be read.
func DetectFormat(name string, data []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case bytes.HasPrefix(data, ole2Magic):
		return FormatXLS, nil
	case bytes.HasPrefix(data, zipMagic):
		if ext == ".xlsb" {
			return "", apperrors.NewBinaryWorkbookError(name)
		}
		return FormatXLSX, nil
	case len(data) == 0:
		return "", apperrors.NewParsingError(name, fmt.Errorf("file is empty"))
	}

	if ext == "" {
		ext = "unknown"
	}
	return "", apperrors.NewUnsupportedFormatError(name, ext)
}

// ParseWorkbook reads the first sheet of a workbook into a table. The first
// row is the header; rows with no non-blank cell are skipped.
func ParseWorkbook(name string, data []byte) (*domain.Table, Format, error) {
	format, err := DetectFormat(name, data)
	if err != nil {
		return nil, "", err
	}

	var rows [][]string
	switch format {
	case FormatXLS:
		rows, err = readXLS(data)
	case FormatXLSX:
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, format, apperrors.NewParsingError(name, err)
	}

	return buildTable(rows), format, nil
}

// readXLSX returns the cell text of the first worksheet
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return f.GetRows(sheets[0])
}

// readXLS returns the cell text of the first worksheet of a BIFF workbook.
// The decoder panics on some truncated files, so panics become errors.
func readXLS(data []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("corrupt xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

// sheetRow returns row i, or nil when the sheet has no record for it.
// WorkSheet.Row dereferences the missing entry instead of returning nil.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// buildTable turns raw sheet rows into a header-addressed table
func buildTable(rows [][]string) *domain.Table {
	if len(rows) == 0 {
		return domain.NewTable()
	}

	table := domain.NewTable(rows[0]...)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, domain.Row(row))
	}
	return table
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
