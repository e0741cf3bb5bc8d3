package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "olareport/internal/errors"
)

func TestDetectFormat(t *testing.T) {
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, 0, 0)
	zip := []byte{'P', 'K', 0x03, 0x04, 0x14}

	tests := []struct {
		name     string
		file     string
		data     []byte
		want     Format
		wantType apperrors.ErrorType
	}{
		{name: "ole2 is xls", file: "week12.xls", data: ole, want: FormatXLS},
		{name: "ole2 with wrong extension", file: "week12.xlsx", data: ole, want: FormatXLS},
		{name: "zip is xlsx", file: "week12.xlsx", data: zip, want: FormatXLSX},
		{name: "macro workbook", file: "week12.xlsm", data: zip, want: FormatXLSX},
		{name: "binary workbook rejected", file: "week12.xlsb", data: zip, wantType: apperrors.ErrTypeUnsupported},
		{name: "csv rejected", file: "week12.csv", data: []byte("a,b\n1,2\n"), wantType: apperrors.ErrTypeUnsupported},
		{name: "empty file", file: "week12.xls", data: nil, wantType: apperrors.ErrTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.file, tt.data)
			if tt.wantType != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWorkbook_XLSX(t *testing.T) {
	data := workbookBytes(t,
		exportHeader,
		exportRow("BDWCNFG", "12", "OUT OF OLA", "rjain6", "", "W1"),
		[]string{"", "", ""},
		exportRow("OTHER", "12", "IN OLA", "dmam", "late parts", "W2"),
	)

	table, format, err := ParseWorkbook("week12.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, format)
	assert.Equal(t, exportHeader, table.Columns)
	require.Equal(t, 2, table.Len(), "blank rows are skipped")

	user, ok := table.Cell(0, "USER_ID_COMPLETION")
	assert.True(t, ok)
	assert.Equal(t, "rjain6", user)

	diary, ok := table.Cell(1, "DELAY_DIARY")
	assert.True(t, ok)
	assert.Equal(t, "late parts", diary)
}

// week12.xls is a BIFF8 export with a numeric OLA target and lead time,
// a blank DELAY_DIARY and no record at all for sheet row 4.
func TestDetectFormat_BinaryWorkbookHint(t *testing.T) {
	_, err := DetectFormat("Week12.XLSB", []byte{'P', 'K', 0x03, 0x04, 0x14})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeUnsupported, appErr.Type)
	assert.Contains(t, appErr.Message, "as .xls or .xlsx")
	assert.Equal(t, apperrors.ResaveBinaryHint, appErr.Context["hint"])
	assert.Equal(t, "Week12.XLSB", appErr.Context["file"])
}

func TestParseWorkbook_XLS(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "week12.xls"))
	require.NoError(t, err)

	table, format, err := ParseWorkbook("week12.xls", data)
	require.NoError(t, err)

	assert.Equal(t, FormatXLS, format)
	assert.Equal(t, exportHeader, table.Columns)
	require.Equal(t, 4, table.Len(), "the missing row is skipped")

	tests := []struct {
		row    int
		column string
		want   string
	}{
		{row: 0, column: "USER_ID_COMPLETION", want: "rjain6"},
		{row: 0, column: "D_OLA_TARGET", want: "5"},
		{row: 0, column: "LEAD_TIME_OVERALL", want: "7.5"},
		{row: 0, column: "DELAY_DIARY", want: ""},
		{row: 1, column: "DELAY_DIARY", want: "waiting for parts"},
		{row: 2, column: "D_IN_OUT_OLA", want: "IN OLA"},
		{row: 3, column: "QUEUE_CODE", want: "OTHERQ"},
	}
	for _, tt := range tests {
		got, ok := table.Cell(tt.row, tt.column)
		assert.True(t, ok, "row %d %s", tt.row, tt.column)
		assert.Equal(t, tt.want, got, "row %d %s", tt.row, tt.column)
	}
}

func TestParseWorkbook_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{name: "truncated zip", file: "bad.xlsx", data: []byte{'P', 'K', 0x03, 0x04, 0x00, 0x01}},
		{name: "truncated ole2", file: "bad.xls", data: []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseWorkbook(tt.file, tt.data)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.file, appErr.Context["file"])
		})
	}
}

func TestBuildTable_Empty(t *testing.T) {
	table := buildTable(nil)
	assert.Empty(t, table.Columns)
	assert.Equal(t, 0, table.Len())
}
