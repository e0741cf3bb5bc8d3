package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "olareport/internal/errors"
	"olareport/pkg/contracts/domain"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(nil, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestPipeline_ConcatenationOrder(t *testing.T) {
	fileA := workbookBytes(t, exportHeader,
		exportRow("BDWCNFG", "12", "OUT OF OLA", "rjain6", "", "r1"),
		exportRow("BDWCNFG", "12", "IN OLA", "rjain6", "", "skip"),
		exportRow("BDWCNFG", "11", "OUT OF OLA", "dmam", "parts", "r2"),
	)
	fileB := workbookBytes(t, exportHeader,
		exportRow("BDWCNFG", "12", "OUT OF OLA", "sjain16", "", "r3"),
	)

	result, err := newTestPipeline().Run(context.Background(), []Input{
		{Name: "a.xlsx", Data: fileA},
		{Name: "b.xlsx", Data: fileB},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	var ids []string
	for i := 0; i < result.Consolidated.Len(); i++ {
		id, _ := result.Consolidated.Cell(i, domain.ColWorkItemID)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids)
	assert.Equal(t, []string{"11", "12"}, result.Weeks)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "a.xlsx", result.Files[0].Name)
	assert.Equal(t, "xlsx", result.Files[0].Format)
	assert.Equal(t, 3, result.Files[0].RowsRead)
	assert.Equal(t, 2, result.Files[0].RowsKept)
	assert.Equal(t, 1, result.Files[0].Annotated)
	assert.Equal(t, []string{"11", "12"}, result.Files[0].Weeks)
	assert.Len(t, result.Files[0].Checksum, 64)
	assert.NotEqual(t, result.Files[0].Checksum, result.Files[1].Checksum)
}

func TestPipeline_RoundTrip(t *testing.T) {
	data := workbookBytes(t, exportHeader,
		exportRow("BDWCNFG", "12", "OUT OF OLA", "rjain6", "", "W1"),
		exportRow("BDWCNFG", "12", "OUT OF OLA", "unknownuser", "", "W2"),
	)

	result, err := newTestPipeline().Run(context.Background(), []Input{{Name: "week12.xlsx", Data: data}})
	require.NoError(t, err)
	require.Equal(t, 1, result.Rows())

	user, _ := result.Consolidated.Cell(0, domain.ColUserID)
	category, _ := result.Consolidated.Cell(0, domain.ColFailureCategory)
	reason, _ := result.Consolidated.Cell(0, domain.ColFailureReasons)
	assert.Equal(t, "rjain6", user)
	assert.Equal(t, "Genuine Fault / Prioritization Error", category)
	assert.Equal(t, "Missed to close on time by Rohit", reason)

	text := GenerateEmailText(result.Consolidated, result.Weeks)
	assert.NotContains(t, text, "unknownuser")
}

func TestPipeline_MixedFormats(t *testing.T) {
	legacy, err := os.ReadFile(filepath.Join("testdata", "week12.xls"))
	require.NoError(t, err)
	modern := workbookBytes(t, exportHeader,
		exportRow("BDWCNFG", "13", "OUT OF OLA", "sjain16", "", "W9"),
	)

	result, err := newTestPipeline().Run(context.Background(), []Input{
		{Name: "week12.xls", Data: legacy},
		{Name: "week13.xlsx", Data: modern},
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.Rows())
	assert.Equal(t, []string{"12", "13"}, result.Weeks)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "xls", result.Files[0].Format)
	assert.Equal(t, 4, result.Files[0].RowsRead)
	assert.Equal(t, 2, result.Files[0].RowsKept)
	assert.Equal(t, 1, result.Files[0].Annotated)

	reason, _ := result.Consolidated.Cell(0, domain.ColFailureReasons)
	assert.Equal(t, "Missed to close on time by Rohit", reason)
	diary, _ := result.Consolidated.Cell(1, domain.ColDelayDiary)
	assert.Equal(t, "waiting for parts", diary)
	reason, _ = result.Consolidated.Cell(1, domain.ColFailureReasons)
	assert.Empty(t, reason)
	user, _ := result.Consolidated.Cell(2, domain.ColUserID)
	assert.Equal(t, "sjain16", user)
}

func TestPipeline_EmptyBatch(t *testing.T) {
	result, err := newTestPipeline().Run(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, result.Rows())
}

func TestPipeline_NoMatchingRows(t *testing.T) {
	data := workbookBytes(t, exportHeader,
		exportRow("BDWCNFG", "12", "IN OLA", "rjain6", "", "W1"),
	)

	result, err := newTestPipeline().Run(context.Background(), []Input{{Name: "week12.xlsx", Data: data}})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Rows())
	assert.Empty(t, result.Weeks)
	assert.Contains(t, result.Consolidated.Columns, domain.ColFailureReasons)
}

func TestPipeline_AbortsOnBadFile(t *testing.T) {
	good := workbookBytes(t, exportHeader,
		exportRow("BDWCNFG", "12", "OUT OF OLA", "rjain6", "", "W1"),
	)
	missingDiary := workbookBytes(t, exportHeader[:len(exportHeader)-1])
	missingSubTeam := workbookBytes(t, withoutColumn(exportHeader, domain.ColSubTeam),
		withoutColumn(exportRow("BDWCNFG", "13", "OUT OF OLA", "dmam", "", "W2"), "Config"),
	)

	tests := []struct {
		name       string
		inputs     []Input
		wantType   apperrors.ErrorType
		wantFile   string
		wantColumn string
	}{
		{
			name:     "unreadable file",
			inputs:   []Input{{Name: "a.xlsx", Data: good}, {Name: "b.xls", Data: []byte("not a workbook")}},
			wantType: apperrors.ErrTypeUnsupported,
			wantFile: "b.xls",
		},
		{
			name:     "missing column",
			inputs:   []Input{{Name: "a.xlsx", Data: missingDiary}, {Name: "b.xlsx", Data: good}},
			wantType: apperrors.ErrTypeSchema,
			wantFile: "a.xlsx",
		},
		{
			name:       "later file missing report column",
			inputs:     []Input{{Name: "a.xlsx", Data: good}, {Name: "b.xlsx", Data: missingSubTeam}},
			wantType:   apperrors.ErrTypeSchema,
			wantFile:   "b.xlsx",
			wantColumn: domain.ColSubTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestPipeline().Run(context.Background(), tt.inputs)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantFile, appErr.Context["file"])
			if tt.wantColumn != "" {
				assert.Equal(t, tt.wantColumn, appErr.Context["column"])
				assert.Contains(t, appErr.Error(), tt.wantFile)
			}
		})
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	data := workbookBytes(t, exportHeader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline().Run(ctx, []Input{{Name: "a.xlsx", Data: data}})
	assert.ErrorIs(t, err, context.Canceled)
}
