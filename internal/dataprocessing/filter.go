package dataprocessing

import (
	apperrors "olareport/internal/errors"
	"olareport/pkg/contracts/domain"
)

// FilterStats counts what the row filter did to one table
type FilterStats struct {
	RowsRead  int
	RowsKept  int
	Annotated int
}

// RowFilter keeps BDWCNFG rows that missed their OLA and were completed by
// a directory user, and explains the ones closed without a delay diary
type RowFilter struct {
	directory *domain.UserDirectory
}

// NewRowFilter creates a filter over the given directory. A nil directory
// means the built-in one.
func NewRowFilter(directory *domain.UserDirectory) *RowFilter {
	if directory == nil {
		directory = domain.DefaultUserDirectory()
	}
	return &RowFilter{directory: directory}
}

// ProcessExcel filters and annotates one parsed export using the built-in
// user directory. source names the file in errors.
func ProcessExcel(source string, table *domain.Table) (*domain.Table, error) {
	out, _, err := NewRowFilter(nil).Apply(source, table)
	return out, err
}

// Apply returns a new table holding the rows that pass every predicate, with
// the failure category and reason columns appended. The input is not modified.
//
// A row passes when QUEUE_CODE is BDWCNFG, D_IN_OUT_OLA is OUT OF OLA and
// USER_ID_COMPLETION is a directory key, all compared exactly. A kept row
// with a blank DELAY_DIARY is classified as a genuine fault; other kept rows
// keep whatever the derived columns already held, empty by default.
func (f *RowFilter) Apply(source string, table *domain.Table) (*domain.Table, FilterStats, error) {
	stats := FilterStats{RowsRead: table.Len()}

	if missing := table.MissingColumns(domain.FilterColumns...); len(missing) > 0 {
		return nil, stats, apperrors.NewSchemaError(source, missing...)
	}

	queueIdx := table.ColumnIndex(domain.ColQueueCode)
	olaIdx := table.ColumnIndex(domain.ColInOutOLA)
	userIdx := table.ColumnIndex(domain.ColUserID)
	diaryIdx := table.ColumnIndex(domain.ColDelayDiary)

	columns := append([]string(nil), table.Columns...)
	categoryIdx := indexOrAppend(&columns, domain.ColFailureCategory)
	reasonsIdx := indexOrAppend(&columns, domain.ColFailureReasons)

	out := domain.NewTable(columns...)
	for _, row := range table.Rows {
		if cell(row, queueIdx) != domain.QueueBDWCNFG ||
			cell(row, olaIdx) != domain.OutOfOLA {
			continue
		}
		userID := cell(row, userIdx)
		if !f.directory.Contains(userID) {
			continue
		}

		kept := make(domain.Row, len(columns))
		copy(kept, row)

		diary, present := cellOK(row, diaryIdx)
		if domain.IsBlank(diary, present) {
			kept[categoryIdx] = domain.CategoryGenuineFault
			kept[reasonsIdx] = domain.ReasonMissedPrefix + f.directory.DisplayName(userID)
			stats.Annotated++
		}

		out.Rows = append(out.Rows, kept)
	}

	stats.RowsKept = out.Len()
	return out, stats, nil
}

// indexOrAppend returns the position of name, appending it when absent
func indexOrAppend(columns *[]string, name string) int {
	for i, c := range *columns {
		if c == name {
			return i
		}
	}
	*columns = append(*columns, name)
	return len(*columns) - 1
}

func cell(row domain.Row, idx int) string {
	v, _ := cellOK(row, idx)
	return v
}

func cellOK(row domain.Row, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}
