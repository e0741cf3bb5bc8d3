package dataprocessing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"olareport/pkg/contracts/domain"
)

// exportHeader mirrors the column order of the weekly completion export
var exportHeader = []string{
	domain.ColQueueCode,
	domain.ColTaskClosed,
	domain.ColNewContractNo,
	domain.ColCountry,
	domain.ColWorkItemID,
	domain.ColReportingWeek,
	domain.ColProductOffering,
	domain.ColOLATarget,
	domain.ColLeadTime,
	domain.ColInOutOLA,
	domain.ColUserID,
	domain.ColCustomerName,
	domain.ColSubTeam,
	domain.ColDelayDiary,
}

// exportRow builds a row in exportHeader order
func exportRow(queue, week, ola, user, diary, workItem string) []string {
	return []string{
		queue, "2024-03-04", "C-100", "IN", workItem, week,
		"MPLS", "5", "7", ola, user, "Acme", "Config", diary,
	}
}

// workbookBytes writes rows into the first sheet of a new xlsx
func workbookBytes(t *testing.T, rows ...[]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func exportTable(rows ...[]string) *domain.Table {
	table := domain.NewTable(exportHeader...)
	for _, r := range rows {
		table.Rows = append(table.Rows, domain.Row(r))
	}
	return table
}

// withoutColumn returns values with the first occurrence of name removed
func withoutColumn(values []string, name string) []string {
	out := make([]string, 0, len(values))
	dropped := false
	for _, v := range values {
		if v == name && !dropped {
			dropped = true
			continue
		}
		out = append(out, v)
	}
	return out
}
