package dataprocessing

import (
	"sort"
	"strconv"
	"strings"

	"olareport/pkg/contracts/domain"
)

const emailGreeting = "Hi Team,"

// DistinctWeeks collects the REPORTING_WEEK values of the given tables,
// without blanks or duplicates, in ascending order. Values compare
// numerically when every one of them is a number, otherwise as text.
func DistinctWeeks(tables ...*domain.Table) []string {
	seen := make(map[string]struct{})
	weeks := []string{}

	for _, t := range tables {
		if t == nil {
			continue
		}
		idx := t.ColumnIndex(domain.ColReportingWeek)
		if idx < 0 {
			continue
		}
		for _, row := range t.Rows {
			week, present := cellOK(row, idx)
			if domain.IsBlank(week, present) {
				continue
			}
			if _, dup := seen[week]; dup {
				continue
			}
			seen[week] = struct{}{}
			weeks = append(weeks, week)
		}
	}

	SortWeeks(weeks)
	return weeks
}

// SortWeeks orders week labels in place
func SortWeeks(weeks []string) {
	numbers := make(map[string]float64, len(weeks))
	numeric := true
	for _, w := range weeks {
		n, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			numeric = false
			break
		}
		numbers[w] = n
	}

	if numeric {
		sort.SliceStable(weeks, func(i, j int) bool {
			return numbers[weeks[i]] < numbers[weeks[j]]
		})
		return
	}
	sort.Strings(weeks)
}

// GenerateEmailText renders the summary pasted into the weekly OLA email: a
// greeting, the week list and the table as tab separated text. The table is
// written as given, header first. Cell values are not quoted, so embedded
// tabs or newlines shift the layout.
func GenerateEmailText(table *domain.Table, weeks []string) string {
	var b strings.Builder

	b.WriteString(emailGreeting)
	b.WriteString("\n\nBelow is the OLA Analysis report for Week ")
	b.WriteString(strings.Join(weeks, ", "))
	b.WriteString(".\n\n")

	if table == nil {
		return b.String()
	}

	b.WriteString(strings.Join(table.Columns, "\t"))
	b.WriteByte('\n')

	width := len(table.Columns)
	for _, row := range table.Rows {
		for i := 0; i < width; i++ {
			if i > 0 {
				b.WriteByte('\t')
			}
			if i < len(row) {
				b.WriteString(row[i])
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
