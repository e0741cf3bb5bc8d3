// Package dataprocessing turns weekly OLA completion exports into the
// consolidated exception report.
//
// # Flow
//
// Every input goes through the same steps:
//
//  1. ParseWorkbook detects .xls or .xlsx by content and reads the first sheet
//     into a domain.Table, using the first row as the header.
//  2. RowFilter keeps BDWCNFG rows that are OUT OF OLA and were completed by a
//     known user, and marks rows without a delay diary as a genuine fault.
//  3. Pipeline concatenates the filtered tables in input order.
//
// GenerateEmailText renders the consolidated table as the tab separated
// block pasted into the weekly email.
//
// # Usage
//
//	p := dataprocessing.NewPipeline(dir, dataprocessing.WithLogger(logger))
//	result, err := p.Run(ctx, inputs)
//	if err != nil {
//	    return err
//	}
//	if result == nil {
//	    return nil // empty batch
//	}
//	text := dataprocessing.GenerateEmailText(result.Consolidated, result.Weeks)
package dataprocessing
