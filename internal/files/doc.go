// Package files finds and loads the weekly exports a report run consumes.
//
// Discovery lists the workbooks in an input directory in name order and
// reads them into pipeline inputs after validating each path.
//
// Example usage:
//
//	d := files.NewDiscovery("", validator)
//	found, err := d.FindSpreadsheets("exports")
//	inputs, err := d.LoadInputs(files.Paths(found))
package files
