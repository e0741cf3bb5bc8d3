package config

// Application constants
const (
	AppName = "OLA Report Processor"

	// Report layout
	DefaultReportFileName = "consolidated_filtered_data.xlsx"
	DefaultSheetName      = "Sheet"
	DefaultFontName       = "Arial"
	DefaultFontSize       = 9
	DefaultHeaderFill     = "BDD7EE"

	// Upload limits
	DefaultMaxUploadBytes = 64 << 20
	DefaultMaxFiles       = 52

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
