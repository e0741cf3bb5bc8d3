package domain

// Column names of the OLA completion export
const (
	ColQueueCode       = "QUEUE_CODE"
	ColTaskClosed      = "TASK_CLOSED"
	ColNewContractNo   = "NEW_CONTRACT_NO"
	ColCountry         = "COUNTRY"
	ColWorkItemID      = "WORK_ITEM_ID_CALC"
	ColReportingWeek   = "REPORTING_WEEK"
	ColProductOffering = "PRODUCT_OFFERING"
	ColOLATarget       = "D_OLA_TARGET"
	ColLeadTime        = "LEAD_TIME_OVERALL"
	ColInOutOLA        = "D_IN_OUT_OLA"
	ColUserID          = "USER_ID_COMPLETION"
	ColCustomerName    = "CUSTOMER_NAME"
	ColSubTeam         = "Sub Team"
	ColDelayDiary      = "DELAY_DIARY"

	ColFailureCategory = "Failure category"
	ColFailureReasons  = "Failure Reasons"
)

// Filter and annotation literals
const (
	QueueBDWCNFG = "BDWCNFG"
	OutOfOLA     = "OUT OF OLA"

	CategoryGenuineFault = "Genuine Fault / Prioritization Error"
	ReasonMissedPrefix   = "Missed to close on time by "
)

// Report output identity
const (
	ReportFileName = "consolidated_filtered_data.xlsx"
	ReportMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FilterColumns are the columns the row filter needs in every input file
var FilterColumns = []string{ColQueueCode, ColInOutOLA, ColUserID, ColDelayDiary}

// ReportColumns are the columns of the consolidated report, in output order
var ReportColumns = []string{
	ColQueueCode,
	ColTaskClosed,
	ColNewContractNo,
	ColCountry,
	ColWorkItemID,
	ColReportingWeek,
	ColProductOffering,
	ColOLATarget,
	ColLeadTime,
	ColInOutOLA,
	ColUserID,
	ColCustomerName,
	ColSubTeam,
	ColFailureCategory,
	ColFailureReasons,
}

// RequiredColumns are the columns every input file must carry: the report
// columns the export itself provides plus DELAY_DIARY. The failure columns
// are derived and may be absent.
var RequiredColumns = []string{
	ColQueueCode,
	ColTaskClosed,
	ColNewContractNo,
	ColCountry,
	ColWorkItemID,
	ColReportingWeek,
	ColProductOffering,
	ColOLATarget,
	ColLeadTime,
	ColInOutOLA,
	ColUserID,
	ColCustomerName,
	ColSubTeam,
	ColDelayDiary,
}

// FileResult records how one input file contributed to a batch
type FileResult struct {
	Name      string   `json:"name"`
	Format    string   `json:"format"`
	Checksum  string   `json:"checksum"`
	RowsRead  int      `json:"rows_read"`
	RowsKept  int      `json:"rows_kept"`
	Annotated int      `json:"annotated"`
	Weeks     []string `json:"weeks"`
}
