package report

import "time"

// WorkAccomplishment is one WBS line item inside a daily report.
type WorkAccomplishment struct {
	WBSItemID            string  `json:"wbsItemId"`
	PercentageComplete   float64 `json:"percentageComplete"`
	QuantityAccomplished float64 `json:"quantityAccomplished"`
}

// DailyReport is a field report submitted for one project day.
// Reports are immutable once created.
type DailyReport struct {
	ID                  string
	ProjectID           string
	ReportDate          string // "YYYY-MM-DD"
	WorkAccomplishments []WorkAccomplishment
	CreatedAt           time.Time
}
