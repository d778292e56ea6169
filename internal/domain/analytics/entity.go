package analytics

import "time"

// ProgressAnalytics is one run of the progress analyzer. The analysis
// log is append-only: rows are written once and never updated.
type ProgressAnalytics struct {
	ID                 string
	ProjectID          string
	ReportID           string
	AnalysisType       string // "progress_analysis"
	ProgressPercentage int    // rounded avg work progress, 0-100
	TimeProgress       int    // rounded elapsed share of schedule, 0-100
	DelayRisk          float64
	PredictedEndDate   string // "YYYY-MM-DD"
	Velocity           float64
	Recommendations    []string
	CreatedAt          time.Time
}
