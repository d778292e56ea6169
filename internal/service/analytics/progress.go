package analytics

import (
	"math"
	"time"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/analytics"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/report"
)

const (
	// ReportWindow is how many of the most recent daily reports feed one
	// analysis run.
	ReportWindow = 30
	// VelocityWindow is how many of the most recent reports feed the
	// velocity average.
	VelocityWindow = 7

	// HighDelayRiskThreshold triggers the staffing recommendation and
	// the delay notification fan-out.
	HighDelayRiskThreshold = 0.7
	// LowVelocityThreshold triggers the resource-allocation recommendation.
	LowVelocityThreshold = 0.5
	// ScheduleGapThreshold triggers the catch-up recommendation.
	ScheduleGapThreshold = 0.2
)

const (
	recommendHighDelayRisk = "High delay risk detected. Consider increasing workforce or extending work hours."
	recommendLowVelocity   = "Low work velocity. Review resource allocation and potential bottlenecks."
	recommendScheduleGap   = "Work progress is behind schedule. Implement catch-up strategies."
	recommendOnTrack       = "Project is on track. Continue current pace."
)

// ComputeProgress derives progress analytics for a project from its
// most recent daily reports, ordered by report date descending. The
// result carries only computed fields; the caller assigns identity.
func ComputeProgress(proj *project.Project, reports []*report.DailyReport, now time.Time) (*analytics.ProgressAnalytics, error) {
	totalDays := ceilDays(proj.EndDate.Sub(proj.StartDate))
	if totalDays <= 0 {
		return nil, analytics.ErrInvalidSchedule
	}

	elapsedDays := ceilDays(now.Sub(proj.StartDate))
	timeProgress := math.Min(elapsedDays/totalDays, 1)

	var totalWorkProgress float64
	workItemCount := 0
	for _, r := range reports {
		for _, work := range r.WorkAccomplishments {
			totalWorkProgress += work.PercentageComplete
			workItemCount++
		}
	}

	avgWorkProgress := 0.0
	if workItemCount > 0 {
		avgWorkProgress = totalWorkProgress / float64(workItemCount) / 100
	}

	progressGap := timeProgress - avgWorkProgress
	delayRisk := clamp01(progressGap)

	// A project that has not started yet has zero (or negative) time
	// progress; the rate is meaningless there, so fall through to the
	// pessimistic doubled-schedule prediction.
	currentRate := 0.0
	if timeProgress != 0 {
		currentRate = avgWorkProgress / timeProgress
	}
	predictedDays := totalDays * 2
	if currentRate > 0 {
		predictedDays = totalDays / currentRate
	}
	predictedEndDate := proj.StartDate.AddDate(0, 0, int(predictedDays))

	velocity := computeVelocity(reports)

	return &analytics.ProgressAnalytics{
		AnalysisType:       "progress_analysis",
		ProgressPercentage: int(math.Round(avgWorkProgress * 100)),
		TimeProgress:       int(math.Round(timeProgress * 100)),
		DelayRisk:          round2(delayRisk),
		PredictedEndDate:   predictedEndDate.Format("2006-01-02"),
		Velocity:           round2(velocity),
		Recommendations:    recommendations(delayRisk, velocity, progressGap),
	}, nil
}

// computeVelocity averages the quantity accomplished per report over
// the most recent reports.
func computeVelocity(reports []*report.DailyReport) float64 {
	recent := reports
	if len(recent) > VelocityWindow {
		recent = recent[:VelocityWindow]
	}
	if len(recent) == 0 {
		return 0
	}

	var completed float64
	for _, r := range recent {
		for _, work := range r.WorkAccomplishments {
			completed += work.QuantityAccomplished
		}
	}
	return completed / float64(len(recent))
}

// recommendations collects every triggered rule in order; the on-track
// message is the fallback when none fire.
func recommendations(delayRisk, velocity, progressGap float64) []string {
	recs := []string{}

	if delayRisk > HighDelayRiskThreshold {
		recs = append(recs, recommendHighDelayRisk)
	}
	if velocity < LowVelocityThreshold {
		recs = append(recs, recommendLowVelocity)
	}
	if progressGap > ScheduleGapThreshold {
		recs = append(recs, recommendScheduleGap)
	}
	if len(recs) == 0 {
		recs = append(recs, recommendOnTrack)
	}

	return recs
}

func ceilDays(d time.Duration) float64 {
	return math.Ceil(d.Hours() / 24)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
