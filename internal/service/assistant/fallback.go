package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/assistant"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
)

const failedVerificationsLimit = 10

const helpReply = `I can help you with:
- "ongoing projects" to list projects currently in progress
- "failed verifications" to list recently flagged site photos
Ask me anything about project progress, payroll validation or photo verification.`

// respondRuleBased answers a query without a language model, by keyword
// matching against the intents the platform can serve from its own data.
func (s *service) respondRuleBased(ctx context.Context, message string) (*assistant.ChatResponse, error) {
	lowered := strings.ToLower(message)

	switch {
	case containsAny(lowered, "ongoing", "active project", "current project", "in progress"):
		return s.listOngoingProjects(ctx)
	case containsAny(lowered, "failed", "flagged", "rejected", "implausible"):
		return s.listFailedVerifications(ctx)
	default:
		return &assistant.ChatResponse{
			Reply:  helpReply,
			Intent: assistant.IntentHelp,
		}, nil
	}
}

func (s *service) listOngoingProjects(ctx context.Context) (*assistant.ChatResponse, error) {
	projects, err := s.projectRepo.ListByStatus(ctx, project.StatusOngoing)
	if err != nil {
		return nil, fmt.Errorf("list ongoing projects: %w", err)
	}

	if len(projects) == 0 {
		return &assistant.ChatResponse{
			Reply:  "There are no ongoing projects right now.",
			Intent: assistant.IntentOngoingProjects,
		}, nil
	}

	items := make([]assistant.Item, 0, len(projects))
	for _, p := range projects {
		items = append(items, assistant.Item{
			ID:    p.ID,
			Title: p.Name,
			Extra: fmt.Sprintf("%s to %s", p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02")),
		})
	}

	return &assistant.ChatResponse{
		Reply:  fmt.Sprintf("There are %d ongoing project(s).", len(projects)),
		Intent: assistant.IntentOngoingProjects,
		Items:  items,
	}, nil
}

func (s *service) listFailedVerifications(ctx context.Context) (*assistant.ChatResponse, error) {
	failed, err := s.verificationRepo.ListRecentFailed(ctx, failedVerificationsLimit)
	if err != nil {
		return nil, fmt.Errorf("list failed verifications: %w", err)
	}

	if len(failed) == 0 {
		return &assistant.ChatResponse{
			Reply:  "No site photos have been flagged recently.",
			Intent: assistant.IntentFailedVerifications,
		}, nil
	}

	items := make([]assistant.Item, 0, len(failed))
	for _, v := range failed {
		title := "unnamed upload"
		if v.FileName != nil {
			title = *v.FileName
		}
		extra := fmt.Sprintf("confidence %.2f", v.Confidence)
		if v.ProjectName != nil {
			extra = fmt.Sprintf("%s, confidence %.2f", *v.ProjectName, v.Confidence)
		}
		items = append(items, assistant.Item{
			ID:    v.ID,
			Title: title,
			Extra: extra,
		})
	}

	return &assistant.ChatResponse{
		Reply:  fmt.Sprintf("%d site photo(s) were flagged recently.", len(failed)),
		Intent: assistant.IntentFailedVerifications,
		Items:  items,
	}, nil
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
