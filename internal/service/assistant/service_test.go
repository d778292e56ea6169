package assistant

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/assistant"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/validator"
)

type stubProjectRepo struct {
	ongoing []*project.Project
}

func (s *stubProjectRepo) GetByID(_ context.Context, _ string) (*project.Project, error) {
	return nil, project.ErrProjectNotFound
}

func (s *stubProjectRepo) ListByStatus(_ context.Context, status project.Status) ([]*project.Project, error) {
	if status != project.StatusOngoing {
		return nil, nil
	}
	return s.ongoing, nil
}

func (s *stubProjectRepo) AddHistory(_ context.Context, _ *project.HistoryEntry) error {
	return nil
}

type stubVerificationRepo struct {
	failed []*verification.ImageVerification
}

func (s *stubVerificationRepo) Create(_ context.Context, _ *verification.ImageVerification) error {
	return nil
}

func (s *stubVerificationRepo) ListByUser(_ context.Context, _ string, _ int) ([]*verification.ImageVerification, error) {
	return nil, nil
}

func (s *stubVerificationRepo) ListRecentFailed(_ context.Context, _ int) ([]*verification.ImageVerification, error) {
	return s.failed, nil
}

type stubProvider struct {
	reply string
	err   error
	asked string
}

func (s *stubProvider) Chat(_ context.Context, _, userPrompt string) (string, error) {
	s.asked = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubProvider) Name() string { return "stub" }

func TestChat_ProviderAnswersFreeform(t *testing.T) {
	provider := &stubProvider{reply: "The bridge project looks on schedule."}
	svc := NewService(provider, &stubProjectRepo{}, &stubVerificationRepo{}, slog.New(slog.DiscardHandler))

	resp, err := svc.Chat(context.Background(), "user-1", assistant.ChatRequest{Message: "How is the bridge doing?"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentFreeform, resp.Intent)
	assert.Equal(t, "The bridge project looks on schedule.", resp.Reply)
	assert.Equal(t, "How is the bridge doing?", provider.asked)
}

func TestChat_ProviderFailureFallsBackToRules(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	projRepo := &stubProjectRepo{ongoing: []*project.Project{
		{ID: "p1", Name: "Harbor Bridge", StartDate: time.Now(), EndDate: time.Now()},
	}}
	svc := NewService(provider, projRepo, &stubVerificationRepo{}, slog.New(slog.DiscardHandler))

	resp, err := svc.Chat(context.Background(), "user-1", assistant.ChatRequest{Message: "show me ongoing projects"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentOngoingProjects, resp.Intent)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Harbor Bridge", resp.Items[0].Title)
}

func TestChat_NoProviderUsesRules(t *testing.T) {
	svc := NewService(nil, &stubProjectRepo{}, &stubVerificationRepo{}, slog.New(slog.DiscardHandler))

	resp, err := svc.Chat(context.Background(), "user-1", assistant.ChatRequest{Message: "what can you do"})
	require.NoError(t, err)
	assert.Equal(t, assistant.IntentHelp, resp.Intent)
	assert.NotEmpty(t, resp.Reply)
}

func TestChat_FailedVerificationsIntent(t *testing.T) {
	name := "site.jpg"
	projName := "Harbor Bridge"
	repo := &stubVerificationRepo{failed: []*verification.ImageVerification{
		{ID: "v1", FileName: &name, ProjectName: &projName, Confidence: 0.42},
	}}
	svc := NewService(nil, &stubProjectRepo{}, repo, slog.New(slog.DiscardHandler))

	resp, err := svc.Chat(context.Background(), "user-1", assistant.ChatRequest{Message: "any failed verifications?"})
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentFailedVerifications, resp.Intent)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "site.jpg", resp.Items[0].Title)
	assert.Contains(t, resp.Items[0].Extra, "Harbor Bridge")
}

func TestChat_EmptyMessageIsRejected(t *testing.T) {
	svc := NewService(nil, &stubProjectRepo{}, &stubVerificationRepo{}, slog.New(slog.DiscardHandler))

	_, err := svc.Chat(context.Background(), "user-1", assistant.ChatRequest{Message: "   "})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
