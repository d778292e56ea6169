package assistant

import (
	"context"
	"log/slog"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/assistant"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/project"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/llm"
)

const systemPrompt = `You are a helpful assistant for a construction field ` +
	`monitoring platform. Users ask about project progress, payroll ` +
	`validation and site photo verification. Answer briefly and concretely. ` +
	`If you do not know something, say so instead of guessing.`

type service struct {
	provider         llm.Provider
	projectRepo      project.Repository
	verificationRepo verification.Repository
	logger           *slog.Logger
}

// NewService creates the chat assistant. A nil provider is valid: every
// query is then answered by the rule-based responder.
func NewService(
	provider llm.Provider,
	projectRepo project.Repository,
	verificationRepo verification.Repository,
	logger *slog.Logger,
) assistant.Service {
	return &service{
		provider:         provider,
		projectRepo:      projectRepo,
		verificationRepo: verificationRepo,
		logger:           logger,
	}
}

func (s *service) Chat(ctx context.Context, userID string, req assistant.ChatRequest) (*assistant.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.provider != nil {
		reply, err := s.provider.Chat(ctx, systemPrompt, req.Message)
		if err == nil {
			return &assistant.ChatResponse{
				Reply:  reply,
				Intent: assistant.IntentFreeform,
			}, nil
		}
		s.logger.Warn("assistant provider failed, falling back to rule-based responder",
			slog.String("provider", s.provider.Name()),
			slog.String("user_id", userID),
			slog.Any("error", err))
	}

	return s.respondRuleBased(ctx, req.Message)
}
