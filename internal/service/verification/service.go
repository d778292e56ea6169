package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/notification"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/storage"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/vision"
)

const defaultListLimit = 20

type service struct {
	verificationRepo verification.Repository
	annotator        vision.Annotator
	resolver         storage.URIResolver
	notificationSvc  notification.Service
	logger           *slog.Logger
}

// NewService creates the image plausibility service.
func NewService(
	verificationRepo verification.Repository,
	annotator vision.Annotator,
	resolver storage.URIResolver,
	notificationSvc notification.Service,
	logger *slog.Logger,
) verification.Service {
	return &service{
		verificationRepo: verificationRepo,
		annotator:        annotator,
		resolver:         resolver,
		notificationSvc:  notificationSvc,
		logger:           logger,
	}
}

func (s *service) VerifyImage(ctx context.Context, userID string, req verification.VerifyImageRequest) (*verification.VerifyImageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	imageURI := req.ImageURL
	if req.StoragePath != "" {
		imageURI = s.resolver.ResolveURI(req.StoragePath)
	}

	annotation, err := s.annotator.AnnotateImage(ctx, imageURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verification.ErrVisionUnavailable, err)
	}

	classification := Classify(annotation)

	record := &verification.ImageVerification{
		UserID:        userID,
		ProjectID:     optional(req.ProjectID),
		ProjectName:   optional(req.ProjectName),
		ImageURL:      optional(req.ImageURL),
		StoragePath:   optional(req.StoragePath),
		FileName:      optional(req.FileName),
		Pass:          classification.Pass,
		Status:        classification.Status,
		Confidence:    classification.Confidence,
		Labels:        classification.Labels,
		Objects:       classification.Objects,
		ExtractedText: classification.ExtractedText,
	}
	if err := s.verificationRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save verification: %w", err)
	}

	s.notifySubmitter(ctx, userID, record, req)

	return &verification.VerifyImageResponse{
		VerificationID: record.ID,
		Pass:           classification.Pass,
		Status:         classification.Status,
		Confidence:     classification.Confidence,
		Labels:         classification.Labels,
		Objects:        classification.Objects,
		ExtractedText:  classification.ExtractedText,
	}, nil
}

func (s *service) ListUserVerifications(ctx context.Context, userID string, limit int) ([]*verification.ImageVerification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.verificationRepo.ListByUser(ctx, userID, limit)
}

func (s *service) notifySubmitter(ctx context.Context, userID string, record *verification.ImageVerification, req verification.VerifyImageRequest) {
	message := "Your progress photo passed verification."
	if !record.Pass {
		message = "Your progress photo was flagged as implausible. Please review and re-submit."
	}

	err := s.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: userID,
		Type:        notification.TypeImageVerification,
		Title:       "Image Verification Completed",
		Message:     message,
		Data: map[string]interface{}{
			"verification_id": record.ID,
			"pass":            record.Pass,
			"confidence":      record.Confidence,
			"file_name":       req.FileName,
		},
	})
	if err != nil {
		s.logger.Error("failed to queue verification notification",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
