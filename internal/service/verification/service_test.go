package verification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/notification"
	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/sse"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/vision"
)

func TestClassify_ConstructionSitePasses(t *testing.T) {
	annotation := &vision.Annotation{
		Labels: []vision.Label{
			{Description: "Construction site", Score: 0.9},
			{Description: "Cat", Score: 0.5},
		},
	}

	result := Classify(annotation)

	assert.True(t, result.Pass)
	assert.Equal(t, verification.StatusOnTrack, result.Status)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Equal(t, []string{"Construction site", "Cat"}, result.Labels)
}

func TestClassify_NoKeywordFails(t *testing.T) {
	annotation := &vision.Annotation{
		Labels: []vision.Label{
			{Description: "Office desk", Score: 0.95},
			{Description: "Laptop", Score: 0.9},
		},
	}

	result := Classify(annotation)

	assert.False(t, result.Pass)
	assert.Equal(t, verification.StatusHighRisk, result.Status)
	assert.InDelta(t, 0.925, result.Confidence, 1e-9)
}

func TestClassify_KeywordButLowConfidenceFails(t *testing.T) {
	annotation := &vision.Annotation{
		Labels: []vision.Label{
			{Description: "Crane", Score: 0.55},
		},
	}

	result := Classify(annotation)
	assert.False(t, result.Pass)
}

func TestClassify_ObjectKeywordCounts(t *testing.T) {
	annotation := &vision.Annotation{
		Labels: []vision.Label{
			{Description: "Vehicle", Score: 0.9},
		},
		Objects: []vision.Object{
			{Name: "Excavator", Score: 0.8},
		},
	}

	result := Classify(annotation)
	assert.True(t, result.Pass)
	assert.Equal(t, []string{"Excavator"}, result.Objects)
}

func TestClassify_ConfidenceUsesTopFiveLabelsOnly(t *testing.T) {
	annotation := &vision.Annotation{
		Labels: []vision.Label{
			{Description: "Building", Score: 1},
			{Description: "a", Score: 1},
			{Description: "b", Score: 1},
			{Description: "c", Score: 1},
			{Description: "d", Score: 1},
			{Description: "e", Score: 0}, // beyond the window
		},
	}

	result := Classify(annotation)
	assert.Equal(t, 1.0, result.Confidence)
	assert.True(t, result.Pass)
}

func TestClassify_EmptyAnnotation(t *testing.T) {
	result := Classify(&vision.Annotation{})

	assert.False(t, result.Pass)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, []string{}, result.Labels)
	assert.Equal(t, []string{}, result.Objects)
}

func TestClassify_TruncatesExtractedText(t *testing.T) {
	annotation := &vision.Annotation{
		FullText: strings.Repeat("x", 5000),
	}

	result := Classify(annotation)
	assert.Len(t, result.ExtractedText, 2000)
}

func TestClassify_TruncationKeepsValidUTF8(t *testing.T) {
	// A multi-byte rune straddling the cut point is dropped whole.
	annotation := &vision.Annotation{
		FullText: strings.Repeat("x", 1999) + "壁面の亀裂",
	}

	result := Classify(annotation)
	assert.True(t, utf8.ValidString(result.ExtractedText))
	assert.Equal(t, strings.Repeat("x", 1999), result.ExtractedText)
}

func TestClassify_KeywordMatchIsCaseInsensitiveSubstring(t *testing.T) {
	annotation := &vision.Annotation{
		Labels: []vision.Label{
			{Description: "Reinforced CONCRETE slab", Score: 0.8},
		},
	}

	assert.True(t, Classify(annotation).Pass)
}

type stubVerificationRepo struct {
	created []*verification.ImageVerification
	failed  []*verification.ImageVerification
}

func (s *stubVerificationRepo) Create(_ context.Context, v *verification.ImageVerification) error {
	v.ID = "ver-1"
	s.created = append(s.created, v)
	return nil
}

func (s *stubVerificationRepo) ListByUser(_ context.Context, _ string, _ int) ([]*verification.ImageVerification, error) {
	return s.created, nil
}

func (s *stubVerificationRepo) ListRecentFailed(_ context.Context, _ int) ([]*verification.ImageVerification, error) {
	return s.failed, nil
}

type stubAnnotator struct {
	annotation *vision.Annotation
	err        error
	lastURI    string
}

func (s *stubAnnotator) AnnotateImage(_ context.Context, imageURI string) (*vision.Annotation, error) {
	s.lastURI = imageURI
	if s.err != nil {
		return nil, s.err
	}
	return s.annotation, nil
}

type stubResolver struct{}

func (stubResolver) ResolveURI(storagePath string) string {
	return "gs://test-bucket/" + storagePath
}

type stubNotificationSvc struct {
	queued []notification.CreateNotificationRequest
}

func (s *stubNotificationSvc) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	s.queued = append(s.queued, req)
	return nil
}

func (s *stubNotificationSvc) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	s.queued = append(s.queued, reqs...)
	return nil
}

func (s *stubNotificationSvc) GetNotifications(_ context.Context, _ string, _, _ int, _ bool) (*notification.NotificationListResponse, error) {
	return nil, nil
}

func (s *stubNotificationSvc) MarkAsRead(_ context.Context, _ string, _ notification.MarkAsReadRequest) error {
	return nil
}

func (s *stubNotificationSvc) MarkAllAsRead(_ context.Context, _ string) error {
	return nil
}

func (s *stubNotificationSvc) Subscribe(_ context.Context, _ string) (<-chan sse.Event, func()) {
	return nil, func() {}
}

func (s *stubNotificationSvc) Stop() {}

func TestVerifyImage_PersistsAndNotifies(t *testing.T) {
	repo := &stubVerificationRepo{}
	annotator := &stubAnnotator{annotation: &vision.Annotation{
		Labels: []vision.Label{{Description: "Construction site", Score: 0.9}},
	}}
	notifSvc := &stubNotificationSvc{}
	svc := NewService(repo, annotator, stubResolver{}, notifSvc, slog.New(slog.DiscardHandler))

	resp, err := svc.VerifyImage(context.Background(), "user-1", verification.VerifyImageRequest{
		ImageURL: "https://example.com/site.jpg",
		FileName: "site.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/site.jpg", annotator.lastURI)
	assert.Equal(t, "ver-1", resp.VerificationID)
	assert.True(t, resp.Pass)
	assert.Equal(t, verification.StatusOnTrack, resp.Status)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "user-1", repo.created[0].UserID)
	assert.Nil(t, repo.created[0].StoragePath)

	require.Len(t, notifSvc.queued, 1)
	assert.Equal(t, notification.TypeImageVerification, notifSvc.queued[0].Type)
	assert.Equal(t, "user-1", notifSvc.queued[0].RecipientID)
}

func TestVerifyImage_StoragePathResolvesToBucketURI(t *testing.T) {
	repo := &stubVerificationRepo{}
	annotator := &stubAnnotator{annotation: &vision.Annotation{}}
	svc := NewService(repo, annotator, stubResolver{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))

	_, err := svc.VerifyImage(context.Background(), "user-1", verification.VerifyImageRequest{
		StoragePath: "projects/p1/photo.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "gs://test-bucket/projects/p1/photo.jpg", annotator.lastURI)
}

func TestVerifyImage_NoSourceIsRejectedBeforeVisionCall(t *testing.T) {
	annotator := &stubAnnotator{}
	svc := NewService(&stubVerificationRepo{}, annotator, stubResolver{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))

	_, err := svc.VerifyImage(context.Background(), "user-1", verification.VerifyImageRequest{})

	require.ErrorIs(t, err, verification.ErrNoImageSource)
	assert.Empty(t, annotator.lastURI)
}

func TestVerifyImage_VisionFailureIsFatal(t *testing.T) {
	repo := &stubVerificationRepo{}
	annotator := &stubAnnotator{err: errors.New("deadline exceeded")}
	svc := NewService(repo, annotator, stubResolver{}, &stubNotificationSvc{}, slog.New(slog.DiscardHandler))

	_, err := svc.VerifyImage(context.Background(), "user-1", verification.VerifyImageRequest{
		ImageURL: "https://example.com/site.jpg",
	})

	assert.ErrorIs(t, err, verification.ErrVisionUnavailable)
	assert.Empty(t, repo.created)
}
