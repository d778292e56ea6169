package verification

import "time"

// Status of a verified progress photo.
type Status string

const (
	StatusOnTrack  Status = "on_track"
	StatusHighRisk Status = "high_risk"
)

// ImageVerification is the stored outcome of one plausibility check.
// Append-only.
type ImageVerification struct {
	ID            string
	UserID        string
	ProjectID     *string
	ProjectName   *string
	ImageURL      *string
	StoragePath   *string
	FileName      *string
	Pass          bool
	Status        Status
	Confidence    float64
	Labels        []string
	Objects       []string
	ExtractedText string
	CreatedAt     time.Time
}
