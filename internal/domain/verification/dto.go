package verification

import (
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/validator"
)

// VerifyImageRequest submits a progress photo for plausibility checking.
// Either ImageURL or StoragePath must be given.
type VerifyImageRequest struct {
	ImageURL    string `json:"image_url,omitempty"`
	StoragePath string `json:"storage_path,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
}

func (r *VerifyImageRequest) Validate() error {
	if validator.IsEmpty(r.ImageURL) && validator.IsEmpty(r.StoragePath) {
		return ErrNoImageSource
	}

	var errs validator.ValidationErrors

	if r.ProjectID != "" && !validator.IsValidUUID(r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// VerifyImageResponse is returned to the caller after a check.
type VerifyImageResponse struct {
	VerificationID string   `json:"verification_id"`
	Pass           bool     `json:"pass"`
	Status         Status   `json:"status"`
	Confidence     float64  `json:"confidence"`
	Labels         []string `json:"labels"`
	Objects        []string `json:"objects"`
	ExtractedText  string   `json:"extracted_text"`
}
