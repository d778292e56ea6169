package audit

import (
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/validator"
)

// LogActionRequest records a user action, optionally tied to a project.
type LogActionRequest struct {
	ProjectID string                 `json:"project_id,omitempty"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

func (r *LogActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	}

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
