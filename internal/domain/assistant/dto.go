package assistant

import (
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/validator"
)

// Intent labels what the assistant decided the user was asking for.
type Intent string

const (
	IntentOngoingProjects     Intent = "list_ongoing_projects"
	IntentFailedVerifications Intent = "list_failed_verifications"
	IntentFreeform            Intent = "freeform"
	IntentHelp                Intent = "help"
)

type ChatRequest struct {
	Message string `json:"message"`
}

func (r *ChatRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Message) {
		errs = append(errs, validator.ValidationError{
			Field:   "message",
			Message: "message is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Item is one structured result attached to a chat reply, e.g. an
// ongoing project or a failed verification.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Extra string `json:"extra,omitempty"`
}

type ChatResponse struct {
	Reply  string `json:"reply"`
	Intent Intent `json:"intent"`
	Items  []Item `json:"items,omitempty"`
}
