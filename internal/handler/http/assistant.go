package http

import (
	"encoding/json"
	"net/http"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/assistant"
	"github.com/fieldsight/fieldsight-backend-go/internal/handler/http/response"
)

// AssistantHandler serves the chat assistant.
type AssistantHandler interface {
	Chat(w http.ResponseWriter, r *http.Request)
}

type assistantHandlerImpl struct {
	assistantSvc assistant.Service
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantSvc assistant.Service) AssistantHandler {
	return &assistantHandlerImpl{assistantSvc: assistantSvc}
}

// Chat answers one user message
func (h *assistantHandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req assistant.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.assistantSvc.Chat(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
