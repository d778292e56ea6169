package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/verification"
	"github.com/fieldsight/fieldsight-backend-go/internal/handler/http/response"
)

// VerificationHandler serves on-demand image plausibility checks.
type VerificationHandler interface {
	Verify(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type verificationHandlerImpl struct {
	verificationSvc verification.Service
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationSvc verification.Service) VerificationHandler {
	return &verificationHandlerImpl{verificationSvc: verificationSvc}
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

// Verify runs a plausibility check on a submitted progress photo
func (h *verificationHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req verification.VerifyImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.verificationSvc.VerifyImage(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Image verified", result)
}

// List returns the caller's recent verifications
func (h *verificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	limit := getIntQueryParam(r, "limit", 20)

	verifications, err := h.verificationSvc.ListUserVerifications(r.Context(), userID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, verifications)
}
