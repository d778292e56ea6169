package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/audit"
	"github.com/fieldsight/fieldsight-backend-go/internal/handler/http/response"
)

// AuditHandler records user actions into the audit trail.
type AuditHandler interface {
	LogAction(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditSvc audit.Service
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditSvc audit.Service) AuditHandler {
	return &auditHandlerImpl{auditSvc: auditSvc}
}

// LogAction appends one audited user action
func (h *auditHandlerImpl) LogAction(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req audit.LogActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	actor := audit.Actor{
		UserID:    userID,
		IPAddress: clientIP(r),
	}

	if err := h.auditSvc.LogAction(r.Context(), actor, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Action logged", nil)
}

// clientIP prefers the forwarded address set by the reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
