package handler

import (
	"encoding/json"
	"net/http"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/middleware"
	"github.com/damir/signup-service/internal/service"
)

// InvitationHandler обрабатывает создание приглашений
type InvitationHandler struct {
	creationService *service.InvitationCreationService
}

// NewInvitationHandler создает новый InvitationHandler
func NewInvitationHandler(creationService *service.InvitationCreationService) *InvitationHandler {
	return &InvitationHandler{creationService: creationService}
}

// Create обрабатывает POST /api/invitations.
// ID пригласившего берется из аутентифицированного контекста, не из тела.
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvitation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	req.InviterUserID = middleware.GetUserIDFromContext(r.Context())
	if req.InviterUserID == "" {
		RespondWithError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated user")
		return
	}

	RenderResult(w, r, h.creationService.Create(r.Context(), req))
}
