package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/service"
)

// RegistrationHandler обрабатывает оба пути регистрации
type RegistrationHandler struct {
	selfService   *service.SelfRegistrationService
	inviteService *service.InvitationRegistrationService
}

// NewRegistrationHandler создает новый RegistrationHandler
func NewRegistrationHandler(
	selfService *service.SelfRegistrationService,
	inviteService *service.InvitationRegistrationService,
) *RegistrationHandler {
	return &RegistrationHandler{
		selfService:   selfService,
		inviteService: inviteService,
	}
}

// Register обрабатывает POST /api/register.
// Запрос классифицируется по полю kind ровно в один конвейер.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "failed to read request body")
		return
	}

	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	switch probe.Kind {
	case domain.KindSelf:
		var req domain.JoinSelf
		if err := json.Unmarshal(body, &req); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
			return
		}
		RenderResult(w, r, h.selfService.Register(r.Context(), req))

	case domain.KindInvitation:
		var req domain.JoinByInvitation
		if err := json.Unmarshal(body, &req); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
			return
		}
		RenderResult(w, r, h.inviteService.Register(r.Context(), req))

	default:
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", `kind must be "self" or "invitation"`)
	}
}
