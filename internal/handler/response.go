package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
)

// Результат конвейера всегда доставляется с HTTP 200 в едином конверте:
// семантический статус несет kind ошибки, а не код транспорта.

// SuccessEnvelope это конверт успешного результата конвейера
type SuccessEnvelope struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// FailureEnvelope это конверт ошибки конвейера
type FailureEnvelope struct {
	Kind  string                    `json:"kind"`
	Error *domain.RegistrationError `json:"error"`
}

// RenderResult отправляет результат конвейера в едином конверте
func RenderResult[T any](w http.ResponseWriter, r *http.Request, result railway.Result[T, *domain.RegistrationError]) {
	render.Status(r, http.StatusOK)
	if result.IsSuccess() {
		render.JSON(w, r, SuccessEnvelope{Kind: "success", Value: result.Value()})
		return
	}
	render.JSON(w, r, FailureEnvelope{Kind: "failure", Error: result.Err()})
}
