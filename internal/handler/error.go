package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

// Транспортные ошибки (битое тело запроса, неизвестный kind, отсутствие
// авторизации) не принадлежат конвейерам и отвечают обычными HTTP кодами.

// ErrorResponse представляет транспортный ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет транспортный ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
