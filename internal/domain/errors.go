package domain

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind это закрытое множество дискриминаторов ошибок регистрации
type ErrorKind string

// Коды ошибок конвейеров регистрации
const (
	KindRecaptchaError          ErrorKind = "recaptcha-error"
	KindFormValidationError     ErrorKind = "form-validation-error"
	KindUserExistsError         ErrorKind = "user-exists-error"
	KindUserNotFoundError       ErrorKind = "user-not-found-error"
	KindTeamExistsError         ErrorKind = "team-exists-error"
	KindTeamNotFoundError       ErrorKind = "team-not-found-error"
	KindTeamOwnerAuthError      ErrorKind = "team-owner-auth-error"
	KindInvitationNotFoundError ErrorKind = "invitation-not-found-error"
	KindInvitationExpiredError  ErrorKind = "invitation-expired-error"
	KindInvalidEmailFormatError ErrorKind = "invalid-email-format-error"
	KindNonWorkEmailError       ErrorKind = "non-work-email-error"
	KindEmailSendError          ErrorKind = "email-send-error"
	KindMetricsError            ErrorKind = "metrics-error"
	KindNotificationError       ErrorKind = "notification-error"
	KindDBError                 ErrorKind = "db-error"
)

// Виды внутренних ошибок валидации полей формы
const (
	FieldEmail    = "email-validation-error"
	FieldName     = "name-validation-error"
	FieldPassword = "password-validation-error"
)

// Причины нарушений правил валидации
const (
	ReasonInvalidFormat = "invalid-format"
	ReasonNotWorkEmail  = "not-work-email"
	ReasonEmpty         = "empty"
	ReasonWeak          = "weak"
	ReasonNotProvided   = "not-provided"
)

// FieldError описывает одно нарушение правила валидации формы
type FieldError struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// RegistrationError это типизированная ошибка конвейера регистрации.
// Kind всегда заполнен; остальные поля зависят от вида ошибки.
type RegistrationError struct {
	Kind        ErrorKind    `json:"kind"`
	Reason      string       `json:"reason,omitempty"`
	Details     string       `json:"details,omitempty"`
	ExpiredAt   string       `json:"expiredAt,omitempty"`
	InnerErrors []FieldError `json:"innerErrors,omitempty"`

	cause error
}

// Error реализует интерфейс error
func (e *RegistrationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, ": %s", e.Details)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Unwrap возвращает обернутую инфраструктурную ошибку, если есть
func (e *RegistrationError) Unwrap() error {
	return e.cause
}

// NewRecaptchaError возвращает ошибку проверки recaptcha
func NewRecaptchaError(reason string) *RegistrationError {
	return &RegistrationError{Kind: KindRecaptchaError, Reason: reason}
}

// NewFormValidationError агрегирует нарушения правил валидации формы.
// Порядок innerErrors сохраняется как порядок обнаружения.
func NewFormValidationError(inner []FieldError) *RegistrationError {
	return &RegistrationError{Kind: KindFormValidationError, InnerErrors: inner}
}

// NewUserExistsError возвращается когда пользователь с таким email уже есть
func NewUserExistsError() *RegistrationError {
	return &RegistrationError{Kind: KindUserExistsError}
}

// NewUserNotFoundError возвращается когда пригласивший пользователь не найден
func NewUserNotFoundError(userID string) *RegistrationError {
	return &RegistrationError{
		Kind:    KindUserNotFoundError,
		Details: fmt.Sprintf("user %s not found", userID),
	}
}

// NewTeamExistsError возвращается когда команда с таким slug уже есть
func NewTeamExistsError() *RegistrationError {
	return &RegistrationError{Kind: KindTeamExistsError}
}

// NewTeamNotFoundError возвращается когда команда не найдена
func NewTeamNotFoundError(cause error) *RegistrationError {
	return &RegistrationError{Kind: KindTeamNotFoundError, cause: cause}
}

// NewTeamOwnerAuthError возвращается когда запрашивающий не владелец команды
func NewTeamOwnerAuthError(details string) *RegistrationError {
	return &RegistrationError{Kind: KindTeamOwnerAuthError, Details: details}
}

// NewInvitationNotFoundError покрывает и отсутствие приглашения, и сбой
// хранилища при его поиске: на этой границе они не различаются
func NewInvitationNotFoundError(cause error) *RegistrationError {
	return &RegistrationError{Kind: KindInvitationNotFoundError, cause: cause}
}

// NewInvitationExpiredError возвращается для истекшего приглашения
func NewInvitationExpiredError(expiredAt time.Time) *RegistrationError {
	return &RegistrationError{
		Kind:      KindInvitationExpiredError,
		ExpiredAt: expiredAt.UTC().Format(time.RFC3339Nano),
	}
}

// NewInvalidEmailFormatError возвращается для email с неверным форматом
// в сохраненном приглашении
func NewInvalidEmailFormatError(email string) *RegistrationError {
	return &RegistrationError{
		Kind:    KindInvalidEmailFormatError,
		Details: fmt.Sprintf("invalid email format: %s", email),
	}
}

// NewNonWorkEmailError возвращается для персонального email-домена
// в сохраненном приглашении
func NewNonWorkEmailError(domain string) *RegistrationError {
	return &RegistrationError{
		Kind:    KindNonWorkEmailError,
		Details: fmt.Sprintf("personal email domains are not allowed: %s", domain),
	}
}

// NewEmailSendError возвращается при сбое доставки письма
func NewEmailSendError(cause error) *RegistrationError {
	return &RegistrationError{Kind: KindEmailSendError, cause: cause}
}

// NewMetricsError возвращается при сбое записи метрик
func NewMetricsError(cause error) *RegistrationError {
	return &RegistrationError{Kind: KindMetricsError, cause: cause}
}

// NewNotificationError возвращается при сбое отправки нотификации
func NewNotificationError(cause error) *RegistrationError {
	return &RegistrationError{Kind: KindNotificationError, cause: cause}
}

// NewDBError оборачивает инфраструктурную ошибку хранилища
func NewDBError(cause error) *RegistrationError {
	return &RegistrationError{Kind: KindDBError, cause: cause}
}
