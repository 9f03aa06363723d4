package domain

// Виды регистрационных запросов
const (
	KindSelf             = "self"
	KindInvitation       = "invitation"
	KindCreateInvitation = "create_invitation"
)

// JoinSelf представляет запрос саморегистрации: пользователь создает
// одновременно учетную запись и новую команду
type JoinSelf struct {
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Team           string `json:"team"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// JoinByInvitation представляет запрос регистрации по приглашению
type JoinByInvitation struct {
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Password       string `json:"password"`
	InviteToken    string `json:"inviteToken"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// CreateInvitation представляет запрос на создание приглашения.
// InviterUserID поступает из доверенного контекста (JWT middleware),
// а не из тела запроса.
type CreateInvitation struct {
	Kind          string `json:"kind"`
	Email         string `json:"email"`
	InviterUserID string `json:"-"`
}

// RegistrationData это успешный результат обеих регистраций
type RegistrationData struct {
	User User  `json:"user"`
	Team *Team `json:"team,omitempty"`
	// ConfirmEmail true когда требуется последующее подтверждение почты
	// (саморегистрация); приглашение подтверждает почту само по себе
	ConfirmEmail bool `json:"confirmEmail"`
}

// InvitationResponse это успешный результат создания приглашения
type InvitationResponse struct {
	Success    bool       `json:"success"`
	Invitation Invitation `json:"invitation"`
}
