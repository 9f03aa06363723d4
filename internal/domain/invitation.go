package domain

import "time"

// Invitation представляет приглашение в существующую команду.
// Токен является ключом поиска и должен быть неугадываемым.
type Invitation struct {
	Token        string    `json:"token"`
	Email        string    `json:"email"`
	Team         Team      `json:"team"`
	Expires      time.Time `json:"expires"`
	SentViaEmail bool      `json:"sentViaEmail"` // true после успешной доставки письма
}

// InvitationCreateData содержит данные для создания нового приглашения
type InvitationCreateData struct {
	Email         string
	TeamSlug      string
	InviterUserID string
	Token         string
	ExpiresAt     time.Time
}

// Expired проверяет истекло ли приглашение на момент now.
// Граница нестрогая: момент expires уже считается истекшим.
func (i Invitation) Expired(now time.Time) bool {
	return !i.Expires.After(now)
}
