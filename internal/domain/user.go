package domain

// User представляет зарегистрированного пользователя
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"` // Уникален среди всех пользователей
}

// UserCreateData содержит данные для создания нового пользователя
type UserCreateData struct {
	Name     string
	Email    string
	Password string
}
