package repository

import (
	"context"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
)

// Контракты хранилищ. Отсутствие записи это не ошибка: поисковые методы
// возвращают railway.Option, а error отведен под инфраструктурные сбои.
// Каждый вызов атомарен сам по себе; атомарность между вызовами
// (проверка уникальности + создание) хранилищем не гарантируется.

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// FindByEmail ищет пользователя по email
	FindByEmail(ctx context.Context, email string) (railway.Option[domain.User], error)

	// FindByID ищет пользователя по ID
	FindByID(ctx context.Context, id string) (railway.Option[domain.User], error)

	// Create создает нового пользователя; возвращает ошибку при дубликате email
	Create(ctx context.Context, data domain.UserCreateData) (domain.User, error)
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// FindBySlug ищет команду по slug
	FindBySlug(ctx context.Context, slug string) (railway.Option[domain.Team], error)

	// FindByOwner ищет команду по ID владельца
	FindByOwner(ctx context.Context, ownerID string) (railway.Option[domain.Team], error)

	// Create создает новую команду; возвращает ошибку при дубликате slug
	Create(ctx context.Context, data domain.TeamCreateData) (domain.Team, error)

	// IsOwner проверяет что userID владеет командой teamID
	IsOwner(ctx context.Context, teamID, userID string) (bool, error)
}

// InvitationRepository определяет методы для работы с приглашениями
type InvitationRepository interface {
	// FindByToken ищет приглашение по токену
	FindByToken(ctx context.Context, token string) (railway.Option[domain.Invitation], error)

	// FindByEmail ищет приглашение по email и slug команды
	FindByEmail(ctx context.Context, email, teamSlug string) (railway.Option[domain.Invitation], error)

	// Create создает новое приглашение
	Create(ctx context.Context, data domain.InvitationCreateData) (domain.Invitation, error)

	// MarkSent помечает приглашение как доставленное по почте
	MarkSent(ctx context.Context, token string) error
}
