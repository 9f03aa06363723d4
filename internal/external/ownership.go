package external

import (
	"context"

	"github.com/damir/signup-service/internal/repository"
)

// DBOwnershipChecker отвечает на вопрос о владении командой по данным
// хранилища команд
type DBOwnershipChecker struct {
	teams repository.TeamRepository
}

// NewDBOwnershipChecker создает новый DBOwnershipChecker
func NewDBOwnershipChecker(teams repository.TeamRepository) *DBOwnershipChecker {
	return &DBOwnershipChecker{teams: teams}
}

// IsOwner проверяет что userID владеет командой teamID.
// Любой сбой возвращается ошибкой, никогда паникой.
func (c *DBOwnershipChecker) IsOwner(ctx context.Context, teamID, userID string) (bool, error) {
	return c.teams.IsOwner(ctx, teamID, userID)
}
