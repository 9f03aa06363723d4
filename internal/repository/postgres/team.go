package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// FindBySlug ищет команду по slug
func (r *TeamRepository) FindBySlug(ctx context.Context, slug string) (railway.Option[domain.Team], error) {
	query := `
		SELECT id, name, slug, owner_id
		FROM teams
		WHERE slug = $1
	`

	return r.findOne(ctx, query, slug)
}

// FindByOwner ищет команду по ID владельца
func (r *TeamRepository) FindByOwner(ctx context.Context, ownerID string) (railway.Option[domain.Team], error) {
	query := `
		SELECT id, name, slug, owner_id
		FROM teams
		WHERE owner_id = $1
	`

	return r.findOne(ctx, query, ownerID)
}

func (r *TeamRepository) findOne(ctx context.Context, query string, arg any) (railway.Option[domain.Team], error) {
	var team domain.Team
	err := r.db.QueryRow(ctx, query, arg).Scan(&team.ID, &team.Name, &team.Slug, &team.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return railway.None[domain.Team](), nil
		}
		return railway.None[domain.Team](), err
	}

	return railway.Some(team), nil
}

// Create создает новую команду. Дубликат slug превращается в ошибку
// средствами уникального индекса БД.
func (r *TeamRepository) Create(ctx context.Context, data domain.TeamCreateData) (domain.Team, error) {
	query := `
		INSERT INTO teams (id, name, slug, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, owner_id
	`

	var team domain.Team
	err := r.db.QueryRow(ctx, query, uuid.NewString(), data.Name, data.Slug, data.OwnerID).
		Scan(&team.ID, &team.Name, &team.Slug, &team.OwnerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.Team{}, fmt.Errorf("team with slug %s already exists", data.Slug)
		}
		return domain.Team{}, err
	}

	return team, nil
}

// IsOwner проверяет что userID владеет командой teamID
func (r *TeamRepository) IsOwner(ctx context.Context, teamID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1 AND owner_id = $2)`

	var isOwner bool
	if err := r.db.QueryRow(ctx, query, teamID, userID).Scan(&isOwner); err != nil {
		return false, err
	}

	return isOwner, nil
}
