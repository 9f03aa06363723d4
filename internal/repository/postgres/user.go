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

// UserRepository реализует repository.UserRepository для PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (railway.Option[domain.User], error) {
	query := `
		SELECT id, name, email
		FROM users
		WHERE email = $1
	`

	var user domain.User
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return railway.None[domain.User](), nil
		}
		return railway.None[domain.User](), err
	}

	return railway.Some(user), nil
}

// FindByID ищет пользователя по ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (railway.Option[domain.User], error) {
	query := `
		SELECT id, name, email
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return railway.None[domain.User](), nil
		}
		return railway.None[domain.User](), err
	}

	return railway.Some(user), nil
}

// Create создает нового пользователя. Дубликат email превращается в ошибку
// средствами уникального индекса БД.
func (r *UserRepository) Create(ctx context.Context, data domain.UserCreateData) (domain.User, error) {
	query := `
		INSERT INTO users (id, name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email
	`

	var user domain.User
	err := r.db.QueryRow(ctx, query, uuid.NewString(), data.Name, data.Email, data.Password).
		Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.User{}, fmt.Errorf("user with email %s already exists", data.Email)
		}
		return domain.User{}, err
	}

	return user, nil
}
