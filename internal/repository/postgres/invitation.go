package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
)

// InvitationRepository реализует repository.InvitationRepository для PostgreSQL
type InvitationRepository struct {
	db *pgxpool.Pool
}

// NewInvitationRepository создает новый экземпляр InvitationRepository
func NewInvitationRepository(db *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `
	i.token, i.email, i.expires_at, i.sent_via_email,
	t.id, t.name, t.slug, t.owner_id
`

// FindByToken ищет приглашение по токену вместе со снимком команды
func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (railway.Option[domain.Invitation], error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		JOIN teams t ON t.slug = i.team_slug
		WHERE i.token = $1
	`

	return r.findOne(ctx, query, token)
}

// FindByEmail ищет приглашение по email и slug команды
func (r *InvitationRepository) FindByEmail(ctx context.Context, email, teamSlug string) (railway.Option[domain.Invitation], error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		JOIN teams t ON t.slug = i.team_slug
		WHERE i.email = $1 AND i.team_slug = $2
	`

	return r.findOne(ctx, query, email, teamSlug)
}

func (r *InvitationRepository) findOne(ctx context.Context, query string, args ...any) (railway.Option[domain.Invitation], error) {
	var inv domain.Invitation
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&inv.Token,
		&inv.Email,
		&inv.Expires,
		&inv.SentViaEmail,
		&inv.Team.ID,
		&inv.Team.Name,
		&inv.Team.Slug,
		&inv.Team.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return railway.None[domain.Invitation](), nil
		}
		return railway.None[domain.Invitation](), err
	}

	return railway.Some(inv), nil
}

// Create создает новое приглашение
func (r *InvitationRepository) Create(ctx context.Context, data domain.InvitationCreateData) (domain.Invitation, error) {
	query := `
		INSERT INTO invitations (token, email, team_slug, inviter_user_id, expires_at, sent_via_email)
		VALUES ($1, $2, $3, $4, $5, false)
	`

	_, err := r.db.Exec(ctx, query, data.Token, data.Email, data.TeamSlug, data.InviterUserID, data.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.Invitation{}, fmt.Errorf("invitation with token %s already exists", data.Token)
		}
		return domain.Invitation{}, err
	}

	created, err := r.FindByToken(ctx, data.Token)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv, ok := created.Get()
	if !ok {
		return domain.Invitation{}, fmt.Errorf("invitation %s not visible after insert", data.Token)
	}

	return inv, nil
}

// MarkSent помечает приглашение как доставленное по почте
func (r *InvitationRepository) MarkSent(ctx context.Context, token string) error {
	query := `
		UPDATE invitations
		SET sent_via_email = true
		WHERE token = $1
	`

	result, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("invitation %s not found", token)
	}

	return nil
}
