package service

import (
	"context"
	"fmt"
	"time"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
	"github.com/damir/signup-service/internal/repository"
	"github.com/damir/signup-service/internal/validate"
)

// DefaultInvitationTTL is how long a fresh invitation stays acceptable.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// InvitationCreationService runs the invitation-creation pipeline: a team
// owner invites an email address into their team.
type InvitationCreationService struct {
	users       repository.UserRepository
	teams       repository.TeamRepository
	invitations repository.InvitationRepository
	owners      OwnershipChecker
	mailer      EmailSender
	ttl         time.Duration
	now         func() time.Time
	newToken    func() (string, error)
}

// NewInvitationCreationService creates a new InvitationCreationService.
// A non-positive ttl falls back to DefaultInvitationTTL.
func NewInvitationCreationService(
	users repository.UserRepository,
	teams repository.TeamRepository,
	invitations repository.InvitationRepository,
	owners OwnershipChecker,
	mailer EmailSender,
	ttl time.Duration,
) *InvitationCreationService {
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}
	return &InvitationCreationService{
		users:       users,
		teams:       teams,
		invitations: invitations,
		owners:      owners,
		mailer:      mailer,
		ttl:         ttl,
		now:         time.Now,
		newToken:    NewInviteToken,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *InvitationCreationService) WithClock(now func() time.Time) *InvitationCreationService {
	s.now = now
	return s
}

// WithTokenSource replaces the token generator. Intended for tests.
func (s *InvitationCreationService) WithTokenSource(newToken func() (string, error)) *InvitationCreationService {
	s.newToken = newToken
	return s
}

// Create executes the pipeline. The invitation store is never written
// before the ownership gate passes.
func (s *InvitationCreationService) Create(ctx context.Context, req domain.CreateInvitation) railway.Result[domain.InvitationResponse, *domain.RegistrationError] {
	fail := railway.Failure[domain.InvitationResponse, *domain.RegistrationError]

	// 1. Form validation: only the invitee email
	if r := validate.InvitationCreationForm(req); r.IsFailure() {
		return fail(r.Err())
	}

	// 2. The inviter must exist. The id is already authenticated upstream.
	inviterLookup, err := s.users.FindByID(ctx, req.InviterUserID)
	if err != nil {
		return fail(domain.NewDBError(err))
	}
	inviterResult := CheckInviterKnown(inviterLookup, req.InviterUserID)
	if inviterResult.IsFailure() {
		return fail(inviterResult.Err())
	}
	inviter := inviterResult.Value()

	// 3. The inviter's team
	teamLookup, err := s.teams.FindByOwner(ctx, inviter.ID)
	if err != nil {
		return fail(domain.NewDBError(err))
	}
	teamResult := CheckTeamExists(teamLookup, fmt.Sprintf("no team owned by user %s", inviter.ID))
	if teamResult.IsFailure() {
		return fail(teamResult.Err())
	}
	team := teamResult.Value()

	// 4. Ownership gate. Redundant with the owner-scoped lookup above, and
	// kept as an explicit, independently testable step.
	if r := VerifyTeamOwnership(ctx, team, req.InviterUserID, s.owners); r.IsFailure() {
		return fail(r.Err())
	}

	now := s.now()

	// 5. Reject a still-pending duplicate for the same email and team
	pending, err := s.invitations.FindByEmail(ctx, req.Email, team.Slug)
	if err != nil {
		return fail(domain.NewDBError(err))
	}
	if existing, ok := pending.Get(); ok && !existing.Expired(now) {
		return fail(domain.NewDBError(
			fmt.Errorf("invitation for %s to team %s is already pending", req.Email, team.Slug),
		))
	}

	// 6. Persist with an unguessable token and a fixed expiry window
	token, err := s.newToken()
	if err != nil {
		return fail(domain.NewDBError(fmt.Errorf("generate invitation token: %w", err)))
	}

	invitation, err := s.invitations.Create(ctx, domain.InvitationCreateData{
		Email:         req.Email,
		TeamSlug:      team.Slug,
		InviterUserID: req.InviterUserID,
		Token:         token,
		ExpiresAt:     now.Add(s.ttl),
	})
	if err != nil {
		return fail(domain.NewDBError(err))
	}

	// 7. Invitation email: a false return without an error is still a
	// delivery failure
	sent, err := s.mailer.SendInvitation(ctx, req.Email, invitation.Token)
	if err != nil {
		return fail(domain.NewEmailSendError(err))
	}
	if !sent {
		return fail(domain.NewEmailSendError(fmt.Errorf("failed to send invitation email to %s", req.Email)))
	}

	// 8. Record the delivery on the invitation
	if err := s.invitations.MarkSent(ctx, invitation.Token); err != nil {
		return fail(domain.NewDBError(err))
	}
	invitation.SentViaEmail = true

	// 9. Response
	return railway.Success[domain.InvitationResponse, *domain.RegistrationError](domain.InvitationResponse{
		Success:    true,
		Invitation: invitation,
	})
}
