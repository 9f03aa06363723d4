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

// InvitationRegistrationService runs the invitation-acceptance pipeline: a
// person joins an existing team through a pending invitation token.
type InvitationRegistrationService struct {
	users       repository.UserRepository
	teams       repository.TeamRepository
	invitations repository.InvitationRepository
	recaptcha   RecaptchaValidator
	metrics     MetricsRecorder
	notifier    Notifier
	channel     string
	now         func() time.Time
}

// NewInvitationRegistrationService creates a new InvitationRegistrationService.
func NewInvitationRegistrationService(
	users repository.UserRepository,
	teams repository.TeamRepository,
	invitations repository.InvitationRepository,
	recaptcha RecaptchaValidator,
	metrics MetricsRecorder,
	notifier Notifier,
	channel string,
) *InvitationRegistrationService {
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	return &InvitationRegistrationService{
		users:       users,
		teams:       teams,
		invitations: invitations,
		recaptcha:   recaptcha,
		metrics:     metrics,
		notifier:    notifier,
		channel:     channel,
		now:         time.Now,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *InvitationRegistrationService) WithClock(now func() time.Time) *InvitationRegistrationService {
	s.now = now
	return s
}

// Register executes the pipeline. The accepting user is created against the
// invitation's email, never the request's: the invitee cannot change it.
func (s *InvitationRegistrationService) Register(ctx context.Context, req domain.JoinByInvitation) railway.Result[domain.RegistrationData, *domain.RegistrationError] {
	fail := railway.Failure[domain.RegistrationData, *domain.RegistrationError]

	// 1. Recaptcha
	if r := CheckRecaptcha(ctx, req.RecaptchaToken, s.recaptcha); r.IsFailure() {
		return fail(r.Err())
	}

	// 2. Invitation lookup. Store failure and absence both surface as
	// invitation-not-found at this boundary.
	lookup, lookupErr := s.invitations.FindByToken(ctx, req.InviteToken)
	invitationResult := ResolveInvitation(lookup, lookupErr, req.InviteToken)
	if invitationResult.IsFailure() {
		return fail(invitationResult.Err())
	}
	invitation := invitationResult.Value()

	// 3. Expiry: the exact expiry instant already counts as expired
	if r := CheckInvitationExpiry(invitation, s.now()); r.IsFailure() {
		return fail(r.Err())
	}

	// 4. Re-validate the stored invitation email against stale or tampered
	// records
	if r := validate.InvitationEmail(invitation.Email); r.IsFailure() {
		return fail(r.Err())
	}

	// 5. Form validation of the accepting request
	if r := validate.InvitationAcceptanceForm(req); r.IsFailure() {
		return fail(r.Err())
	}

	// 6. Invitee uniqueness, keyed by the invitation's email
	userLookup, err := s.users.FindByEmail(ctx, invitation.Email)
	if err != nil {
		return fail(domain.NewDBError(err))
	}
	if r := CheckUserExists(userLookup); r.IsFailure() {
		return fail(r.Err())
	}

	// 7. Create the user
	user, err := s.users.Create(ctx, domain.UserCreateData{
		Name:     req.Name,
		Email:    invitation.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(domain.NewDBError(err))
	}

	// 8. The invited-into team must still exist
	teamLookup, err := s.teams.FindBySlug(ctx, invitation.Team.Slug)
	if err != nil {
		return fail(domain.NewDBError(err))
	}
	teamResult := CheckTeamExists(teamLookup, fmt.Sprintf("team with slug %s not found", invitation.Team.Slug))
	if teamResult.IsFailure() {
		return fail(teamResult.Err())
	}
	team := teamResult.Value()

	// 9. Metrics and notification
	if err := s.metrics.Record(ctx, EventUserRegistered, map[string]string{
		"type": MetaInvitationRegistration,
	}); err != nil {
		return fail(domain.NewMetricsError(err))
	}
	if err := s.notifier.Notify(ctx, s.channel, "New user registered via invitation"); err != nil {
		return fail(domain.NewNotificationError(err))
	}

	// 10. Response: the invitation email is pre-verified
	return railway.Success[domain.RegistrationData, *domain.RegistrationError](domain.RegistrationData{
		User:         user,
		Team:         &team,
		ConfirmEmail: false,
	})
}
