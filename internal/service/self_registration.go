package service

import (
	"context"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
	"github.com/damir/signup-service/internal/repository"
	"github.com/damir/signup-service/internal/validate"
)

// SelfRegistrationService runs the self-service signup pipeline: a person
// creates both a user and a brand-new team in one request.
type SelfRegistrationService struct {
	users     repository.UserRepository
	teams     repository.TeamRepository
	recaptcha RecaptchaValidator
	mailer    EmailSender
	metrics   MetricsRecorder
	notifier  Notifier
	channel   string
}

// NewSelfRegistrationService creates a new SelfRegistrationService.
// An empty channel falls back to DefaultNotifyChannel.
func NewSelfRegistrationService(
	users repository.UserRepository,
	teams repository.TeamRepository,
	recaptcha RecaptchaValidator,
	mailer EmailSender,
	metrics MetricsRecorder,
	notifier Notifier,
	channel string,
) *SelfRegistrationService {
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	return &SelfRegistrationService{
		users:     users,
		teams:     teams,
		recaptcha: recaptcha,
		mailer:    mailer,
		metrics:   metrics,
		notifier:  notifier,
		channel:   channel,
	}
}

// Register executes the pipeline strictly in sequence; the first failing
// step terminates it and becomes the result. Effects already performed are
// not rolled back: there is no distributed transaction.
func (s *SelfRegistrationService) Register(ctx context.Context, req domain.JoinSelf) railway.Result[domain.RegistrationData, *domain.RegistrationError] {
	fail := railway.Failure[domain.RegistrationData, *domain.RegistrationError]

	// 1. Recaptcha
	if r := CheckRecaptcha(ctx, req.RecaptchaToken, s.recaptcha); r.IsFailure() {
		return fail(r.Err())
	}

	// 2. Form validation
	if r := validate.SelfRegistrationForm(req); r.IsFailure() {
		return fail(r.Err())
	}

	// 3. User uniqueness
	userLookup, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return fail(domain.NewDBError(err))
	}
	if r := CheckUserExists(userLookup); r.IsFailure() {
		return fail(r.Err())
	}

	// 4. Team slug uniqueness
	slug := domain.Slugify(req.Team)
	teamLookup, err := s.teams.FindBySlug(ctx, slug)
	if err != nil {
		return fail(domain.NewDBError(err))
	}
	if r := CheckTeamUnique(teamLookup); r.IsFailure() {
		return fail(r.Err())
	}

	// 5. Create user
	user, err := s.users.Create(ctx, domain.UserCreateData{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(domain.NewDBError(err))
	}

	// 6. Create team owned by the new user
	team, err := s.teams.Create(ctx, domain.TeamCreateData{
		Name:    req.Team,
		Slug:    slug,
		OwnerID: user.ID,
	})
	if err != nil {
		return fail(domain.NewDBError(err))
	}

	// 7. Verification email
	if err := s.mailer.SendVerification(ctx, req.Email); err != nil {
		return fail(domain.NewEmailSendError(err))
	}

	// 8. Metrics
	if err := s.metrics.Record(ctx, EventUserRegistered, map[string]string{
		"type": MetaSelfRegistration,
	}); err != nil {
		return fail(domain.NewMetricsError(err))
	}

	// 9. Notification
	if err := s.notifier.Notify(ctx, s.channel, "New user registered via self-registration"); err != nil {
		return fail(domain.NewNotificationError(err))
	}

	// 10. Response: self-registration always requires email confirmation
	return railway.Success[domain.RegistrationData, *domain.RegistrationError](domain.RegistrationData{
		User:         user,
		Team:         &team,
		ConfirmEmail: true,
	})
}
