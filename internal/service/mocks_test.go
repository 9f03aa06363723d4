package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
	"github.com/damir/signup-service/internal/repository"
)

type userRepoMock struct{ mock.Mock }

var _ repository.UserRepository = (*userRepoMock)(nil)

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (railway.Option[domain.User], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(railway.Option[domain.User]), args.Error(1)
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (railway.Option[domain.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(railway.Option[domain.User]), args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, data domain.UserCreateData) (domain.User, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(domain.User), args.Error(1)
}

type teamRepoMock struct{ mock.Mock }

var _ repository.TeamRepository = (*teamRepoMock)(nil)

func (m *teamRepoMock) FindBySlug(ctx context.Context, slug string) (railway.Option[domain.Team], error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(railway.Option[domain.Team]), args.Error(1)
}

func (m *teamRepoMock) FindByOwner(ctx context.Context, ownerID string) (railway.Option[domain.Team], error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(railway.Option[domain.Team]), args.Error(1)
}

func (m *teamRepoMock) Create(ctx context.Context, data domain.TeamCreateData) (domain.Team, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(domain.Team), args.Error(1)
}

func (m *teamRepoMock) IsOwner(ctx context.Context, teamID, userID string) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

type invitationRepoMock struct{ mock.Mock }

var _ repository.InvitationRepository = (*invitationRepoMock)(nil)

func (m *invitationRepoMock) FindByToken(ctx context.Context, token string) (railway.Option[domain.Invitation], error) {
	args := m.Called(ctx, token)
	return args.Get(0).(railway.Option[domain.Invitation]), args.Error(1)
}

func (m *invitationRepoMock) FindByEmail(ctx context.Context, email, teamSlug string) (railway.Option[domain.Invitation], error) {
	args := m.Called(ctx, email, teamSlug)
	return args.Get(0).(railway.Option[domain.Invitation]), args.Error(1)
}

func (m *invitationRepoMock) Create(ctx context.Context, data domain.InvitationCreateData) (domain.Invitation, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(domain.Invitation), args.Error(1)
}

func (m *invitationRepoMock) MarkSent(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type recaptchaMock struct{ mock.Mock }

var _ RecaptchaValidator = (*recaptchaMock)(nil)

func (m *recaptchaMock) Validate(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type mailerMock struct{ mock.Mock }

var _ EmailSender = (*mailerMock)(nil)

func (m *mailerMock) SendVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *mailerMock) SendInvitation(ctx context.Context, email, token string) (bool, error) {
	args := m.Called(ctx, email, token)
	return args.Bool(0), args.Error(1)
}

type metricsMock struct{ mock.Mock }

var _ MetricsRecorder = (*metricsMock)(nil)

func (m *metricsMock) Record(ctx context.Context, event string, metadata map[string]string) error {
	args := m.Called(ctx, event, metadata)
	return args.Error(0)
}

type notifierMock struct{ mock.Mock }

var _ Notifier = (*notifierMock)(nil)

func (m *notifierMock) Notify(ctx context.Context, channel, message string) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

type ownershipMock struct{ mock.Mock }

var _ OwnershipChecker = (*ownershipMock)(nil)

func (m *ownershipMock) IsOwner(ctx context.Context, teamID, userID string) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}
