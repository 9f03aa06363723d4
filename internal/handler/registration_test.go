package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/middleware"
	"github.com/damir/signup-service/internal/railway"
	"github.com/damir/signup-service/internal/service"
)

// In-memory fakes: the handlers take concrete services, so handler tests
// wire real pipelines over fake stores and collaborators.

type fakeUsers struct {
	byEmail map[string]domain.User
	byID    map[string]domain.User
	seq     int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]domain.User{}, byID: map[string]domain.User{}}
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (railway.Option[domain.User], error) {
	if u, ok := f.byEmail[email]; ok {
		return railway.Some(u), nil
	}
	return railway.None[domain.User](), nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (railway.Option[domain.User], error) {
	if u, ok := f.byID[id]; ok {
		return railway.Some(u), nil
	}
	return railway.None[domain.User](), nil
}

func (f *fakeUsers) Create(_ context.Context, data domain.UserCreateData) (domain.User, error) {
	f.seq++
	u := domain.User{ID: fmt.Sprintf("u%d", f.seq), Name: data.Name, Email: data.Email}
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

type fakeTeams struct {
	bySlug  map[string]domain.Team
	byOwner map[string]domain.Team
	seq     int
}

func newFakeTeams() *fakeTeams {
	return &fakeTeams{bySlug: map[string]domain.Team{}, byOwner: map[string]domain.Team{}}
}

func (f *fakeTeams) FindBySlug(_ context.Context, slug string) (railway.Option[domain.Team], error) {
	if t, ok := f.bySlug[slug]; ok {
		return railway.Some(t), nil
	}
	return railway.None[domain.Team](), nil
}

func (f *fakeTeams) FindByOwner(_ context.Context, ownerID string) (railway.Option[domain.Team], error) {
	if t, ok := f.byOwner[ownerID]; ok {
		return railway.Some(t), nil
	}
	return railway.None[domain.Team](), nil
}

func (f *fakeTeams) Create(_ context.Context, data domain.TeamCreateData) (domain.Team, error) {
	f.seq++
	t := domain.Team{ID: fmt.Sprintf("t%d", f.seq), Name: data.Name, Slug: data.Slug, OwnerID: data.OwnerID}
	f.bySlug[t.Slug] = t
	f.byOwner[t.OwnerID] = t
	return t, nil
}

func (f *fakeTeams) IsOwner(_ context.Context, teamID, userID string) (bool, error) {
	for _, t := range f.bySlug {
		if t.ID == teamID {
			return t.OwnerID == userID, nil
		}
	}
	return false, nil
}

type fakeInvitations struct {
	byToken map[string]domain.Invitation
}

func newFakeInvitations() *fakeInvitations {
	return &fakeInvitations{byToken: map[string]domain.Invitation{}}
}

func (f *fakeInvitations) FindByToken(_ context.Context, token string) (railway.Option[domain.Invitation], error) {
	if inv, ok := f.byToken[token]; ok {
		return railway.Some(inv), nil
	}
	return railway.None[domain.Invitation](), nil
}

func (f *fakeInvitations) FindByEmail(_ context.Context, email, teamSlug string) (railway.Option[domain.Invitation], error) {
	for _, inv := range f.byToken {
		if inv.Email == email && inv.Team.Slug == teamSlug {
			return railway.Some(inv), nil
		}
	}
	return railway.None[domain.Invitation](), nil
}

func (f *fakeInvitations) Create(_ context.Context, data domain.InvitationCreateData) (domain.Invitation, error) {
	inv := domain.Invitation{
		Token:   data.Token,
		Email:   data.Email,
		Team:    domain.Team{Slug: data.TeamSlug},
		Expires: data.ExpiresAt,
	}
	f.byToken[inv.Token] = inv
	return inv, nil
}

func (f *fakeInvitations) MarkSent(_ context.Context, token string) error {
	inv := f.byToken[token]
	inv.SentViaEmail = true
	f.byToken[token] = inv
	return nil
}

type okCollaborators struct{}

func (okCollaborators) Validate(context.Context, string) error { return nil }
func (okCollaborators) SendVerification(context.Context, string) error {
	return nil
}
func (okCollaborators) SendInvitation(context.Context, string, string) (bool, error) {
	return true, nil
}
func (okCollaborators) Record(context.Context, string, map[string]string) error { return nil }
func (okCollaborators) Notify(context.Context, string, string) error            { return nil }

func newRegistrationHandler(users *fakeUsers, teams *fakeTeams, invitations *fakeInvitations) *RegistrationHandler {
	ok := okCollaborators{}
	selfSvc := service.NewSelfRegistrationService(users, teams, ok, ok, ok, ok, "")
	inviteSvc := service.NewInvitationRegistrationService(users, teams, invitations, ok, ok, ok, "")
	return NewRegistrationHandler(selfSvc, inviteSvc)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister_SelfSuccessEnvelope(t *testing.T) {
	h := newRegistrationHandler(newFakeUsers(), newFakeTeams(), newFakeInvitations())

	rec := postJSON(t, h.Register, `{
		"kind": "self",
		"name": "Alice",
		"email": "a@acme.com",
		"password": "Str0ng!Pw",
		"team": "Acme",
		"recaptchaToken": "ok"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Kind  string `json:"kind"`
		Value struct {
			User         domain.User `json:"user"`
			Team         domain.Team `json:"team"`
			ConfirmEmail bool        `json:"confirmEmail"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Kind)
	assert.Equal(t, "a@acme.com", envelope.Value.User.Email)
	assert.Equal(t, "acme", envelope.Value.Team.Slug)
	assert.True(t, envelope.Value.ConfirmEmail)
}

func TestRegister_FailureEnvelopeIsStill200(t *testing.T) {
	h := newRegistrationHandler(newFakeUsers(), newFakeTeams(), newFakeInvitations())

	rec := postJSON(t, h.Register, `{
		"kind": "invitation",
		"name": "Bob",
		"password": "Str0ng!Pw",
		"inviteToken": "no-such-token",
		"recaptchaToken": "ok"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Kind  string `json:"kind"`
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "failure", envelope.Kind)
	assert.Equal(t, string(domain.KindInvitationNotFoundError), envelope.Error.Kind)
}

func TestRegister_InvitationSuccess(t *testing.T) {
	users := newFakeUsers()
	teams := newFakeTeams()
	invitations := newFakeInvitations()
	teams.bySlug["acme"] = domain.Team{ID: "t1", Name: "Acme", Slug: "acme", OwnerID: "u1"}
	invitations.byToken["tok-1"] = domain.Invitation{
		Token:   "tok-1",
		Email:   "bob@corp.com",
		Team:    teams.bySlug["acme"],
		Expires: time.Now().Add(time.Hour),
	}
	h := newRegistrationHandler(users, teams, invitations)

	rec := postJSON(t, h.Register, `{
		"kind": "invitation",
		"name": "Bob",
		"password": "Str0ng!Pw",
		"inviteToken": "tok-1",
		"recaptchaToken": "ok"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Kind  string `json:"kind"`
		Value struct {
			User         domain.User `json:"user"`
			ConfirmEmail bool        `json:"confirmEmail"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Kind)
	assert.Equal(t, "bob@corp.com", envelope.Value.User.Email)
	assert.False(t, envelope.Value.ConfirmEmail)
}

func TestRegister_UnknownKind(t *testing.T) {
	h := newRegistrationHandler(newFakeUsers(), newFakeTeams(), newFakeInvitations())

	rec := postJSON(t, h.Register, `{"kind": "telepathy"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestRegister_MalformedBody(t *testing.T) {
	h := newRegistrationHandler(newFakeUsers(), newFakeTeams(), newFakeInvitations())

	rec := postJSON(t, h.Register, `{"kind": `)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateInvitation_RequiresAuthenticatedUser(t *testing.T) {
	users := newFakeUsers()
	teams := newFakeTeams()
	invitations := newFakeInvitations()
	ok := okCollaborators{}
	svc := service.NewInvitationCreationService(users, teams, invitations, teams, ok, 0)
	h := NewInvitationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invitations", strings.NewReader(`{"email":"new@corp.com"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateInvitation_SuccessEnvelope(t *testing.T) {
	users := newFakeUsers()
	teams := newFakeTeams()
	invitations := newFakeInvitations()
	users.byID["u1"] = domain.User{ID: "u1", Email: "owner@acme.com"}
	teams.bySlug["acme"] = domain.Team{ID: "t1", Name: "Acme", Slug: "acme", OwnerID: "u1"}
	teams.byOwner["u1"] = teams.bySlug["acme"]
	ok := okCollaborators{}
	svc := service.NewInvitationCreationService(users, teams, invitations, teams, ok, 0)
	h := NewInvitationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invitations", strings.NewReader(`{"email":"new@corp.com"}`))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, "u1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Kind  string `json:"kind"`
		Value struct {
			Success    bool              `json:"success"`
			Invitation domain.Invitation `json:"invitation"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Kind)
	assert.True(t, envelope.Value.Success)
	assert.NotEmpty(t, envelope.Value.Invitation.Token)
	assert.True(t, envelope.Value.Invitation.SentViaEmail)
}
