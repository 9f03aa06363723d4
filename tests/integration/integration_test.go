package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовые структуры данных соответствующие API
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	OwnerID string `json:"ownerId"`
}

type RegistrationData struct {
	User         User  `json:"user"`
	Team         *Team `json:"team"`
	ConfirmEmail bool  `json:"confirmEmail"`
}

type Invitation struct {
	Token        string `json:"token"`
	Email        string `json:"email"`
	Team         Team   `json:"team"`
	SentViaEmail bool   `json:"sentViaEmail"`
}

type InvitationResponse struct {
	Success    bool       `json:"success"`
	Invitation Invitation `json:"invitation"`
}

type PipelineError struct {
	Kind string `json:"kind"`
}

// TestE2E_RegistrationJourney тестирует полный путь: саморегистрация
// владельца, создание приглашения, принятие приглашения
func TestE2E_RegistrationJourney(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	env.WaitForHealthCheck(t)

	var owner User
	t.Run("Self Register Owner", func(t *testing.T) {
		body := []byte(`{
			"kind": "self",
			"name": "Alice",
			"email": "alice@acme.com",
			"password": "Str0ng!Pw",
			"team": "Acme Corp",
			"recaptchaToken": "test-token"
		}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, value, _ := DecodeEnvelope(t, resp)
		require.Equal(t, "success", kind)

		var data RegistrationData
		require.NoError(t, json.Unmarshal(value, &data))

		assert.Equal(t, "alice@acme.com", data.User.Email)
		require.NotNil(t, data.Team)
		assert.Equal(t, "acme-corp", data.Team.Slug)
		assert.Equal(t, data.User.ID, data.Team.OwnerID)
		assert.True(t, data.ConfirmEmail, "Self-registration requires email confirmation")

		owner = data.User
	})

	t.Run("Duplicate Self Registration Fails", func(t *testing.T) {
		body := []byte(`{
			"kind": "self",
			"name": "Alice Again",
			"email": "alice@acme.com",
			"password": "Str0ng!Pw",
			"team": "Other Team",
			"recaptchaToken": "test-token"
		}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		// Ошибка конвейера это данные, транспорт отвечает 200
		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, _, errValue := DecodeEnvelope(t, resp)
		require.Equal(t, "failure", kind)

		var pipelineErr PipelineError
		require.NoError(t, json.Unmarshal(errValue, &pipelineErr))
		assert.Equal(t, "user-exists-error", pipelineErr.Kind)
	})

	t.Run("Create Invitation Requires Auth", func(t *testing.T) {
		body := []byte(`{"email": "bob@corp.com"}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/invitations", bytes.NewReader(body), "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	var inviteToken string
	t.Run("Create Invitation", func(t *testing.T) {
		mailsBefore := env.MailCount()
		token := env.SignToken(t, owner.ID)
		body := []byte(`{"email": "bob@corp.com"}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/invitations", bytes.NewReader(body), token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, value, _ := DecodeEnvelope(t, resp)
		require.Equal(t, "success", kind)

		var invResp InvitationResponse
		require.NoError(t, json.Unmarshal(value, &invResp))

		assert.True(t, invResp.Success)
		assert.NotEmpty(t, invResp.Invitation.Token)
		assert.Equal(t, "bob@corp.com", invResp.Invitation.Email)
		assert.True(t, invResp.Invitation.SentViaEmail)
		assert.Greater(t, env.MailCount(), mailsBefore, "Invitation email should be delivered")

		inviteToken = invResp.Invitation.Token
	})

	t.Run("Duplicate Pending Invitation Fails", func(t *testing.T) {
		token := env.SignToken(t, owner.ID)
		body := []byte(`{"email": "bob@corp.com"}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/invitations", bytes.NewReader(body), token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, _, _ := DecodeEnvelope(t, resp)
		assert.Equal(t, "failure", kind)
	})

	t.Run("Accept Invitation", func(t *testing.T) {
		require.NotEmpty(t, inviteToken)

		body, _ := json.Marshal(map[string]string{
			"kind":           "invitation",
			"name":           "Bob",
			"password":       "An0ther!Pw",
			"inviteToken":    inviteToken,
			"recaptchaToken": "test-token",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, value, _ := DecodeEnvelope(t, resp)
		require.Equal(t, "success", kind)

		var data RegistrationData
		require.NoError(t, json.Unmarshal(value, &data))

		// Email берется из приглашения, подтверждение не требуется
		assert.Equal(t, "bob@corp.com", data.User.Email)
		require.NotNil(t, data.Team)
		assert.Equal(t, "acme-corp", data.Team.Slug)
		assert.False(t, data.ConfirmEmail)
	})

	t.Run("Accept Same Invitation Twice Fails", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"kind":           "invitation",
			"name":           "Bob Again",
			"password":       "An0ther!Pw",
			"inviteToken":    inviteToken,
			"recaptchaToken": "test-token",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, _, errValue := DecodeEnvelope(t, resp)
		require.Equal(t, "failure", kind)

		var pipelineErr PipelineError
		require.NoError(t, json.Unmarshal(errValue, &pipelineErr))
		assert.Equal(t, "user-exists-error", pipelineErr.Kind)
	})
}

// TestE2E_RegistrationFailures тестирует пути отказа через публичный API
func TestE2E_RegistrationFailures(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	env.WaitForHealthCheck(t)

	// Владелец и команда для сценариев с приглашениями
	ownerBody := []byte(`{
		"kind": "self",
		"name": "Carol",
		"email": "carol@initech.com",
		"password": "Str0ng!Pw",
		"team": "Initech",
		"recaptchaToken": "test-token"
	}`)
	resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(ownerBody), "")
	kind, value, _ := DecodeEnvelope(t, resp)
	resp.Body.Close()
	require.Equal(t, "success", kind)

	var ownerData RegistrationData
	require.NoError(t, json.Unmarshal(value, &ownerData))

	t.Run("Personal Email Rejected", func(t *testing.T) {
		body := []byte(`{
			"kind": "self",
			"name": "Dave",
			"email": "dave@gmail.com",
			"password": "Str0ng!Pw",
			"team": "Daves Team",
			"recaptchaToken": "test-token"
		}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, _, errValue := DecodeEnvelope(t, resp)
		require.Equal(t, "failure", kind)

		var pipelineErr struct {
			Kind        string `json:"kind"`
			InnerErrors []struct {
				Kind   string `json:"kind"`
				Reason string `json:"reason"`
			} `json:"innerErrors"`
		}
		require.NoError(t, json.Unmarshal(errValue, &pipelineErr))
		assert.Equal(t, "form-validation-error", pipelineErr.Kind)
		require.Len(t, pipelineErr.InnerErrors, 1)
		assert.Equal(t, "not-work-email", pipelineErr.InnerErrors[0].Reason)
	})

	t.Run("Unknown Invite Token", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"kind":           "invitation",
			"name":           "Eve",
			"password":       "Str0ng!Pw",
			"inviteToken":    "no-such-token",
			"recaptchaToken": "test-token",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		kind, _, errValue := DecodeEnvelope(t, resp)
		require.Equal(t, "failure", kind)

		var pipelineErr PipelineError
		require.NoError(t, json.Unmarshal(errValue, &pipelineErr))
		assert.Equal(t, "invitation-not-found-error", pipelineErr.Kind)
	})

	t.Run("Expired Invitation", func(t *testing.T) {
		env.InsertExpiredInvitation(t, "expired-token", "late@initech.com", "initech", ownerData.User.ID)

		body, _ := json.Marshal(map[string]string{
			"kind":           "invitation",
			"name":           "Frank",
			"password":       "Str0ng!Pw",
			"inviteToken":    "expired-token",
			"recaptchaToken": "test-token",
		})

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		kind, _, errValue := DecodeEnvelope(t, resp)
		require.Equal(t, "failure", kind)

		var pipelineErr struct {
			Kind      string `json:"kind"`
			ExpiredAt string `json:"expiredAt"`
		}
		require.NoError(t, json.Unmarshal(errValue, &pipelineErr))
		assert.Equal(t, "invitation-expired-error", pipelineErr.Kind)
		assert.NotEmpty(t, pipelineErr.ExpiredAt)
	})

	t.Run("Invitation From Unknown Inviter", func(t *testing.T) {
		token := env.SignToken(t, "no-such-user")
		body := []byte(`{"email": "someone@corp.com"}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/invitations", bytes.NewReader(body), token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		kind, _, errValue := DecodeEnvelope(t, resp)
		require.Equal(t, "failure", kind)

		var pipelineErr PipelineError
		require.NoError(t, json.Unmarshal(errValue, &pipelineErr))
		assert.Equal(t, "user-not-found-error", pipelineErr.Kind)
	})

	t.Run("Unknown Kind Is Transport Error", func(t *testing.T) {
		body := []byte(`{"kind": "telepathy"}`)

		resp := env.MakeRequest(t, http.MethodPost, "/api/register", bytes.NewReader(body), "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
