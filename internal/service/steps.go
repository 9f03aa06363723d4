package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
)

// Shared pipeline steps. Each step is a function from its inputs to a
// Result; the pipelines chain them and stop at the first failure. Keeping
// them package-level makes every transition testable in isolation.

// CheckRecaptcha fails fast on an empty or whitespace token without calling
// the validator; otherwise it delegates and propagates the validator's
// verdict.
func CheckRecaptcha(ctx context.Context, token string, validator RecaptchaValidator) railway.Result[railway.Unit, *domain.RegistrationError] {
	if strings.TrimSpace(token) == "" {
		return railway.Failure[railway.Unit](domain.NewRecaptchaError(domain.ReasonNotProvided))
	}

	if err := validator.Validate(ctx, token); err != nil {
		var regErr *domain.RegistrationError
		if errors.As(err, &regErr) {
			return railway.Failure[railway.Unit](regErr)
		}
		return railway.Failure[railway.Unit](&domain.RegistrationError{
			Kind:    domain.KindRecaptchaError,
			Details: err.Error(),
		})
	}

	return railway.OK[*domain.RegistrationError]()
}

// CheckUserExists turns presence into a business failure: the email is
// already taken. Absence means registration may proceed.
func CheckUserExists(user railway.Option[domain.User]) railway.Result[railway.Unit, *domain.RegistrationError] {
	if user.IsSome() {
		return railway.Failure[railway.Unit](domain.NewUserExistsError())
	}
	return railway.OK[*domain.RegistrationError]()
}

// CheckTeamUnique is the same existence-check shape over the derived slug.
func CheckTeamUnique(team railway.Option[domain.Team]) railway.Result[railway.Unit, *domain.RegistrationError] {
	if team.IsSome() {
		return railway.Failure[railway.Unit](domain.NewTeamExistsError())
	}
	return railway.OK[*domain.RegistrationError]()
}

// CheckInviterKnown requires the inviter to exist. The id comes from the
// authenticated request context, so absence is a not-found failure, not a
// validation one.
func CheckInviterKnown(user railway.Option[domain.User], userID string) railway.Result[domain.User, *domain.RegistrationError] {
	if u, ok := user.Get(); ok {
		return railway.Success[domain.User, *domain.RegistrationError](u)
	}
	return railway.Failure[domain.User](domain.NewUserNotFoundError(userID))
}

// CheckTeamExists requires a team lookup to have found something.
func CheckTeamExists(team railway.Option[domain.Team], detail string) railway.Result[domain.Team, *domain.RegistrationError] {
	if t, ok := team.Get(); ok {
		return railway.Success[domain.Team, *domain.RegistrationError](t)
	}
	return railway.Failure[domain.Team](domain.NewTeamNotFoundError(errors.New(detail)))
}

// ResolveInvitation maps both a store failure and a genuine absence to
// invitation-not-found. The two failure classes are deliberately not
// distinguished at this boundary; the wrapped cause keeps them apart for
// operators.
func ResolveInvitation(invitation railway.Option[domain.Invitation], lookupErr error, token string) railway.Result[domain.Invitation, *domain.RegistrationError] {
	if lookupErr != nil {
		return railway.Failure[domain.Invitation](domain.NewInvitationNotFoundError(
			fmt.Errorf("failed to retrieve invitation: %w", lookupErr),
		))
	}

	if inv, ok := invitation.Get(); ok {
		return railway.Success[domain.Invitation, *domain.RegistrationError](inv)
	}
	return railway.Failure[domain.Invitation](domain.NewInvitationNotFoundError(
		fmt.Errorf("invitation with token %s not found", token),
	))
}

// CheckInvitationExpiry fails iff expires <= now: the exact expiry instant
// is already expired.
func CheckInvitationExpiry(invitation domain.Invitation, now time.Time) railway.Result[domain.Invitation, *domain.RegistrationError] {
	if invitation.Expired(now) {
		return railway.Failure[domain.Invitation](domain.NewInvitationExpiredError(invitation.Expires))
	}
	return railway.Success[domain.Invitation, *domain.RegistrationError](invitation)
}

// VerifyTeamOwnership is a defense-in-depth gate on top of the owner-scoped
// team lookup. A negative answer and a checker error both map to the same
// auth failure.
func VerifyTeamOwnership(ctx context.Context, team domain.Team, userID string, checker OwnershipChecker) railway.Result[railway.Unit, *domain.RegistrationError] {
	isOwner, err := checker.IsOwner(ctx, team.ID, userID)
	if err != nil {
		return railway.Failure[railway.Unit](domain.NewTeamOwnerAuthError(
			fmt.Sprintf("error checking team ownership: %v", err),
		))
	}
	if !isOwner {
		return railway.Failure[railway.Unit](domain.NewTeamOwnerAuthError(
			"only team owners can create invitations",
		))
	}
	return railway.OK[*domain.RegistrationError]()
}
