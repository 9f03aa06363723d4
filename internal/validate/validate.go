// Package validate contains the pure validation rules used by the
// registration pipelines. Each rule takes a single value and returns either
// an absent Option (no problem) or a present violation record.
package validate

import (
	"strings"

	"github.com/damir/signup-service/internal/domain"
	"github.com/damir/signup-service/internal/railway"
)

// personalDomains is the fixed deny-list of personal email providers.
// Matched case-insensitively on the domain portion after '@'.
var personalDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"aol.com",
}

// passwordSymbols is the punctuation set accepted as the symbol class.
const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// EmailFormat checks the structural shape of an email address: exactly one
// '@' with a dot somewhere in the domain portion.
func EmailFormat(email string) railway.Option[domain.FieldError] {
	if !emailFormatOK(email) {
		return railway.Some(domain.FieldError{
			Kind:   domain.FieldEmail,
			Reason: domain.ReasonInvalidFormat,
		})
	}
	return railway.None[domain.FieldError]()
}

// WorkEmail rejects addresses whose domain is on the personal-provider
// deny-list. Assumes the format has already been checked.
func WorkEmail(email string) railway.Option[domain.FieldError] {
	if isPersonalDomain(email) {
		return railway.Some(domain.FieldError{
			Kind:   domain.FieldEmail,
			Reason: domain.ReasonNotWorkEmail,
		})
	}
	return railway.None[domain.FieldError]()
}

// Email applies the format rule and, only when the format is valid, the
// work-domain policy. At most one violation is reported.
func Email(email string) railway.Option[domain.FieldError] {
	if v, ok := EmailFormat(email).Get(); ok {
		return railway.Some(v)
	}
	return WorkEmail(email)
}

// Password checks password strength. An empty password fails with reason
// "empty" and short-circuits the strength checks; otherwise every character
// class (length, upper, lower, digit, symbol) must be present or the
// password fails with reason "weak".
func Password(password string) railway.Option[domain.FieldError] {
	if password == "" {
		return railway.Some(domain.FieldError{
			Kind:   domain.FieldPassword,
			Reason: domain.ReasonEmpty,
		})
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if len(password) < 8 || !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return railway.Some(domain.FieldError{
			Kind:   domain.FieldPassword,
			Reason: domain.ReasonWeak,
		})
	}
	return railway.None[domain.FieldError]()
}

// Name requires a non-empty value after trimming whitespace.
func Name(name string) railway.Option[domain.FieldError] {
	return minName(name, 1)
}

// DisplayName is the stricter self-registration variant: at least two
// characters.
func DisplayName(name string) railway.Option[domain.FieldError] {
	return minName(name, 2)
}

func minName(name string, min int) railway.Option[domain.FieldError] {
	if len(strings.TrimSpace(name)) < min {
		return railway.Some(domain.FieldError{
			Kind:   domain.FieldName,
			Reason: domain.ReasonEmpty,
		})
	}
	return railway.None[domain.FieldError]()
}

// SelfRegistrationForm aggregates every applicable rule over a
// self-registration request. All detected violations are returned together
// in detection order.
func SelfRegistrationForm(req domain.JoinSelf) railway.Result[railway.Unit, *domain.RegistrationError] {
	return aggregate(
		Email(req.Email),
		DisplayName(req.Name),
		Password(req.Password),
		DisplayName(req.Team),
	)
}

// InvitationAcceptanceForm validates the accepting request's name and
// password. The email is fixed by the invitation and validated separately.
func InvitationAcceptanceForm(req domain.JoinByInvitation) railway.Result[railway.Unit, *domain.RegistrationError] {
	return aggregate(
		Name(req.Name),
		Password(req.Password),
	)
}

// InvitationCreationForm validates only the invitee email.
func InvitationCreationForm(req domain.CreateInvitation) railway.Result[railway.Unit, *domain.RegistrationError] {
	return aggregate(
		Email(req.Email),
	)
}

// InvitationEmail re-validates an email stored inside an invitation record.
// Unlike form validation, each violation maps to its own top-level error
// kind.
func InvitationEmail(email string) railway.Result[string, *domain.RegistrationError] {
	if !emailFormatOK(email) {
		return railway.Failure[string](domain.NewInvalidEmailFormatError(email))
	}
	if isPersonalDomain(email) {
		return railway.Failure[string](domain.NewNonWorkEmailError(domainPart(email)))
	}
	return railway.Success[string, *domain.RegistrationError](email)
}

func aggregate(checks ...railway.Option[domain.FieldError]) railway.Result[railway.Unit, *domain.RegistrationError] {
	var violations []domain.FieldError
	for _, check := range checks {
		if v, ok := check.Get(); ok {
			violations = append(violations, v)
		}
	}
	if len(violations) > 0 {
		return railway.Failure[railway.Unit](domain.NewFormValidationError(violations))
	}
	return railway.OK[*domain.RegistrationError]()
}

func emailFormatOK(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	local := email[:strings.Index(email, "@")]
	return local != "" && strings.Contains(domainPart(email), ".")
}

func isPersonalDomain(email string) bool {
	d := strings.ToLower(domainPart(email))
	for _, personal := range personalDomains {
		if d == personal {
			return true
		}
	}
	return false
}

func domainPart(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}
