package service

import "context"

// The pipelines never talk to the outside world directly: every side effect
// goes through one of these capability interfaces, injected by the
// composition root and independently replaceable in tests.

// RecaptchaValidator verifies a recaptcha token against the verification
// service. A nil return means the token is valid.
type RecaptchaValidator interface {
	Validate(ctx context.Context, token string) error
}

// EmailSender delivers registration mail. SendInvitation reports delivery
// with a boolean: false with a nil error is still a delivery failure.
type EmailSender interface {
	SendVerification(ctx context.Context, email string) error
	SendInvitation(ctx context.Context, email, token string) (bool, error)
}

// MetricsRecorder records a single registration event with its metadata.
type MetricsRecorder interface {
	Record(ctx context.Context, event string, metadata map[string]string) error
}

// Notifier posts a message to a notification channel.
type Notifier interface {
	Notify(ctx context.Context, channel, message string) error
}

// OwnershipChecker answers whether a user owns a team. Implementations must
// return an error instead of panicking; the pipeline treats any error as
// "not owner".
type OwnershipChecker interface {
	IsOwner(ctx context.Context, teamID, userID string) (bool, error)
}

// Metric event names and metadata values shared by the pipelines.
const (
	EventUserRegistered        = "user_registered"
	MetaSelfRegistration       = "self_registration"
	MetaInvitationRegistration = "invitation_registration"

	// DefaultNotifyChannel receives new-signup notifications.
	DefaultNotifyChannel = "#new-signups"
)
