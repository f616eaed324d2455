package pkg

import "errors"

// Sentinel errors for the workflows in service; handlers map them to HTTP codes
// and stable machine-readable kinds.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")

	// identity
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")

	// community / membership
	ErrSlugTaken         = errors.New("slug already taken")
	ErrAlreadyMember     = errors.New("already a member of this community")
	ErrJoinNotAllowed    = errors.New("community is closed to new members")
	ErrRequirementNotMet = errors.New("profile does not meet community requirements")
	ErrLastOwner         = errors.New("community must keep an approved owner")

	// events
	ErrEventNotOpen       = errors.New("event is not open for registration")
	ErrEventFull          = errors.New("event is at full capacity")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrMembershipRequired = errors.New("approved community membership required")

	// polls
	ErrPollClosed    = errors.New("poll has ended")
	ErrInvalidOption = errors.New("invalid option")
	ErrAlreadyVoted  = errors.New("already voted on this poll")
)

// Kind returns the stable machine-readable kind for a known error,
// "internal" for anything else.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, ErrSlugTaken), errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrAlreadyVoted),
		errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		return "conflict"
	case errors.Is(err, ErrEventFull):
		return "capacity_exceeded"
	case errors.Is(err, ErrJoinNotAllowed), errors.Is(err, ErrRequirementNotMet),
		errors.Is(err, ErrEventNotOpen), errors.Is(err, ErrPollClosed),
		errors.Is(err, ErrMembershipRequired), errors.Is(err, ErrLastOwner):
		return "policy_violation"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidOption),
		errors.Is(err, ErrResetTokenInvalid):
		return "validation_error"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	}
	return "internal"
}
