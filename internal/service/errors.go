package service

import "errors"

var (
	// ErrInvalidCode is returned when a claim presents a code that does
	// not match any PENDING trip. The message is deliberately generic:
	// callers must not learn whether the code exists in another state.
	ErrInvalidCode = errors.New("incorrect code")

	// ErrTripNotActive is returned when complete is attempted against a
	// trip that is not currently ACTIVE (including unknown codes and
	// retries against an already-completed trip).
	ErrTripNotActive = errors.New("trip not active")

	// ErrDuplicateCode is returned when issuance collides with an
	// existing code.
	ErrDuplicateCode = errors.New("code already issued")

	// ErrEndBeforeStart is returned when settlement is asked to bill a
	// negative elapsed duration (clock skew). Rejected rather than
	// clamped so a skewed clock cannot silently produce a wrong fare.
	ErrEndBeforeStart = errors.New("end time precedes start time")

	// ErrInvalidServiceTier is returned when a tier outside the closed
	// set is supplied.
	ErrInvalidServiceTier = errors.New("invalid service tier")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRole is returned when a role outside the closed set is
	// supplied at registration.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidName is returned when an account name is empty.
	ErrInvalidName = errors.New("invalid account name")

	// ErrInvalidSecret is returned when an account secret is empty.
	ErrInvalidSecret = errors.New("invalid account secret")

	// ErrNameTaken is returned when registration collides with an
	// existing account name.
	ErrNameTaken = errors.New("name already registered")

	// ErrBadCredentials is returned when login fails. Like ErrInvalidCode
	// it never distinguishes unknown name from wrong secret.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrTooManyAttempts is returned when claim attempts against a code
	// are arriving faster than the throttle allows.
	ErrTooManyAttempts = errors.New("too many claim attempts")
)
