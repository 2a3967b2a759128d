package auth

import (
	"errors"

	"recipebook/internal/identity"
	"recipebook/internal/session"
)

// State is the orchestrator's position in the session lifecycle.
type State int

const (
	// StateUnauthenticated means no live session exists.
	StateUnauthenticated State = iota
	// StateAuthenticating means an intent is being resolved against the
	// identity endpoint or the session slot.
	StateAuthenticating
	// StateAuthenticated means a live session exists and the logout timer
	// is armed.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// OutcomeKind tags the result of an authentication intent.
type OutcomeKind int

const (
	// OutcomeNone is a no-op result: nothing to rehydrate, or a logout.
	OutcomeNone OutcomeKind = iota
	// OutcomeSuccess carries a live session.
	OutcomeSuccess
	// OutcomeFailure carries a user-facing error message.
	OutcomeFailure
)

// Outcome is the tagged result of an authentication intent. Success carries
// the session and a redirect to the authenticated root view; a logout
// redirects to the auth entry view.
type Outcome struct {
	Kind     OutcomeKind
	Session  *session.Session
	Message  string
	Redirect string
}

// Navigation targets emitted with outcomes.
const (
	RedirectRoot = "/"
	RedirectAuth = "/auth"
)

type intentKind int

const (
	intentLogin intentKind = iota
	intentSignup
	intentAutoLogin
	intentLogout
	intentExpire
)

type intent struct {
	kind     intentKind
	email    string
	password string
	reply    chan Outcome
}

// User-facing messages for identity endpoint failures. Transport errors and
// unrecognized codes all collapse into the unknown-error message.
const msgUnknownError = "An unknown error occurred!"

func failureMessage(err error) string {
	var apiErr *identity.APIError
	if !errors.As(err, &apiErr) {
		return msgUnknownError
	}

	switch apiErr.Code {
	case identity.CodeEmailExists:
		return "This email exists already"
	case identity.CodeEmailNotFound:
		return "This email does not exist."
	case identity.CodeInvalidPassword:
		return "This password is not correct."
	default:
		return msgUnknownError
	}
}
