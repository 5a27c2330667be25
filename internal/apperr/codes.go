// Package apperr provides the engine's coded error type.
//
// Every failure that crosses the action boundary is an *Error carrying a
// machine-readable Code. Callers turn it into a toast with UserMessage and
// decide whether to offer a retry with Retryable.
package apperr

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// Wager errors
	CodeInvalidWager      Code = "INVALID_WAGER"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// State machine errors
	CodeIllegalTransition Code = "ILLEGAL_TRANSITION"
	CodeExhaustedAttempt  Code = "EXHAUSTED_ATTEMPT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeGameOver          Code = "GAME_OVER"
	CodeRevealPending     Code = "REVEAL_PENDING"

	// Remote authority errors
	CodeRemoteAuthorityFailure Code = "REMOTE_AUTHORITY_FAILURE"
)

// Retryable reports whether the user may simply try the same action again.
func (c Code) Retryable() bool {
	switch c {
	case CodeRemoteAuthorityFailure, CodeRevealPending:
		return true
	default:
		return false
	}
}

// userMessages are the default toast texts per code.
var userMessages = map[Code]string{
	CodeUnknown:                "Something went wrong.",
	CodeInvalidWager:           "That bet is not allowed.",
	CodeInsufficientFunds:      "You can't afford that.",
	CodeIllegalTransition:      "That can't be done right now.",
	CodeExhaustedAttempt:       "You already tried that.",
	CodeNotFound:               "Nothing to act on.",
	CodeGameOver:               "Your run is over.",
	CodeRevealPending:          "Wait for the current result.",
	CodeRemoteAuthorityFailure: "The house did not answer. Try again.",
}
