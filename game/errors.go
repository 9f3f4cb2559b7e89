package game

import "fmt"

// Reason is the closed set of categorical failure reasons a command can
// produce. The hosting layer turns a reason into a user-visible message;
// the engine itself never logs and never recovers silently.
type Reason string

const (
	ReasonNotYourTurn          Reason = "not-your-turn"
	ReasonInvalidPhase         Reason = "invalid-phase"
	ReasonNotFound             Reason = "not-found"
	ReasonIllegalPlacement     Reason = "illegal-placement"
	ReasonInsufficientResource Reason = "insufficient-resource"
	ReasonAlreadyDone          Reason = "already-done"
	ReasonPermissionDenied     Reason = "permission-denied"
)

// RuleError is the only error type crossing the command boundary. Every
// validation happens before any mutation, so a caller that receives one can
// assume state is unchanged.
type RuleError struct {
	Reason Reason
	Detail string
}

func (e *RuleError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return string(e.Reason) + ": " + e.Detail
}

// Fail builds a RuleError with a formatted detail message.
func Fail(r Reason, format string, args ...any) *RuleError {
	return &RuleError{Reason: r, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the categorical reason from an error, or "" for nil or
// foreign errors.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	if re, ok := err.(*RuleError); ok {
		return re.Reason
	}
	return ""
}
