package domain

import "net/http"

// Kind identifies a terminal pipeline rejection class. Every rejection maps
// to exactly one kind; the transport layer serializes them all through the
// same envelope.
type Kind string

const (
	KindMalformedRequest Kind = "malformed_request"
	KindNoFormData       Kind = "no_form_data"
	KindMissingChallenge Kind = "missing_challenge"
	KindChallengeFailed  Kind = "challenge_failed"
	KindMissingField     Kind = "missing_field"
	KindInvalidEmail     Kind = "invalid_email_syntax"
	KindUndeliverable    Kind = "undeliverable_email"
	KindInternalDispatch Kind = "internal_dispatch_error"
)

// Result is the discriminated outcome of one pipeline run. Exactly one stage
// produces it and it is surfaced unchanged to the transport layer.
type Result struct {
	Accepted bool
	Status   int
	Kind     Kind
	Message  string
	Details  map[string]any
}

// Accept produces a success outcome with the public message.
func Accept(message string) *Result {
	return &Result{
		Accepted: true,
		Status:   http.StatusOK,
		Message:  message,
	}
}

// Reject produces a terminal rejection of the given kind.
func Reject(status int, kind Kind, message string) *Result {
	return &Result{
		Status:  status,
		Kind:    kind,
		Message: message,
	}
}

// WithDetails attaches a diagnostics payload to a rejection.
func (r *Result) WithDetails(details map[string]any) *Result {
	r.Details = details
	return r
}
