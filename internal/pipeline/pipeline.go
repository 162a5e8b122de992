// Package pipeline implements the validation-and-dispatch gate for contact
// form submissions: honeypot spam gate, challenge verification, field
// presence, email deliverability, sanitization, then a concurrent
// persist-and-notify dispatch. Each stage can terminate the run with a
// typed rejection; stages run strictly in order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/formworks/formgate/internal/core/domain"
	"github.com/formworks/formgate/internal/core/ports"
	"github.com/formworks/formgate/internal/emailcheck"
	"github.com/formworks/formgate/internal/metrics"
	"github.com/formworks/formgate/internal/sanitize"
)

// State names a position in the pipeline's state machine. Transitions only
// move forward; a rejection is terminal in whatever state produced it.
type State string

const (
	StateStart             State = "start"
	StateSpamChecked       State = "spam_checked"
	StateChallengeVerified State = "challenge_verified"
	StateFieldsPresent     State = "fields_present"
	StateEmailDeliverable  State = "email_deliverable"
	StateSanitized         State = "sanitized"
	StateDispatched        State = "dispatched"
)

const (
	// decoyMessage is returned for honeypot trips: indistinguishable from a
	// real acceptance so the trap is not signalled.
	decoyMessage = "Thanks for the submission! It has been received."
	// successMessage is the public acceptance message.
	successMessage = "Thanks for the submission! It has been received, I'll get back to you soon."
)

// Config carries the pipeline's fixed parameters.
type Config struct {
	// Table is the storage table records are written to.
	Table string
	// MailFrom is the notification sender and reply-to address.
	MailFrom string
	// MailTo is the operator address notifications go to.
	MailTo string
	// MailSubject is the fixed notification subject.
	MailSubject string
	// ChallengeSecret is the server-held secret for token verification.
	ChallengeSecret string
	// HoneypotField and ChallengeField name the trap and token form fields.
	// Empty values fall back to "honey" and "captcha".
	HoneypotField  string
	ChallengeField string
}

// Pipeline runs one submission through the ordered gate of checks. It holds
// no per-request state; a single instance serves concurrent requests.
type Pipeline struct {
	cfg      Config
	store    ports.RecordStore
	notifier ports.Notifier
	verifier ports.ChallengeVerifier
	oracle   ports.DeliverabilityOracle
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// New wires a pipeline with its four collaborators.
func New(cfg Config, store ports.RecordStore, notifier ports.Notifier, verifier ports.ChallengeVerifier, oracle ports.DeliverabilityOracle, logger *slog.Logger) *Pipeline {
	if cfg.HoneypotField == "" {
		cfg.HoneypotField = "honey"
	}
	if cfg.ChallengeField == "" {
		cfg.ChallengeField = "captcha"
	}
	if cfg.MailSubject == "" {
		cfg.MailSubject = "New Form Submission"
	}
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		verifier: verifier,
		oracle:   oracle,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// request is the per-run working set threaded through the stages.
type request struct {
	raw   domain.RawSubmission
	state State

	name    string
	email   string
	subject string
	message string
	upload  string

	sub *domain.ValidatedSubmission
}

// stage is one transition of the state machine. A non-nil Result terminates
// the run; nil advances to next.
type stage struct {
	next State
	run  func(ctx context.Context, req *request) *domain.Result
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{StateSpamChecked, p.spamGate},
		{StateChallengeVerified, p.verifyChallenge},
		{StateFieldsPresent, p.collectFields},
		{StateEmailDeliverable, p.checkEmail},
		{StateSanitized, p.sanitizeFields},
		{StateDispatched, p.dispatch},
	}
}

// Run executes the pipeline for one raw submission and always returns a
// Result; no error escapes to the transport layer.
func (p *Pipeline) Run(ctx context.Context, raw domain.RawSubmission) *domain.Result {
	start := p.now()
	result := p.run(ctx, raw)
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	if result.Accepted {
		metrics.SubmissionsTotal.WithLabelValues("accepted", "").Inc()
	} else {
		metrics.SubmissionsTotal.WithLabelValues("rejected", string(result.Kind)).Inc()
	}
	return result
}

func (p *Pipeline) run(ctx context.Context, raw domain.RawSubmission) *domain.Result {
	if raw == nil {
		return domain.Reject(http.StatusInternalServerError, domain.KindNoFormData, "No form data was submitted.")
	}

	req := &request{raw: raw, state: StateStart, sub: domain.NewValidatedSubmission()}
	for _, s := range p.stages() {
		if result := s.run(ctx, req); result != nil {
			return result
		}
		req.state = s.next
	}
	return domain.Accept(successMessage)
}

// spamGate terminates with a decoy acceptance when the honeypot field is
// populated. Nothing downstream runs, so bots receive a convincing success
// while contributing no data. The honeypot wins even over an invalid
// challenge token: surfacing the captcha error would leak the trap.
func (p *Pipeline) spamGate(ctx context.Context, req *request) *domain.Result {
	if req.raw.Truthy(p.cfg.HoneypotField) {
		p.logger.Info("honeypot tripped, returning decoy acceptance",
			slog.String("state", string(req.state)))
		return domain.Accept(decoyMessage)
	}
	return nil
}

// verifyChallenge requires a challenge token and an explicit success verdict
// from the verifier before control passes to field validation.
func (p *Pipeline) verifyChallenge(ctx context.Context, req *request) *domain.Result {
	token := req.raw.String(p.cfg.ChallengeField)
	if token == "" {
		return domain.Reject(http.StatusBadRequest, domain.KindMissingChallenge, "No captcha was provided.")
	}

	verdict, err := p.verifier.Verify(ctx, p.cfg.ChallengeSecret, token)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("challenge").Inc()
		p.logger.Error("challenge verification call failed", slog.String("error", err.Error()))
		return domain.Reject(http.StatusBadRequest, domain.KindChallengeFailed, "Captcha verification failed.")
	}
	if verdict == nil || !verdict.Success {
		return domain.Reject(http.StatusBadRequest, domain.KindChallengeFailed, "Captcha verification failed.")
	}
	return nil
}

// collectFields enforces required-field presence in fixed order: name,
// email, subject, then message-or-upload. The first absence short-circuits
// so error messages are deterministic.
func (p *Pipeline) collectFields(ctx context.Context, req *request) *domain.Result {
	req.name = req.raw.String("name")
	if req.name == "" {
		return missingField("name", "No name was provided.")
	}
	req.email = req.raw.String("email")
	if req.email == "" {
		return missingField("email", "No email address was provided.")
	}
	req.subject = req.raw.String("subject")
	if req.subject == "" {
		return missingField("subject", "No subject was provided.")
	}
	req.message = req.raw.String("message")
	req.upload = req.raw.String("upload")
	if req.message == "" && req.upload == "" {
		return missingField("message", "No message or upload was provided.")
	}
	return nil
}

func missingField(field, message string) *domain.Result {
	return domain.Reject(http.StatusBadRequest, domain.KindMissingField, message).
		WithDetails(map[string]any{"field": field})
}

// checkEmail applies the syntax filter, then asks the deliverability oracle.
// The oracle's reason and full diagnostics are surfaced on rejection; they
// are the one collaborator detail intentionally shown to callers.
func (p *Pipeline) checkEmail(ctx context.Context, req *request) *domain.Result {
	if !emailcheck.Syntax(req.email) {
		return domain.Reject(http.StatusBadRequest, domain.KindInvalidEmail, "The email provided could not be validated.")
	}

	verdict, err := p.oracle.Check(ctx, req.email)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("deliverability").Inc()
		p.logger.Error("deliverability check failed", slog.String("error", err.Error()))
		return domain.Reject(http.StatusBadRequest, domain.KindUndeliverable, "The email provided could not be verified.")
	}
	if verdict == nil || !verdict.Valid {
		reason := "unknown"
		details := map[string]any{}
		if verdict != nil {
			if verdict.Reason != "" {
				reason = verdict.Reason
			}
			details["reason"] = reason
			details["validators"] = verdict.Validators
		}
		msg := fmt.Sprintf("The email provided is invalid for the reason: %s.", reason)
		return domain.Reject(http.StatusBadRequest, domain.KindUndeliverable, msg).WithDetails(details)
	}
	return nil
}

// sanitizeFields escapes every accepted text field exactly once and builds
// the ValidatedSubmission in insertion order. The email passes through the
// same escaper as the free-text fields.
func (p *Pipeline) sanitizeFields(ctx context.Context, req *request) *domain.Result {
	req.sub.Set("name", sanitize.Escape(req.name))
	req.sub.Set("email", sanitize.Escape(req.email))
	req.sub.Set("subject", sanitize.Escape(req.subject))
	if req.message != "" {
		req.sub.Set("message", sanitize.Escape(req.message))
	}
	if req.upload != "" {
		req.sub.Set("upload", sanitize.Escape(req.upload))
	}
	return nil
}
