// Package ports defines the collaborator interfaces the pipeline calls.
// Implementations live under internal/storage, internal/notify,
// internal/challenge and internal/emailcheck; tests substitute fakes.
package ports

import (
	"context"

	"github.com/formworks/formgate/internal/core/domain"
)

// RecordStore persists accepted submissions. Put is the only operation the
// pipeline uses; records are write-once.
type RecordStore interface {
	// Put inserts a single record into the named table.
	Put(ctx context.Context, table string, rec *domain.StoredRecord) error
}

// Notifier delivers a single operator notification. Fire-and-forget: no
// retry is attempted at this layer.
type Notifier interface {
	Send(ctx context.Context, msg *domain.Notification) error
}

// ChallengeResult is the verifier's verdict on a challenge token.
type ChallengeResult struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// ChallengeVerifier validates a caller-supplied human-verification token
// against a server-held secret.
type ChallengeVerifier interface {
	Verify(ctx context.Context, secret, token string) (*ChallengeResult, error)
}

// DeliverabilityResult is the oracle's verdict on an email address. Reason
// names the first failing validator; Validators carries the full per-check
// diagnostics surfaced to the operator on rejection.
type DeliverabilityResult struct {
	Valid      bool           `json:"valid"`
	Reason     string         `json:"reason,omitempty"`
	Validators map[string]any `json:"validators,omitempty"`
}

// DeliverabilityOracle assesses whether an address can actually receive
// mail, beyond syntax.
type DeliverabilityOracle interface {
	Check(ctx context.Context, email string) (*DeliverabilityResult, error)
}
