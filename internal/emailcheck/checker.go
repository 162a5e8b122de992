package emailcheck

import (
	"context"
	"net"
	"strings"

	"github.com/formworks/formgate/internal/core/ports"
)

// Validator names, in the order they run. Reason on a failed check is the
// name of the first validator that rejected the address.
const (
	validatorRegex      = "regex"
	validatorTypo       = "typo"
	validatorDisposable = "disposable"
	validatorMX         = "mx"
	validatorSMTP       = "smtp"
)

// Resolver is the DNS surface the MX validator needs. *net.Resolver
// satisfies it; tests inject a fake.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Options selects which validators run. The zero value runs nothing; use
// DefaultOptions for the production set.
type Options struct {
	ValidateSyntax     bool
	ValidateMX         bool
	ValidateDisposable bool
	// Typo suggestions and live SMTP probes exist in the option surface for
	// parity with the oracle contract but are disabled in this deployment.
	ValidateTypo bool
	ValidateSMTP bool
}

// DefaultOptions enables syntax, MX and disposable-domain checks and leaves
// typo detection and SMTP handshakes off.
func DefaultOptions() Options {
	return Options{
		ValidateSyntax:     true,
		ValidateMX:         true,
		ValidateDisposable: true,
	}
}

// Checker implements ports.DeliverabilityOracle with local validators.
type Checker struct {
	opts       Options
	resolver   Resolver
	disposable map[string]struct{}
}

// Option configures the Checker.
type Option func(*Checker)

// WithOptions replaces the validator selection.
func WithOptions(opts Options) Option {
	return func(c *Checker) {
		c.opts = opts
	}
}

// WithResolver sets a custom DNS resolver.
func WithResolver(r Resolver) Option {
	return func(c *Checker) {
		c.resolver = r
	}
}

// WithDisposableDomains adds domains to the built-in disposable set.
func WithDisposableDomains(domains []string) Option {
	return func(c *Checker) {
		for _, d := range domains {
			c.disposable[strings.ToLower(d)] = struct{}{}
		}
	}
}

// New creates a Checker with the default validator set and system resolver.
func New(opts ...Option) *Checker {
	c := &Checker{
		opts:       DefaultOptions(),
		resolver:   net.DefaultResolver,
		disposable: make(map[string]struct{}, len(disposableDomains)),
	}
	for _, d := range disposableDomains {
		c.disposable[d] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs the enabled validators in order and stops at the first failure.
// The returned Validators map carries one diagnostics entry per validator
// that ran; skipped validators are omitted.
func (c *Checker) Check(ctx context.Context, email string) (*ports.DeliverabilityResult, error) {
	result := &ports.DeliverabilityResult{
		Valid:      true,
		Validators: make(map[string]any),
	}

	fail := func(validator, reason string) *ports.DeliverabilityResult {
		result.Valid = false
		result.Reason = validator
		result.Validators[validator] = map[string]any{"valid": false, "reason": reason}
		return result
	}
	pass := func(validator string) {
		result.Validators[validator] = map[string]any{"valid": true}
	}

	if c.opts.ValidateSyntax {
		if !Syntax(email) {
			return fail(validatorRegex, "address does not match the expected format"), nil
		}
		pass(validatorRegex)
	}

	domain := domainOf(email)
	if domain == "" {
		return fail(validatorRegex, "address has no domain part"), nil
	}

	if c.opts.ValidateDisposable {
		if _, ok := c.disposable[domain]; ok {
			return fail(validatorDisposable, "domain is a known disposable provider"), nil
		}
		pass(validatorDisposable)
	}

	if c.opts.ValidateMX {
		records, err := c.resolver.LookupMX(ctx, domain)
		if err != nil || len(records) == 0 {
			return fail(validatorMX, "no mail exchanger records found for domain"), nil
		}
		hosts := make([]string, 0, len(records))
		for _, mx := range records {
			hosts = append(hosts, mx.Host)
		}
		result.Validators[validatorMX] = map[string]any{"valid": true, "records": hosts}
	}

	return result, nil
}

func domainOf(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

var _ ports.DeliverabilityOracle = (*Checker)(nil)
