// Package registry tracks the set of deployable domains: it loads the deploy
// configuration, detects and normalizes domain identifiers, and owns the
// memoized per-domain failover strategies.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNoDomains is returned when an operation needs at least one detected
	// domain and none exist.
	ErrNoDomains = errors.New("no domains detected")
)

// UnknownDomainsError is returned when a plan or selection references domain
// identifiers outside the registry's detected set. Every offending
// identifier is named; the call fails as a whole and never produces a
// partial result.
type UnknownDomainsError struct {
	Domains []string
}

func (e *UnknownDomainsError) Error() string {
	return fmt.Sprintf("invalid domains: %s", strings.Join(e.Domains, ", "))
}

// LoadError wraps a failure to read or parse a deploy configuration file.
// A missing file is not a LoadError: absence is non-fatal and reported as a
// nil configuration instead.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load config %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
