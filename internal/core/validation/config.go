// Package validation provides structural validation of deploy configurations.
// All functions are pure (no I/O) and never fail with an error: structural
// problems are collected and returned as data so tooling can report every
// issue at once.
package validation

import (
	"fmt"
	"sort"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

// =============================================================================
// Validation Result
// =============================================================================

// Result is the outcome of validating a deploy configuration.
// Errors make the configuration unusable; warnings do not.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// =============================================================================
// Config Validation
// =============================================================================

// ValidateConfig checks a deploy configuration for structural problems.
//
// All violations are collected; validation never stops at the first problem.
// Unknown environment tier names are reported as warnings rather than
// errors, since extra tiers are non-fatal to deployment.
func ValidateConfig(cfg *domain.Config) Result {
	if cfg == nil {
		return Result{
			Valid:  false,
			Errors: []string{"Configuration cannot be empty"},
		}
	}

	var errs []string
	var warnings []string

	entries := domain.FlattenDomainEntries(cfg.Domains)
	if len(entries) == 0 {
		errs = append(errs, "At least one domain must be specified")
	}

	for _, entry := range entries {
		if _, ok := entry.Value.(string); !ok {
			errs = append(errs, fmt.Sprintf("%s must be a string", entry.Source))
		}
	}

	warnings = append(warnings, unknownTierWarnings(cfg.Environments)...)

	return Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// unknownTierWarnings reports environment keys outside the recognized tiers,
// in sorted order so output is deterministic.
func unknownTierWarnings(environments map[string]any) []string {
	var unknown []string
	for name := range environments {
		if !domain.Tier(name).Known() {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)

	warnings := make([]string, 0, len(unknown))
	for _, name := range unknown {
		warnings = append(warnings, fmt.Sprintf("unknown environment tier: %s", name))
	}
	return warnings
}
