package domain

import (
	"fmt"
	"sort"
)

// =============================================================================
// Deploy Configuration
// =============================================================================

// Config is a parsed deploy configuration. The domains section is kept in
// its raw decoded form because two shapes are accepted: a flat list of
// domain identifiers, or a mapping from tier name to a list per tier.
// Structural problems are reported by the validator, never at this level.
type Config struct {
	// Domains is the raw "domains" value: []any of identifiers, or
	// map[string]any keyed by tier name.
	Domains any

	// Environments holds per-tier settings keyed by tier name. Only the key
	// set is validated; the settings themselves are opaque to the core.
	Environments map[string]any

	// Overrides holds per-domain override blocks: every top-level mapping
	// keyed by a domain identifier (endpoints, account metadata, failover
	// field overrides).
	Overrides map[string]map[string]any
}

// DomainEntry is one raw entry from the domains section, paired with the
// position it was declared at for error reporting.
type DomainEntry struct {
	Source string
	Value  any
}

// FlattenDomainEntries flattens the raw domains value into an ordered list
// of entries. The flat-list shape keeps declaration order; the tier-mapped
// shape is walked in sorted tier order so the result is deterministic.
// Entries from every tier are included: declaring a domain under any tier
// makes it known, and tier-specific policy is applied at routing time, not
// at detection time.
func FlattenDomainEntries(domains any) []DomainEntry {
	switch v := domains.(type) {
	case []any:
		entries := make([]DomainEntry, 0, len(v))
		for i, item := range v {
			entries = append(entries, DomainEntry{
				Source: fmt.Sprintf("domains[%d]", i),
				Value:  item,
			})
		}
		return entries

	case []string:
		entries := make([]DomainEntry, 0, len(v))
		for i, item := range v {
			entries = append(entries, DomainEntry{
				Source: fmt.Sprintf("domains[%d]", i),
				Value:  item,
			})
		}
		return entries

	case map[string]any:
		tiers := make([]string, 0, len(v))
		for tier := range v {
			tiers = append(tiers, tier)
		}
		sort.Strings(tiers)

		var entries []DomainEntry
		for _, tier := range tiers {
			var list []any
			switch tierVal := v[tier].(type) {
			case []any:
				list = tierVal
			case []string:
				list = make([]any, len(tierVal))
				for i, s := range tierVal {
					list[i] = s
				}
			default:
				continue
			}
			for i, item := range list {
				entries = append(entries, DomainEntry{
					Source: fmt.Sprintf("domains.%s[%d]", tier, i),
					Value:  item,
				})
			}
		}
		return entries

	default:
		return nil
	}
}
