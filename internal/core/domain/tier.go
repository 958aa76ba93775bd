package domain

// =============================================================================
// Environment Tiers
// =============================================================================

// Tier identifies an environment tier. A tier selects the default routing
// parameters applied to a domain when no explicit policy is present.
type Tier string

const (
	TierProduction  Tier = "production"
	TierStaging     Tier = "staging"
	TierDevelopment Tier = "development"
)

// Tiers lists all recognized environment tiers.
var Tiers = []Tier{TierProduction, TierStaging, TierDevelopment}

// Known reports whether the tier is one of the recognized environment tiers.
func (t Tier) Known() bool {
	switch t {
	case TierProduction, TierStaging, TierDevelopment:
		return true
	default:
		return false
	}
}
