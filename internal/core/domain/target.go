package domain

// =============================================================================
// Domain Targets
// =============================================================================

// Target is a deployable unit tracked by the registry: a tenant- or
// environment-specific service endpoint identified by its hostname.
type Target struct {
	ID                 string   `json:"id"`
	AccountID          string   `json:"account_id,omitempty"`
	PrimaryEndpoint    string   `json:"primary_endpoint,omitempty"`
	SecondaryEndpoints []string `json:"secondary_endpoints,omitempty"`
}
