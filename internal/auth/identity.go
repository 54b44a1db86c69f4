package auth

// Identity is a normalized external authentication identity returned by
// an OIDC provider. It carries facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google"
	ProviderUserID string // provider-scoped subject identifier
	Email          string
	EmailVerified  bool
}
