package models

// Credential is one login identity, unique per normalized email.
// Password is empty for OAuth-only accounts.
type Credential struct {
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	Role         string `json:"role"`
	AuthProvider string `json:"auth_provider,omitempty"`
	OAuthID      string `json:"oauth_id,omitempty"`
}
