package models

// Suggestion is a directed recommendation of one profile to one user,
// identified by the (SuggestedToEmail, ProfileOfEmail) pair.
type Suggestion struct {
	SuggestedToEmail string `json:"suggested_to_email"`
	ProfileOfEmail   string `json:"profile_of_email"`
	Status           string `json:"status"`
}
