package models

// User roles
const (
	RoleUser    = "user"
	RoleFounder = "founder"
)

// Auth providers
const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
)

// Suggestion statuses. The progression is open-ended; the storage layer
// never validates against this list.
const (
	SuggestionPending = "Pending"
	SuggestionLiked   = "Liked"
	SuggestionMatch   = "Match"
	SuggestionDate    = "Date"
	SuggestionMarried = "Married"
)

// Default profile status for accounts created through OAuth sign-in.
const StatusSingle = "Single"

// Backing-store table / worksheet names.
const (
	ProfilesTable    = "profiles"
	CredentialsTable = "credentials"
	SuggestionsTable = "suggestions"

	// The suggestions worksheet historically carries a capitalized title.
	SuggestionsSheet = "Suggestions"
)

// SuggestionStatusKey is the extra field attached to profile records
// returned by GetSuggestionsForUser.
const SuggestionStatusKey = "SuggestionStatus"
