package services

import (
	"context"
	"errors"

	"tingles_server/models"
)

// Storage failure taxonomy. Adapters translate every backing-store error to
// one of these at the operation boundary; raw client errors never escape.
var (
	// ErrBackendUnavailable means the backing store could not be reached or
	// initialized (missing credentials, network failure).
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound means no record matched the lookup key.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists means a uniqueness constraint was violated on create.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrWrongPassword means the credential exists but the password did not match.
	ErrWrongPassword = errors.New("wrong password")

	// ErrOAuthOnly means the account has no password and must sign in
	// through its OAuth provider.
	ErrOAuthOnly = errors.New("account uses oauth login")

	// ErrWriteFailed is a mutation failure with no more specific cause.
	ErrWriteFailed = errors.New("write failed")

	// ErrProviderConflict means the email is registered under a different
	// OAuth provider.
	ErrProviderConflict = errors.New("oauth provider conflict")
)

// Store is the storage contract both backends implement. Callers hold a
// Store and never a concrete adapter; the active adapter is chosen once per
// process by ActiveStore.
//
// Reads against a reachable but empty store return empty results, not
// errors. Nothing is retried internally, and nothing is ever hard-deleted.
type Store interface {
	// LoadProfiles returns every profile record. forceRefresh bypasses any
	// adapter-side cache.
	LoadProfiles(ctx context.Context, forceRefresh bool) ([]models.Record, error)

	// GetProfileByEmail looks up one profile by case-insensitive, trimmed
	// email and returns it with display-key field names.
	GetProfileByEmail(ctx context.Context, email string, forceRefresh bool) (models.Record, error)

	// AddProfile appends a new profile. Keys may arrive in either naming
	// convention; the adapter translates. A server-side identity is
	// assigned when the record carries none.
	AddProfile(ctx context.Context, profile models.Record) error

	// UpdateProfileByEmail updates only the supplied fields of the matching
	// record, leaving the rest untouched.
	UpdateProfileByEmail(ctx context.Context, email string, updates models.Record) error

	LoadCredentials(ctx context.Context) ([]models.Credential, error)

	// AddCredential creates a login identity. Fails with ErrAlreadyExists
	// when the normalized email already has one.
	AddCredential(ctx context.Context, email, password, role string) error

	// AuthenticateUser checks an email/password pair and returns the
	// resolved role. The configured founder email always resolves to the
	// founder role, whatever the stored value says.
	AuthenticateUser(ctx context.Context, email, password string) (string, error)

	// GetOrCreateOAuthUser is idempotent: an existing credential under the
	// same provider signs in, an email/password credential is upgraded in
	// place, a missing one is created along with a stub profile. A
	// credential under a different OAuth provider fails with
	// ErrProviderConflict.
	GetOrCreateOAuthUser(ctx context.Context, email, name, provider, oauthID string) (string, error)

	LoadSuggestions(ctx context.Context) ([]models.Suggestion, error)

	// GetSuggestionsForUser joins the user's suggestions against the
	// suggested profiles. Each returned record carries a SuggestionStatus
	// field; candidates with no matching profile are dropped.
	GetSuggestionsForUser(ctx context.Context, email string) ([]models.Record, error)

	AddSuggestion(ctx context.Context, toEmail, ofEmail, status string) error

	UpdateSuggestionStatus(ctx context.Context, toEmail, ofEmail, newStatus string) error

	// SuggestionExists reports whether a suggestion already exists for the
	// pair. Uniqueness is advisory: callers check before AddSuggestion, the
	// store does not enforce it.
	SuggestionExists(ctx context.Context, toEmail, ofEmail string) (bool, error)
}
