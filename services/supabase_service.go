package services

import (
	"context"
	"fmt"
	"time"

	"tingles_server/models"
)

// How long LoadProfiles results may be served from memory. Writes
// invalidate the cache immediately, so the window only delays visibility
// of other writers.
const profileCacheTTL = 60 * time.Second

// SupabaseService implements Store against three fixed snake_case tables
// (profiles, credentials, suggestions). All filtering happens store-side;
// there is no client-side row scanning.
type SupabaseService struct {
	rest         RestAPI
	cache        *profileCache
	founderEmail string
}

func NewSupabaseService(rest RestAPI, founderEmail string) *SupabaseService {
	return &SupabaseService{
		rest:         rest,
		cache:        newProfileCache(profileCacheTTL),
		founderEmail: models.NormalizeEmail(founderEmail),
	}
}

// ============ PROFILE OPERATIONS ============

func (s *SupabaseService) LoadProfiles(ctx context.Context, forceRefresh bool) ([]models.Record, error) {
	if !forceRefresh {
		if records, ok := s.cache.get(); ok {
			return records, nil
		}
	}
	rows, err := s.rest.Select(ctx, models.ProfilesTable, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: load profiles: %v", ErrBackendUnavailable, err)
	}
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromDBRow(row))
	}
	s.cache.set(records)
	return records, nil
}

func (s *SupabaseService) GetProfileByEmail(ctx context.Context, email string, forceRefresh bool) (models.Record, error) {
	rows, err := s.rest.Select(ctx, models.ProfilesTable, map[string]string{
		"email": models.NormalizeEmail(email),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get profile: %v", ErrBackendUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return FromDBRow(rows[0]), nil
}

func (s *SupabaseService) AddProfile(ctx context.Context, profile models.Record) error {
	row := ToDBRecord(profile)
	// id is assigned by the database.
	delete(row, "id")
	if err := s.rest.Insert(ctx, models.ProfilesTable, row); err != nil {
		return fmt.Errorf("%w: add profile: %v", ErrWriteFailed, err)
	}
	s.cache.invalidate()
	return nil
}

func (s *SupabaseService) UpdateProfileByEmail(ctx context.Context, email string, updates models.Record) error {
	changes := ToDBRecord(updates)
	delete(changes, "id")
	matched, err := s.rest.Update(ctx, models.ProfilesTable, map[string]string{
		"email": models.NormalizeEmail(email),
	}, changes)
	if err != nil {
		return fmt.Errorf("%w: update profile: %v", ErrWriteFailed, err)
	}
	s.cache.invalidate()
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// ============ CREDENTIAL OPERATIONS ============

func (s *SupabaseService) LoadCredentials(ctx context.Context) ([]models.Credential, error) {
	rows, err := s.rest.Select(ctx, models.CredentialsTable, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: load credentials: %v", ErrBackendUnavailable, err)
	}
	creds := make([]models.Credential, 0, len(rows))
	for _, row := range rows {
		creds = append(creds, credentialFromRow(row))
	}
	return creds, nil
}

func (s *SupabaseService) AddCredential(ctx context.Context, email, password, role string) error {
	want := models.NormalizeEmail(email)
	existing, err := s.rest.Select(ctx, models.CredentialsTable, map[string]string{"email": want})
	if err != nil {
		return fmt.Errorf("%w: check credential: %v", ErrBackendUnavailable, err)
	}
	if len(existing) > 0 {
		return ErrAlreadyExists
	}
	row := map[string]interface{}{
		"email":         want,
		"password":      password,
		"role":          role,
		"auth_provider": models.ProviderEmail,
	}
	if err := s.rest.Insert(ctx, models.CredentialsTable, row); err != nil {
		return fmt.Errorf("%w: add credential: %v", ErrWriteFailed, err)
	}
	return nil
}

func (s *SupabaseService) AuthenticateUser(ctx context.Context, email, password string) (string, error) {
	want := models.NormalizeEmail(email)
	rows, err := s.rest.Select(ctx, models.CredentialsTable, map[string]string{"email": want})
	if err != nil {
		return "", fmt.Errorf("%w: load credential: %v", ErrBackendUnavailable, err)
	}
	if len(rows) == 0 {
		return "", ErrNotFound
	}
	cred := credentialFromRow(rows[0])
	if cred.AuthProvider != "" && cred.AuthProvider != models.ProviderEmail {
		return "", ErrOAuthOnly
	}
	if !passwordMatches(cred.Password, password) {
		return "", ErrWrongPassword
	}
	return resolveRole(s.founderEmail, want, cred.Role), nil
}

func (s *SupabaseService) GetOrCreateOAuthUser(ctx context.Context, email, name, provider, oauthID string) (string, error) {
	want := models.NormalizeEmail(email)
	rows, err := s.rest.Select(ctx, models.CredentialsTable, map[string]string{"email": want})
	if err != nil {
		return "", fmt.Errorf("%w: load credential: %v", ErrBackendUnavailable, err)
	}

	if len(rows) > 0 {
		cred := credentialFromRow(rows[0])
		switch {
		case cred.AuthProvider == provider:
			return resolveRole(s.founderEmail, want, cred.Role), nil
		case cred.AuthProvider == "" || cred.AuthProvider == models.ProviderEmail:
			// Upgrade the email/password account in place; the stored
			// password stays so the original login keeps working.
			_, err := s.rest.Update(ctx, models.CredentialsTable, map[string]string{"email": want}, map[string]interface{}{
				"auth_provider": provider,
				"oauth_id":      oauthID,
			})
			if err != nil {
				return "", fmt.Errorf("%w: link oauth provider: %v", ErrWriteFailed, err)
			}
			return resolveRole(s.founderEmail, want, cred.Role), nil
		default:
			return "", ErrProviderConflict
		}
	}

	cred := map[string]interface{}{
		"email":         want,
		"password":      nil,
		"role":          models.RoleUser,
		"auth_provider": provider,
		"oauth_id":      oauthID,
	}
	if err := s.rest.Insert(ctx, models.CredentialsTable, cred); err != nil {
		return "", fmt.Errorf("%w: create oauth credential: %v", ErrWriteFailed, err)
	}

	// Only create the stub profile when none exists yet; a second OAuth
	// sign-in must not produce a duplicate.
	existing, err := s.rest.Select(ctx, models.ProfilesTable, map[string]string{"email": want})
	if err != nil {
		return "", fmt.Errorf("%w: check profile: %v", ErrBackendUnavailable, err)
	}
	if len(existing) == 0 {
		stub := map[string]interface{}{
			"email":  want,
			"name":   name,
			"status": models.StatusSingle,
		}
		if err := s.rest.Insert(ctx, models.ProfilesTable, stub); err != nil {
			return "", fmt.Errorf("%w: create stub profile: %v", ErrWriteFailed, err)
		}
		s.cache.invalidate()
	}
	return resolveRole(s.founderEmail, want, models.RoleUser), nil
}

// ============ SUGGESTION OPERATIONS ============

func (s *SupabaseService) LoadSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	rows, err := s.rest.Select(ctx, models.SuggestionsTable, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: load suggestions: %v", ErrBackendUnavailable, err)
	}
	suggestions := make([]models.Suggestion, 0, len(rows))
	for _, row := range rows {
		suggestions = append(suggestions, suggestionFromRow(row))
	}
	return suggestions, nil
}

func (s *SupabaseService) GetSuggestionsForUser(ctx context.Context, email string) ([]models.Record, error) {
	want := models.NormalizeEmail(email)
	rows, err := s.rest.Select(ctx, models.SuggestionsTable, map[string]string{"suggested_to_email": want})
	if err != nil {
		return nil, fmt.Errorf("%w: load suggestions: %v", ErrBackendUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	statusByEmail := make(map[string]string, len(rows))
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		sug := suggestionFromRow(row)
		candidate := models.NormalizeEmail(sug.ProfileOfEmail)
		if candidate == "" {
			continue
		}
		statusByEmail[candidate] = sug.Status
		emails = append(emails, candidate)
	}

	profileRows, err := s.rest.SelectIn(ctx, models.ProfilesTable, "email", emails)
	if err != nil {
		return nil, fmt.Errorf("%w: load suggested profiles: %v", ErrBackendUnavailable, err)
	}

	out := make([]models.Record, 0, len(profileRows))
	for _, row := range profileRows {
		rec := FromDBRow(row)
		rec[models.SuggestionStatusKey] = statusByEmail[rec.Email()]
		out = append(out, rec)
	}
	return out, nil
}

func (s *SupabaseService) AddSuggestion(ctx context.Context, toEmail, ofEmail, status string) error {
	if status == "" {
		status = models.SuggestionPending
	}
	row := map[string]interface{}{
		"suggested_to_email": models.NormalizeEmail(toEmail),
		"profile_of_email":   models.NormalizeEmail(ofEmail),
		"status":             status,
	}
	if err := s.rest.Insert(ctx, models.SuggestionsTable, row); err != nil {
		return fmt.Errorf("%w: add suggestion: %v", ErrWriteFailed, err)
	}
	return nil
}

func (s *SupabaseService) UpdateSuggestionStatus(ctx context.Context, toEmail, ofEmail, newStatus string) error {
	matched, err := s.rest.Update(ctx, models.SuggestionsTable, map[string]string{
		"suggested_to_email": models.NormalizeEmail(toEmail),
		"profile_of_email":   models.NormalizeEmail(ofEmail),
	}, map[string]interface{}{"status": newStatus})
	if err != nil {
		return fmt.Errorf("%w: update suggestion: %v", ErrWriteFailed, err)
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseService) SuggestionExists(ctx context.Context, toEmail, ofEmail string) (bool, error) {
	rows, err := s.rest.Select(ctx, models.SuggestionsTable, map[string]string{
		"suggested_to_email": models.NormalizeEmail(toEmail),
		"profile_of_email":   models.NormalizeEmail(ofEmail),
	})
	if err != nil {
		return false, fmt.Errorf("%w: check suggestion: %v", ErrBackendUnavailable, err)
	}
	return len(rows) > 0, nil
}

// ============ HELPERS ============

func credentialFromRow(row map[string]interface{}) models.Credential {
	return models.Credential{
		Email:        flattenValue(row["email"]),
		Password:     flattenValue(row["password"]),
		Role:         flattenValue(row["role"]),
		AuthProvider: flattenValue(row["auth_provider"]),
		OAuthID:      flattenValue(row["oauth_id"]),
	}
}

func suggestionFromRow(row map[string]interface{}) models.Suggestion {
	return models.Suggestion{
		SuggestedToEmail: flattenValue(row["suggested_to_email"]),
		ProfileOfEmail:   flattenValue(row["profile_of_email"]),
		Status:           flattenValue(row["status"]),
	}
}
