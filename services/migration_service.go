package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tingles_server/models"
)

// Migrator copies every record from one storage backend to another, one
// entity at a time. Each source record either fully succeeds or counts as
// one failure; individual failures never abort the run.
type Migrator struct {
	Source Store
	Target Store
}

// MigrationSummary is the per-entity outcome of a run.
type MigrationSummary struct {
	Profiles    EntityCount
	Credentials EntityCount
	Suggestions EntityCount
}

type EntityCount struct {
	Succeeded int
	Failed    int
}

// Failed reports whether any record in the run failed.
func (s MigrationSummary) Failed() bool {
	return s.Profiles.Failed > 0 || s.Credentials.Failed > 0 || s.Suggestions.Failed > 0
}

// Run migrates profiles, credentials and suggestions in that order and
// returns the combined summary. A source read failure for one entity stops
// that entity only.
func (m *Migrator) Run(ctx context.Context) (MigrationSummary, error) {
	var summary MigrationSummary
	var err error

	if summary.Profiles, err = m.MigrateProfiles(ctx); err != nil {
		return summary, err
	}
	if summary.Credentials, err = m.MigrateCredentials(ctx); err != nil {
		return summary, err
	}
	if summary.Suggestions, err = m.MigrateSuggestions(ctx); err != nil {
		return summary, err
	}
	return summary, nil
}

func (m *Migrator) MigrateProfiles(ctx context.Context) (EntityCount, error) {
	var count EntityCount

	profiles, err := m.Source.LoadProfiles(ctx, true)
	if err != nil {
		return count, fmt.Errorf("read source profiles: %w", err)
	}
	log.Printf("Migrating %d profiles...", len(profiles))

	for _, rec := range profiles {
		email := rec.Email()
		if !validEmail(email) {
			count.Failed++
			log.Printf("  FAIL profile %q: missing or malformed email", rec.Field("Email"))
			continue
		}
		if err := m.Target.AddProfile(ctx, rec); err != nil {
			count.Failed++
			log.Printf("  FAIL profile %s: %v", email, err)
			continue
		}
		count.Succeeded++
		log.Printf("  OK   profile %s", email)
	}
	log.Printf("Profiles: %d succeeded, %d failed", count.Succeeded, count.Failed)
	return count, nil
}

func (m *Migrator) MigrateCredentials(ctx context.Context) (EntityCount, error) {
	var count EntityCount

	creds, err := m.Source.LoadCredentials(ctx)
	if err != nil {
		return count, fmt.Errorf("read source credentials: %w", err)
	}
	log.Printf("Migrating %d credentials...", len(creds))

	for _, cred := range creds {
		email := models.NormalizeEmail(cred.Email)
		if !validEmail(email) {
			count.Failed++
			log.Printf("  FAIL credential %q: missing or malformed email", cred.Email)
			continue
		}
		err := m.Target.AddCredential(ctx, email, cred.Password, cred.Role)
		if errors.Is(err, ErrAlreadyExists) {
			// Re-runs are expected; an already-migrated credential
			// is a success, not a failure.
			count.Succeeded++
			log.Printf("  SKIP credential %s: already present", email)
			continue
		}
		if err != nil {
			count.Failed++
			log.Printf("  FAIL credential %s: %v", email, err)
			continue
		}
		count.Succeeded++
		log.Printf("  OK   credential %s", email)
	}
	log.Printf("Credentials: %d succeeded, %d failed", count.Succeeded, count.Failed)
	return count, nil
}

func (m *Migrator) MigrateSuggestions(ctx context.Context) (EntityCount, error) {
	var count EntityCount

	suggestions, err := m.Source.LoadSuggestions(ctx)
	if err != nil {
		return count, fmt.Errorf("read source suggestions: %w", err)
	}
	log.Printf("Migrating %d suggestions...", len(suggestions))

	for _, sug := range suggestions {
		if !validEmail(models.NormalizeEmail(sug.SuggestedToEmail)) || !validEmail(models.NormalizeEmail(sug.ProfileOfEmail)) {
			count.Failed++
			log.Printf("  FAIL suggestion %q -> %q: malformed email", sug.SuggestedToEmail, sug.ProfileOfEmail)
			continue
		}
		exists, err := m.Target.SuggestionExists(ctx, sug.SuggestedToEmail, sug.ProfileOfEmail)
		if err != nil {
			count.Failed++
			log.Printf("  FAIL suggestion %s -> %s: %v", sug.SuggestedToEmail, sug.ProfileOfEmail, err)
			continue
		}
		if exists {
			count.Succeeded++
			log.Printf("  SKIP suggestion %s -> %s: already present", sug.SuggestedToEmail, sug.ProfileOfEmail)
			continue
		}
		if err := m.Target.AddSuggestion(ctx, sug.SuggestedToEmail, sug.ProfileOfEmail, sug.Status); err != nil {
			count.Failed++
			log.Printf("  FAIL suggestion %s -> %s: %v", sug.SuggestedToEmail, sug.ProfileOfEmail, err)
			continue
		}
		count.Succeeded++
		log.Printf("  OK   suggestion %s -> %s", sug.SuggestedToEmail, sug.ProfileOfEmail)
	}
	log.Printf("Suggestions: %d succeeded, %d failed", count.Succeeded, count.Failed)
	return count, nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.Contains(email[at+1:], "@")
}
