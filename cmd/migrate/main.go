// Command migrate copies all profiles, credentials and suggestions from the
// Google Sheets backend to the Supabase backend. It is meant to run once,
// with both backends configured in the environment.
//
// Each source record either fully succeeds or is reported as one failure;
// the run never aborts on an individual record. The exit status is non-zero
// when any record failed.
package main

import (
	"context"
	"log"
	"os"

	"tingles_server/config"
	"tingles_server/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sheetAPI, err := services.NewGoogleSheetAPI(ctx, cfg.GoogleCredsFile, cfg.SpreadsheetID)
	if err != nil {
		log.Fatalf("Google Sheets not available: %v", err)
	}
	source, err := services.NewSheetsService(ctx, sheetAPI, cfg.FounderEmail)
	if err != nil {
		log.Fatalf("Google Sheets not available: %v", err)
	}

	rest, err := services.NewPostgrestAPI(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.Fatalf("Supabase not available: %v", err)
	}
	target := services.NewSupabaseService(rest, cfg.FounderEmail)

	migrator := &services.Migrator{Source: source, Target: target}
	summary, err := migrator.Run(ctx)
	if err != nil {
		log.Fatalf("Migration aborted: %v", err)
	}

	log.Printf("Migration complete: profiles %d/%d, credentials %d/%d, suggestions %d/%d (succeeded/failed)",
		summary.Profiles.Succeeded, summary.Profiles.Failed,
		summary.Credentials.Succeeded, summary.Credentials.Failed,
		summary.Suggestions.Succeeded, summary.Suggestions.Failed,
	)
	if summary.Failed() {
		os.Exit(1)
	}
}
