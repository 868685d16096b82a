package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"tingles_server/config"
)

var (
	storeMu       sync.Mutex
	storeInstance Store
)

// ActiveStore returns the process-wide storage adapter, constructing it on
// first use from the backend selector ("gsheets" default, "supabase"). The
// instance is memoized for the process lifetime; a changed configuration
// takes effect only after ResetStore, which exists for test isolation.
func ActiveStore(ctx context.Context, cfg config.AppConfig) (Store, error) {
	storeMu.Lock()
	defer storeMu.Unlock()

	if storeInstance != nil {
		return storeInstance, nil
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.DBBackend))
	switch backend {
	case "supabase":
		rest, err := NewPostgrestAPI(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, err
		}
		storeInstance = NewSupabaseService(rest, cfg.FounderEmail)
	case "", "gsheets":
		api, err := NewGoogleSheetAPI(ctx, cfg.GoogleCredsFile, cfg.SpreadsheetID)
		if err != nil {
			return nil, err
		}
		sheets, err := NewSheetsService(ctx, api, cfg.FounderEmail)
		if err != nil {
			return nil, err
		}
		storeInstance = sheets
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, cfg.DBBackend)
	}

	log.Printf("Storage backend initialized: %s", backendName(backend))
	return storeInstance, nil
}

// SetStore installs a prebuilt adapter as the process singleton. Tests use
// it to run callers against a fake store.
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = s
}

// ResetStore drops the memoized adapter so the next ActiveStore call
// constructs a fresh one.
func ResetStore() {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = nil
}

func backendName(selector string) string {
	if selector == "supabase" {
		return "supabase"
	}
	return "gsheets"
}
