package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"tingles_server/models"
)

// Worksheet headers used when a sheet has to be created from scratch.
var (
	credentialsHeader = []string{"email", "password", "role", "auth_provider", "oauth_id"}
	suggestionsHeader = []string{"Suggested_To_Email", "Profile_Of_Email", "Status"}
)

// SheetsService implements Store against a spreadsheet whose header row is
// the schema. It tolerates renamed, duplicated and missing columns through
// the alias table, at the cost of O(rows) lookups: there is no index, every
// lookup is a linear scan of a key column.
type SheetsService struct {
	api          SheetAPI
	founderEmail string
}

// NewSheetsService wires the adapter and runs the idempotent worksheet
// ensure-exists step once, here, instead of on every read.
func NewSheetsService(ctx context.Context, api SheetAPI, founderEmail string) (*SheetsService, error) {
	s := &SheetsService{api: api, founderEmail: models.NormalizeEmail(founderEmail)}

	if err := api.EnsureSheet(ctx, models.ProfilesTable, DisplayColumns); err != nil {
		return nil, fmt.Errorf("%w: ensure profiles sheet: %v", ErrBackendUnavailable, err)
	}
	if err := api.EnsureSheet(ctx, models.CredentialsTable, credentialsHeader); err != nil {
		return nil, fmt.Errorf("%w: ensure credentials sheet: %v", ErrBackendUnavailable, err)
	}
	if err := api.EnsureSheet(ctx, models.SuggestionsSheet, suggestionsHeader); err != nil {
		return nil, fmt.Errorf("%w: ensure suggestions sheet: %v", ErrBackendUnavailable, err)
	}
	return s, nil
}

// ============ PROFILE OPERATIONS ============

// LoadProfiles re-reads the sheet on every call; there is no cache to
// bypass, so forceRefresh is trivially honored.
func (s *SheetsService) LoadProfiles(ctx context.Context, forceRefresh bool) ([]models.Record, error) {
	_, records, err := s.profileRows(ctx)
	return records, err
}

func (s *SheetsService) GetProfileByEmail(ctx context.Context, email string, forceRefresh bool) (models.Record, error) {
	records, err := s.LoadProfiles(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	want := models.NormalizeEmail(email)
	for _, rec := range records {
		if rec.Email() == want {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func (s *SheetsService) AddProfile(ctx context.Context, profile models.Record) error {
	header, records, err := s.profileRows(ctx)
	if err != nil {
		return err
	}

	rec := profile.Clone()
	if ValueForColumn("ID", rec) == "" {
		rec["ID"] = strconv.Itoa(nextProfileID(records))
	}

	values := make([]string, len(header))
	for i, col := range header {
		values[i] = ValueForColumn(col, rec)
	}
	if err := s.api.AppendRow(ctx, models.ProfilesTable, values); err != nil {
		return fmt.Errorf("%w: append profile: %v", ErrWriteFailed, err)
	}
	return nil
}

// UpdateProfileByEmail issues one cell write per changed field. The batch is
// best-effort, not transactional: a failure partway leaves the record
// half-updated, which the low-traffic consistency model accepts.
func (s *SheetsService) UpdateProfileByEmail(ctx context.Context, email string, updates models.Record) error {
	rows, err := s.api.Rows(ctx, models.ProfilesTable)
	if err != nil {
		return fmt.Errorf("%w: read profiles: %v", ErrBackendUnavailable, err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	header := rows[0]

	rowNumber := s.findProfileRow(header, rows, email)
	if rowNumber == 0 {
		return ErrNotFound
	}

	wrote := 0
	for key, value := range updates {
		col := columnIndex(header, key)
		if col == 0 {
			log.Printf("update %s: no column for field %q, skipping", email, key)
			continue
		}
		if err := s.api.UpdateCell(ctx, models.ProfilesTable, rowNumber, col, value); err != nil {
			return fmt.Errorf("%w: update cell %s row %d: %v", ErrWriteFailed, key, rowNumber, err)
		}
		wrote++
	}
	if wrote == 0 {
		return fmt.Errorf("%w: none of the fields matched a column", ErrWriteFailed)
	}
	return nil
}

// findProfileRow resolves a record's 1-based row number (header included) by
// scanning the Email column, falling back to ID then Name for legacy rows
// that never had an email filled in.
func (s *SheetsService) findProfileRow(header []string, rows [][]string, key string) int {
	want := models.NormalizeEmail(key)
	for _, keyCol := range []string{"Email", "ID", "Name"} {
		col := columnIndex(header, keyCol)
		if col == 0 {
			continue
		}
		for i := 1; i < len(rows); i++ {
			row := rows[i]
			if col-1 < len(row) && models.NormalizeEmail(row[col-1]) == want {
				return i + 1
			}
		}
	}
	return 0
}

// ============ CREDENTIAL OPERATIONS ============

func (s *SheetsService) LoadCredentials(ctx context.Context) ([]models.Credential, error) {
	creds, _, err := s.credentialRows(ctx)
	return creds, err
}

func (s *SheetsService) AddCredential(ctx context.Context, email, password, role string) error {
	creds, _, err := s.credentialRows(ctx)
	if err != nil {
		return err
	}
	want := models.NormalizeEmail(email)
	for _, c := range creds {
		if models.NormalizeEmail(c.Email) == want {
			return ErrAlreadyExists
		}
	}

	rows, err := s.api.Rows(ctx, models.CredentialsTable)
	if err != nil {
		return fmt.Errorf("%w: read credentials: %v", ErrBackendUnavailable, err)
	}
	header := credentialsHeader
	if len(rows) > 0 {
		header = rows[0]
	}

	values := make([]string, len(header))
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "email", "username":
			values[i] = want
		case "password":
			values[i] = password
		case "role":
			values[i] = role
		case "auth_provider":
			values[i] = models.ProviderEmail
		}
	}
	if err := s.api.AppendRow(ctx, models.CredentialsTable, values); err != nil {
		return fmt.Errorf("%w: append credential: %v", ErrWriteFailed, err)
	}
	return nil
}

func (s *SheetsService) AuthenticateUser(ctx context.Context, email, password string) (string, error) {
	creds, _, err := s.credentialRows(ctx)
	if err != nil {
		return "", err
	}
	want := models.NormalizeEmail(email)
	for _, c := range creds {
		if models.NormalizeEmail(c.Email) != want {
			continue
		}
		if c.AuthProvider != "" && c.AuthProvider != models.ProviderEmail {
			return "", ErrOAuthOnly
		}
		if !passwordMatches(c.Password, password) {
			return "", ErrWrongPassword
		}
		return resolveRole(s.founderEmail, want, c.Role), nil
	}
	return "", ErrNotFound
}

func (s *SheetsService) GetOrCreateOAuthUser(ctx context.Context, email, name, provider, oauthID string) (string, error) {
	creds, rows, err := s.credentialRows(ctx)
	if err != nil {
		return "", err
	}
	want := models.NormalizeEmail(email)

	for i, c := range creds {
		if models.NormalizeEmail(c.Email) != want {
			continue
		}
		switch {
		case c.AuthProvider == provider:
			return resolveRole(s.founderEmail, want, c.Role), nil
		case c.AuthProvider == "" || c.AuthProvider == models.ProviderEmail:
			// Upgrade an email/password account in place, keeping the
			// password so the original login still works.
			header := rows[0]
			rowNumber := i + 2
			if col := lowerColumnIndex(header, "auth_provider"); col > 0 {
				if err := s.api.UpdateCell(ctx, models.CredentialsTable, rowNumber, col, provider); err != nil {
					return "", fmt.Errorf("%w: set auth provider: %v", ErrWriteFailed, err)
				}
			}
			if col := lowerColumnIndex(header, "oauth_id"); col > 0 {
				if err := s.api.UpdateCell(ctx, models.CredentialsTable, rowNumber, col, oauthID); err != nil {
					return "", fmt.Errorf("%w: set oauth id: %v", ErrWriteFailed, err)
				}
			}
			return resolveRole(s.founderEmail, want, c.Role), nil
		default:
			return "", ErrProviderConflict
		}
	}

	// First sign-in through this provider: credential plus stub profile.
	header := credentialsHeader
	if len(rows) > 0 {
		header = rows[0]
	}
	values := make([]string, len(header))
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "email", "username":
			values[i] = want
		case "role":
			values[i] = models.RoleUser
		case "auth_provider":
			values[i] = provider
		case "oauth_id":
			values[i] = oauthID
		}
	}
	if err := s.api.AppendRow(ctx, models.CredentialsTable, values); err != nil {
		return "", fmt.Errorf("%w: append oauth credential: %v", ErrWriteFailed, err)
	}

	if _, err := s.GetProfileByEmail(ctx, want, true); err == nil {
		return resolveRole(s.founderEmail, want, models.RoleUser), nil
	}
	stub := models.Record{"Email": want, "Name": name, "Status": models.StatusSingle}
	if err := s.AddProfile(ctx, stub); err != nil {
		return "", err
	}
	return resolveRole(s.founderEmail, want, models.RoleUser), nil
}

// ============ SUGGESTION OPERATIONS ============

func (s *SheetsService) LoadSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	rows, err := s.api.Rows(ctx, models.SuggestionsSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read suggestions: %v", ErrBackendUnavailable, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	header := rows[0]
	toCol := lowerColumnIndex(header, "suggested_to_email")
	ofCol := lowerColumnIndex(header, "profile_of_email")
	statusCol := lowerColumnIndex(header, "status")

	var out []models.Suggestion
	for _, row := range rows[1:] {
		sug := models.Suggestion{
			SuggestedToEmail: cellAt(row, toCol),
			ProfileOfEmail:   cellAt(row, ofCol),
			Status:           cellAt(row, statusCol),
		}
		if sug.SuggestedToEmail == "" && sug.ProfileOfEmail == "" {
			continue
		}
		out = append(out, sug)
	}
	return out, nil
}

func (s *SheetsService) GetSuggestionsForUser(ctx context.Context, email string) ([]models.Record, error) {
	suggestions, err := s.LoadSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	want := models.NormalizeEmail(email)

	var mine []models.Suggestion
	for _, sug := range suggestions {
		if models.NormalizeEmail(sug.SuggestedToEmail) == want {
			mine = append(mine, sug)
		}
	}
	if len(mine) == 0 {
		return nil, nil
	}

	profiles, err := s.LoadProfiles(ctx, false)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]models.Record, len(profiles))
	for _, rec := range profiles {
		byEmail[rec.Email()] = rec
	}

	var out []models.Record
	for _, sug := range mine {
		rec, ok := byEmail[models.NormalizeEmail(sug.ProfileOfEmail)]
		if !ok {
			// Suggested someone who has no profile row; drop silently.
			continue
		}
		withStatus := rec.Clone()
		withStatus[models.SuggestionStatusKey] = sug.Status
		out = append(out, withStatus)
	}
	return out, nil
}

func (s *SheetsService) AddSuggestion(ctx context.Context, toEmail, ofEmail, status string) error {
	if status == "" {
		status = models.SuggestionPending
	}
	rows, err := s.api.Rows(ctx, models.SuggestionsSheet)
	if err != nil {
		return fmt.Errorf("%w: read suggestions: %v", ErrBackendUnavailable, err)
	}
	header := suggestionsHeader
	if len(rows) > 0 {
		header = rows[0]
	}
	values := make([]string, len(header))
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "suggested_to_email":
			values[i] = models.NormalizeEmail(toEmail)
		case "profile_of_email":
			values[i] = models.NormalizeEmail(ofEmail)
		case "status":
			values[i] = status
		}
	}
	if err := s.api.AppendRow(ctx, models.SuggestionsSheet, values); err != nil {
		return fmt.Errorf("%w: append suggestion: %v", ErrWriteFailed, err)
	}
	return nil
}

func (s *SheetsService) UpdateSuggestionStatus(ctx context.Context, toEmail, ofEmail, newStatus string) error {
	rows, err := s.api.Rows(ctx, models.SuggestionsSheet)
	if err != nil {
		return fmt.Errorf("%w: read suggestions: %v", ErrBackendUnavailable, err)
	}
	if len(rows) < 2 {
		return ErrNotFound
	}
	header := rows[0]
	toCol := lowerColumnIndex(header, "suggested_to_email")
	ofCol := lowerColumnIndex(header, "profile_of_email")
	statusCol := lowerColumnIndex(header, "status")
	if statusCol == 0 {
		return fmt.Errorf("%w: suggestions sheet has no status column", ErrWriteFailed)
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if models.NormalizeEmail(cellAt(row, toCol)) == models.NormalizeEmail(toEmail) &&
			models.NormalizeEmail(cellAt(row, ofCol)) == models.NormalizeEmail(ofEmail) {
			if err := s.api.UpdateCell(ctx, models.SuggestionsSheet, i+1, statusCol, newStatus); err != nil {
				return fmt.Errorf("%w: update suggestion status: %v", ErrWriteFailed, err)
			}
			return nil
		}
	}
	return ErrNotFound
}

func (s *SheetsService) SuggestionExists(ctx context.Context, toEmail, ofEmail string) (bool, error) {
	suggestions, err := s.LoadSuggestions(ctx)
	if err != nil {
		return false, err
	}
	for _, sug := range suggestions {
		if models.NormalizeEmail(sug.SuggestedToEmail) == models.NormalizeEmail(toEmail) &&
			models.NormalizeEmail(sug.ProfileOfEmail) == models.NormalizeEmail(ofEmail) {
			return true, nil
		}
	}
	return false, nil
}

// ============ HELPERS ============

func (s *SheetsService) profileRows(ctx context.Context) ([]string, []models.Record, error) {
	rows, err := s.api.Rows(ctx, models.ProfilesTable)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read profiles: %v", ErrBackendUnavailable, err)
	}
	if len(rows) == 0 {
		return DisplayColumns, nil, nil
	}
	header := rows[0]
	var records []models.Record
	for _, row := range rows[1:] {
		rec := NormalizeRow(header, row)
		if emptyRecord(rec) {
			continue
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// credentialRows returns decoded credentials alongside the raw rows so that
// callers can address cells by position. Credential i lives at sheet row i+2.
func (s *SheetsService) credentialRows(ctx context.Context) ([]models.Credential, [][]string, error) {
	rows, err := s.api.Rows(ctx, models.CredentialsTable)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read credentials: %v", ErrBackendUnavailable, err)
	}
	if len(rows) < 2 {
		return nil, rows, nil
	}
	header := rows[0]
	emailCol := lowerColumnIndex(header, "email")
	if emailCol == 0 {
		// Legacy sheets called the column "username".
		emailCol = lowerColumnIndex(header, "username")
	}
	passwordCol := lowerColumnIndex(header, "password")
	roleCol := lowerColumnIndex(header, "role")
	providerCol := lowerColumnIndex(header, "auth_provider")
	oauthCol := lowerColumnIndex(header, "oauth_id")

	var creds []models.Credential
	for _, row := range rows[1:] {
		creds = append(creds, models.Credential{
			Email:        cellAt(row, emailCol),
			Password:     cellAt(row, passwordCol),
			Role:         cellAt(row, roleCol),
			AuthProvider: cellAt(row, providerCol),
			OAuthID:      cellAt(row, oauthCol),
		})
	}
	return creds, rows, nil
}

// columnIndex finds the 1-based column for a field name: exact header match
// first, then case-insensitive, then via the alias table. 0 means no column.
func columnIndex(header []string, key string) int {
	for i, col := range header {
		if col == key {
			return i + 1
		}
	}
	lower := strings.ToLower(strings.TrimSpace(key))
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) == lower {
			return i + 1
		}
	}
	canon := CanonicalKey(key)
	for i, col := range header {
		if CanonicalKey(col) == canon {
			return i + 1
		}
	}
	return 0
}

func lowerColumnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.ToLower(strings.TrimSpace(col)) == name {
			return i + 1
		}
	}
	return 0
}

func cellAt(row []string, col int) string {
	if col == 0 || col-1 >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func emptyRecord(rec models.Record) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

func nextProfileID(records []models.Record) int {
	max := 0
	for _, rec := range records {
		if n, err := strconv.Atoi(strings.TrimSpace(rec.Field("ID"))); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}
