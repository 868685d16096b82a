package services

import (
	"context"
	"errors"
	"testing"

	"tingles_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeSheetAPI is an in-memory SheetAPI: one [][]string per worksheet,
// row 1 being the header, mirroring how the real spreadsheet behaves.
type fakeSheetAPI struct {
	sheets map[string][][]string
	err    error
}

func newFakeSheetAPI() *fakeSheetAPI {
	return &fakeSheetAPI{sheets: map[string][][]string{}}
}

func (f *fakeSheetAPI) Rows(ctx context.Context, sheet string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	rows := f.sheets[sheet]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (f *fakeSheetAPI) AppendRow(ctx context.Context, sheet string, values []string) error {
	if f.err != nil {
		return f.err
	}
	f.sheets[sheet] = append(f.sheets[sheet], append([]string(nil), values...))
	return nil
}

func (f *fakeSheetAPI) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	if f.err != nil {
		return f.err
	}
	rows := f.sheets[sheet]
	if row-1 >= len(rows) {
		return errors.New("row out of range")
	}
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col-1] = value
	f.sheets[sheet] = rows
	return nil
}

func (f *fakeSheetAPI) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.sheets[sheet]; !ok {
		f.sheets[sheet] = [][]string{append([]string(nil), header...)}
	}
	return nil
}

func newTestSheetsService(t *testing.T, api *fakeSheetAPI) *SheetsService {
	t.Helper()
	svc, err := NewSheetsService(context.Background(), api, "founder@tingles.com")
	require.NoError(t, err)
	return svc
}

func TestSheetsServiceEnsuresWorksheets(t *testing.T) {
	api := newFakeSheetAPI()
	newTestSheetsService(t, api)

	require.Contains(t, api.sheets, models.ProfilesTable)
	require.Contains(t, api.sheets, models.CredentialsTable)
	require.Contains(t, api.sheets, models.SuggestionsSheet)
	assert.Equal(t, DisplayColumns, api.sheets[models.ProfilesTable][0])
	assert.Equal(t, credentialsHeader, api.sheets[models.CredentialsTable][0])
}

func TestSheetsProfileRoundTrip(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())
	ctx := context.Background()

	// Mixed-convention keys on the way in.
	err := svc.AddProfile(ctx, models.Record{
		"email":     "Asha@Example.com",
		"Name":      "Asha",
		"photo_url": "asha.jpg",
	})
	require.NoError(t, err)

	rec, err := svc.GetProfileByEmail(ctx, "asha@example.com", false)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", rec.Email())
	assert.Equal(t, "Asha", rec["Name"])
	assert.Equal(t, "asha.jpg", rec["PhotoURL"])
	assert.Equal(t, "1", rec["ID"], "first profile gets ID 1")
}

func TestSheetsProfileIDAssignment(t *testing.T) {
	api := newFakeSheetAPI()
	api.sheets[models.ProfilesTable] = [][]string{
		{"ID", "Email", "Name"},
		{"7", "a@x.com", "A"},
		{"3", "b@x.com", "B"},
	}
	svc := newTestSheetsService(t, api)
	ctx := context.Background()

	require.NoError(t, svc.AddProfile(ctx, models.Record{"Email": "c@x.com", "Name": "C"}))

	rec, err := svc.GetProfileByEmail(ctx, "c@x.com", false)
	require.NoError(t, err)
	assert.Equal(t, "8", rec["ID"], "assigned ID is max existing plus one")
}

func TestSheetsGetProfileNotFound(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())

	_, err := svc.GetProfileByEmail(context.Background(), "nobody@x.com", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSheetsLoadProfilesMergesDriftedColumns(t *testing.T) {
	api := newFakeSheetAPI()
	api.sheets[models.ProfilesTable] = [][]string{
		{"Email", "photo_url", "imageurl"},
		{"a@x.com", "", "x.jpg"},
		{"b@x.com", "y.jpg", "x.jpg"},
		{"", "", ""},
	}
	svc := newTestSheetsService(t, api)

	records, err := svc.LoadProfiles(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, records, 2, "all-empty rows are dropped")
	assert.Equal(t, "x.jpg", records[0]["PhotoURL"])
	assert.Equal(t, "y.jpg", records[1]["PhotoURL"], "first non-empty column wins")
}

func TestSheetsUpdateProfileLeavesOtherFieldsAlone(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())
	ctx := context.Background()

	require.NoError(t, svc.AddProfile(ctx, models.Record{
		"Email":      "asha@x.com",
		"Bio":        "old bio",
		"Profession": "Engineer",
	}))
	require.NoError(t, svc.UpdateProfileByEmail(ctx, "asha@x.com", models.Record{"Bio": "new bio"}))

	rec, err := svc.GetProfileByEmail(ctx, "asha@x.com", false)
	require.NoError(t, err)
	assert.Equal(t, "new bio", rec["Bio"])
	assert.Equal(t, "Engineer", rec["Profession"])
	assert.Equal(t, "asha@x.com", rec.Email())
}

func TestSheetsUpdateProfileFallsBackToNameLookup(t *testing.T) {
	api := newFakeSheetAPI()
	api.sheets[models.ProfilesTable] = [][]string{
		{"ID", "Email", "Name", "Age", "Height", "Bio"},
		{"1", "", "Priya Test", "", "", ""},
	}
	svc := newTestSheetsService(t, api)
	ctx := context.Background()

	err := svc.UpdateProfileByEmail(ctx, "Priya Test", models.Record{
		"Age":    "29",
		"Height": "5'6",
		"Bio":    "hello",
	})
	require.NoError(t, err)

	row := api.sheets[models.ProfilesTable][1]
	assert.Equal(t, "29", row[3])
	assert.Equal(t, "5'6", row[4])
	assert.Equal(t, "hello", row[5])
	assert.Equal(t, "Priya Test", row[2], "lookup key untouched")
}

func TestSheetsUpdateProfileUnknownTarget(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())

	err := svc.UpdateProfileByEmail(context.Background(), "ghost@x.com", models.Record{"Bio": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSheetsUpdateProfileNoMatchingColumns(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())
	ctx := context.Background()

	require.NoError(t, svc.AddProfile(ctx, models.Record{"Email": "asha@x.com"}))

	err := svc.UpdateProfileByEmail(ctx, "asha@x.com", models.Record{"Favorite_Color": "blue"})
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestSheetsAddCredentialDuplicate(t *testing.T) {
	api := newFakeSheetAPI()
	svc := newTestSheetsService(t, api)
	ctx := context.Background()

	require.NoError(t, svc.AddCredential(ctx, "asha@x.com", "secret", models.RoleUser))

	err := svc.AddCredential(ctx, "ASHA@x.com", "other", models.RoleUser)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Len(t, api.sheets[models.CredentialsTable], 2, "store unchanged after rejected duplicate")
}

func TestSheetsAuthenticateUser(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, svc.AddCredential(ctx, "asha@x.com", string(hash), models.RoleUser))

	role, err := svc.AuthenticateUser(ctx, "Asha@X.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	_, err = svc.AuthenticateUser(ctx, "asha@x.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.AuthenticateUser(ctx, "ghost@x.com", "secret")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSheetsAuthenticateLegacyPlaintext(t *testing.T) {
	api := newFakeSheetAPI()
	api.sheets[models.CredentialsTable] = [][]string{
		credentialsHeader,
		{"old@x.com", "plaintext", models.RoleUser, "", ""},
	}
	svc := newTestSheetsService(t, api)

	role, err := svc.AuthenticateUser(context.Background(), "old@x.com", "plaintext")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}

func TestSheetsAuthenticateOAuthOnlyAccount(t *testing.T) {
	api := newFakeSheetAPI()
	api.sheets[models.CredentialsTable] = [][]string{
		credentialsHeader,
		{"asha@x.com", "", models.RoleUser, models.ProviderGoogle, "g-123"},
	}
	svc := newTestSheetsService(t, api)

	_, err := svc.AuthenticateUser(context.Background(), "asha@x.com", "anything")
	assert.ErrorIs(t, err, ErrOAuthOnly)
}

func TestSheetsFounderRoleOverride(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())
	ctx := context.Background()

	require.NoError(t, svc.AddCredential(ctx, "founder@tingles.com", "secret", models.RoleUser))

	role, err := svc.AuthenticateUser(ctx, "founder@tingles.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleFounder, role, "founder email outranks the stored role")
}

func TestSheetsOAuthFirstSignIn(t *testing.T) {
	api := newFakeSheetAPI()
	svc := newTestSheetsService(t, api)
	ctx := context.Background()

	role, err := svc.GetOrCreateOAuthUser(ctx, "new@x.com", "New User", models.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	// Credential row plus a stub profile.
	assert.Len(t, api.sheets[models.CredentialsTable], 2)
	rec, err := svc.GetProfileByEmail(ctx, "new@x.com", true)
	require.NoError(t, err)
	assert.Equal(t, "New User", rec["Name"])
	assert.Equal(t, models.StatusSingle, rec["Status"])

	// Second sign-in is idempotent: nothing new appended.
	_, err = svc.GetOrCreateOAuthUser(ctx, "new@x.com", "New User", models.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.Len(t, api.sheets[models.CredentialsTable], 2)
	assert.Len(t, api.sheets[models.ProfilesTable], 2)
}

func TestSheetsOAuthUpgradesEmailAccount(t *testing.T) {
	api := newFakeSheetAPI()
	svc := newTestSheetsService(t, api)
	ctx := context.Background()

	require.NoError(t, svc.AddCredential(ctx, "asha@x.com", "hash", models.RoleUser))

	_, err := svc.GetOrCreateOAuthUser(ctx, "asha@x.com", "Asha", models.ProviderGoogle, "g-9")
	require.NoError(t, err)

	row := api.sheets[models.CredentialsTable][1]
	assert.Equal(t, "hash", row[1], "password kept so the original login still works")
	assert.Equal(t, models.ProviderGoogle, row[3])
	assert.Equal(t, "g-9", row[4])
}

func TestSheetsOAuthProviderConflict(t *testing.T) {
	api := newFakeSheetAPI()
	api.sheets[models.CredentialsTable] = [][]string{
		credentialsHeader,
		{"asha@x.com", "", models.RoleUser, models.ProviderLinkedIn, "li-1"},
	}
	svc := newTestSheetsService(t, api)

	_, err := svc.GetOrCreateOAuthUser(context.Background(), "asha@x.com", "Asha", models.ProviderGoogle, "g-1")
	assert.ErrorIs(t, err, ErrProviderConflict)
}

func TestSheetsSuggestionLifecycle(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())
	ctx := context.Background()

	require.NoError(t, svc.AddProfile(ctx, models.Record{"Email": "asha@x.com", "Name": "Asha"}))
	require.NoError(t, svc.AddProfile(ctx, models.Record{"Email": "ravi@x.com", "Name": "Ravi"}))

	require.NoError(t, svc.AddSuggestion(ctx, "asha@x.com", "ravi@x.com", ""))

	exists, err := svc.SuggestionExists(ctx, "Asha@X.com", "ravi@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	recs, err := svc.GetSuggestionsForUser(ctx, "asha@x.com")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Ravi", recs[0]["Name"])
	assert.Equal(t, models.SuggestionPending, recs[0][models.SuggestionStatusKey], "empty status defaults to pending")

	require.NoError(t, svc.UpdateSuggestionStatus(ctx, "asha@x.com", "ravi@x.com", models.SuggestionLiked))

	recs, err = svc.GetSuggestionsForUser(ctx, "asha@x.com")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.SuggestionLiked, recs[0][models.SuggestionStatusKey])
}

func TestSheetsSuggestionForUnknownProfileDropped(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())
	ctx := context.Background()

	require.NoError(t, svc.AddSuggestion(ctx, "asha@x.com", "ghost@x.com", models.SuggestionPending))

	recs, err := svc.GetSuggestionsForUser(ctx, "asha@x.com")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSheetsUpdateSuggestionStatusNotFound(t *testing.T) {
	svc := newTestSheetsService(t, newFakeSheetAPI())

	err := svc.UpdateSuggestionStatus(context.Background(), "a@x.com", "b@x.com", models.SuggestionLiked)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSheetsBackendErrorWraps(t *testing.T) {
	api := newFakeSheetAPI()
	svc := newTestSheetsService(t, api)
	api.err = errors.New("quota exceeded")

	_, err := svc.LoadProfiles(context.Background(), false)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}
