package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

// RestAPI is the narrow surface SupabaseService needs from the relational
// backend: filtered selects and row mutations, all store-side. The
// production implementation goes through Supabase's PostgREST endpoint;
// tests plug in an in-memory fake.
type RestAPI interface {
	// Select returns rows matching every equality filter, or all rows
	// when filters is empty.
	Select(ctx context.Context, table string, filters map[string]string) ([]map[string]interface{}, error)

	// SelectIn returns rows whose column value is in values.
	SelectIn(ctx context.Context, table, column string, values []string) ([]map[string]interface{}, error)

	// Insert adds one row.
	Insert(ctx context.Context, table string, row map[string]interface{}) error

	// Update applies changes to every row matching the filters and
	// returns how many rows matched.
	Update(ctx context.Context, table string, filters map[string]string, changes map[string]interface{}) (int, error)
}

// PostgrestAPI implements RestAPI on top of the Supabase PostgREST client.
type PostgrestAPI struct {
	client *postgrest.Client
}

// NewPostgrestAPI builds the PostgREST client from the project URL and API
// key. Construction failure means the backend is unavailable.
func NewPostgrestAPI(projectURL, apiKey string) (*PostgrestAPI, error) {
	if projectURL == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: supabase url or key not configured", ErrBackendUnavailable)
	}
	client := postgrest.NewClient(strings.TrimRight(projectURL, "/")+"/rest/v1", "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("%w: postgrest client init: %v", ErrBackendUnavailable, client.ClientError)
	}
	return &PostgrestAPI{client: client}, nil
}

func (p *PostgrestAPI) Select(ctx context.Context, table string, filters map[string]string) ([]map[string]interface{}, error) {
	q := p.client.From(table).Select("*", "", false)
	for col, val := range filters {
		q = q.Eq(col, val)
	}
	data, _, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("select from %q: %w", table, err)
	}
	return decodeRows(table, data)
}

func (p *PostgrestAPI) SelectIn(ctx context.Context, table, column string, values []string) ([]map[string]interface{}, error) {
	data, _, err := p.client.From(table).Select("*", "", false).In(column, values).Execute()
	if err != nil {
		return nil, fmt.Errorf("select from %q: %w", table, err)
	}
	return decodeRows(table, data)
}

func (p *PostgrestAPI) Insert(ctx context.Context, table string, row map[string]interface{}) error {
	_, _, err := p.client.From(table).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("insert into %q: %w", table, err)
	}
	return nil
}

func (p *PostgrestAPI) Update(ctx context.Context, table string, filters map[string]string, changes map[string]interface{}) (int, error) {
	q := p.client.From(table).Update(changes, "representation", "")
	for col, val := range filters {
		q = q.Eq(col, val)
	}
	data, _, err := q.Execute()
	if err != nil {
		return 0, fmt.Errorf("update %q: %w", table, err)
	}
	rows, err := decodeRows(table, data)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func decodeRows(table string, data []byte) ([]map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %q response: %w", table, err)
	}
	return rows, nil
}
