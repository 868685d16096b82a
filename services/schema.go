package services

import (
	"strconv"
	"strings"

	"tingles_server/models"
)

// DisplayColumns is the declared profile schema in display-key form, in the
// order a freshly created worksheet lays its header out.
var DisplayColumns = []string{
	"ID", "Email", "Name", "Gender", "Age", "Height", "Profession",
	"Industry", "Education", "Religion", "Residency_Status", "Location",
	"LinkedIn", "PhotoURL", "Bio", "WhatsApp", "Status", "MatchStage",
}

// aliasTable maps lower-cased, trimmed spellings seen in the wild onto
// canonical display keys. Sheets drift: operators rename columns, exports
// re-case them, legacy rows use synonyms. Both adapters read through this.
var aliasTable = map[string]string{
	"id": "ID",

	"email":         "Email",
	"email_address": "Email",
	"emailaddress":  "Email",
	"e-mail":        "Email",
	"user_email":    "Email",
	"useremail":     "Email",

	"name":      "Name",
	"full_name": "Name",

	"gender": "Gender",
	"age":    "Age",
	"height": "Height",

	"profession": "Profession",
	"industry":   "Industry",
	"education":  "Education",
	"religion":   "Religion",

	"residency_status": "Residency_Status",
	"residency":        "Residency_Status",

	"location": "Location",

	"linkedin":     "LinkedIn",
	"linkedin_url": "LinkedIn",

	"photo_url": "PhotoURL",
	"photourl":  "PhotoURL",
	"imageurl":  "PhotoURL",
	"image_url": "PhotoURL",

	"bio": "Bio",

	"whatsapp": "WhatsApp",
	"phone":    "WhatsApp",

	"status": "Status",

	"match_stage": "MatchStage",
	"matchstage":  "MatchStage",
}

// displayToDB maps display keys onto the relational backend's snake_case
// columns, dbToDisplay is its inverse.
var displayToDB = map[string]string{
	"ID":               "id",
	"Email":            "email",
	"Name":             "name",
	"Gender":           "gender",
	"Age":              "age",
	"Height":           "height",
	"Profession":       "profession",
	"Industry":         "industry",
	"Education":        "education",
	"Religion":         "religion",
	"Residency_Status": "residency_status",
	"Location":         "location",
	"LinkedIn":         "linkedin_url",
	"PhotoURL":         "photo_url",
	"Bio":              "bio",
	"WhatsApp":         "whatsapp",
	"Status":           "status",
	"MatchStage":       "match_stage",
}

var dbToDisplay = func() map[string]string {
	m := make(map[string]string, len(displayToDB))
	for k, v := range displayToDB {
		m[v] = k
	}
	return m
}()

// CanonicalKey resolves an arbitrary column spelling to its display key.
// Unknown columns keep their original spelling so extra data survives.
func CanonicalKey(col string) string {
	if canon, ok := aliasTable[strings.ToLower(strings.TrimSpace(col))]; ok {
		return canon
	}
	return col
}

// NormalizeRow folds one raw row into a display-keyed record. Source columns
// that alias to the same display key are merged first-non-empty-wins, in
// source column order. The row may be shorter than the header.
func NormalizeRow(header []string, row []string) models.Record {
	rec := models.Record{}
	for i, col := range header {
		if strings.TrimSpace(col) == "" {
			continue
		}
		var val string
		if i < len(row) {
			val = strings.TrimSpace(row[i])
		}
		key := CanonicalKey(col)
		if existing, ok := rec[key]; ok && existing != "" {
			continue
		}
		rec[key] = val
	}
	return rec
}

// ValueForColumn picks the value a backing-store column should receive from
// an incoming record whose keys may be in either naming convention. The
// fallback chain is deliberate: exact key, lower-cased key, alias-table
// canonical key, title-cased key, empty string. Best-effort on write is what
// keeps a drifted sheet writable at all.
func ValueForColumn(col string, rec models.Record) string {
	if v, ok := rec[col]; ok && v != "" {
		return v
	}
	lower := strings.ToLower(strings.TrimSpace(col))
	if v, ok := rec[lower]; ok && v != "" {
		return v
	}
	if canon, ok := aliasTable[lower]; ok {
		if v, ok := rec[canon]; ok && v != "" {
			return v
		}
	}
	if v, ok := rec[titleCase(lower)]; ok && v != "" {
		return v
	}
	return ""
}

// ToDBRecord converts an incoming record to the relational backend's
// snake_case columns. Age is coerced to an integer; a value that does not
// parse degrades to null rather than failing the write. Empty strings
// become nulls.
func ToDBRecord(rec models.Record) map[string]interface{} {
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		canon := CanonicalKey(k)
		dbKey, ok := displayToDB[canon]
		if !ok {
			dbKey = strings.ToLower(canon)
		}
		if dbKey == "age" {
			if strings.TrimSpace(v) == "" {
				out[dbKey] = nil
			} else if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				out[dbKey] = n
			} else {
				out[dbKey] = nil
			}
			continue
		}
		if v == "" {
			out[dbKey] = nil
		} else {
			out[dbKey] = v
		}
	}
	return out
}

// FromDBRow converts one relational row back to a display-keyed record.
// Nulls flatten to empty strings for the callers' sake.
func FromDBRow(row map[string]interface{}) models.Record {
	rec := models.Record{}
	for k, v := range row {
		key, ok := dbToDisplay[k]
		if !ok {
			// created_at and friends are store bookkeeping,
			// not part of the record.
			continue
		}
		rec[key] = flattenValue(v)
	}
	return rec
}

func flattenValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; IDs and ages are whole.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
