package models

import "strings"

// Record is a flat profile record keyed by display names (Name, Email,
// PhotoURL, ...). Profiles stay map-shaped so that extra or renamed columns
// in the backing store survive a round trip instead of being dropped.
type Record map[string]string

// Field returns the value for key, or "" when absent.
func (r Record) Field(key string) string {
	return r[key]
}

// Email returns the normalized (lower-cased, trimmed) email of the record.
func (r Record) Email() string {
	return NormalizeEmail(r["Email"])
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NormalizeEmail lower-cases and trims an email address for comparisons.
// Every lookup key in the storage layer goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitPhotoRefs splits a comma-joined PhotoURL value into individual image
// references. A data URI ("data:image/png;base64,....") carries one comma
// inside itself; that comma must not produce a split.
func SplitPhotoRefs(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}

	parts := strings.Split(joined, ",")
	var refs []string
	for i := 0; i < len(parts); i++ {
		p := strings.TrimSpace(parts[i])
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "data:") && i+1 < len(parts) {
			// Re-attach the payload that the split took off.
			p = p + "," + strings.TrimSpace(parts[i+1])
			i++
		}
		refs = append(refs, p)
	}
	return refs
}

// JoinPhotoRefs is the inverse of SplitPhotoRefs.
func JoinPhotoRefs(refs []string) string {
	return strings.Join(refs, ",")
}
