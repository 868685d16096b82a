package services

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tingles_server/models"
)

// passwordMatches compares a stored password against a login attempt.
// New credentials carry bcrypt hashes; rows migrated from the original
// sheet may still hold plaintext, which falls back to direct comparison.
func passwordMatches(stored, given string) bool {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return stored == given
}

// resolveRole returns the effective role for an authenticated user. The
// configured founder email wins over whatever role the store holds.
func resolveRole(founderEmail, normalizedEmail, storedRole string) string {
	if founderEmail != "" && normalizedEmail == founderEmail {
		return models.RoleFounder
	}
	role := strings.ToLower(strings.TrimSpace(storedRole))
	if role == "" {
		return models.RoleUser
	}
	return role
}
