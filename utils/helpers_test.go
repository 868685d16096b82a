package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", ColumnLetter(1))
	assert.Equal(t, "Z", ColumnLetter(26))
	assert.Equal(t, "AA", ColumnLetter(27))
	assert.Equal(t, "AB", ColumnLetter(28))
	assert.Equal(t, "AZ", ColumnLetter(52))
	assert.Equal(t, "BA", ColumnLetter(53))
}

func TestCellRef(t *testing.T) {
	assert.Equal(t, "profiles!A1", CellRef("profiles", 1, 1))
	assert.Equal(t, "Suggestions!C14", CellRef("Suggestions", 14, 3))
}
