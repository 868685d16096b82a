package utils

import "strconv"

// ColumnLetter converts a 1-based column index to its A1-notation letters
// ("A", "B", ..., "Z", "AA", ...).
func ColumnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}

// CellRef builds an A1-notation reference for a single cell on a sheet,
// 1-based row and column, row 1 being the header.
func CellRef(sheet string, row, col int) string {
	return sheet + "!" + ColumnLetter(col) + strconv.Itoa(row)
}
