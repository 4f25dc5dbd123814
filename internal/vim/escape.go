package vim

import "strings"

// EscapeSingleQuotes escapes s for embedding in a single-quoted Vimscript
// string, where a quote is escaped by doubling it.
func EscapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeDoubleQuotes escapes s for embedding in a double-quoted Vimscript
// string.
func EscapeDoubleQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// EscapeSpaces backslash-escapes spaces, for arguments like file names.
func EscapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}

// quoteSingle wraps s in single quotes, escaping as needed.
func quoteSingle(s string) string {
	return "'" + EscapeSingleQuotes(s) + "'"
}
