package db

import "strings"

// Literal text matching for caller-supplied query strings.
//
// Query text from the wire is never compiled as a pattern. For SQL it is
// escaped so that ILIKE treats every character literally; for in-memory
// filtering plain substring/equality comparators are used. Both live here so
// the escaping rule exists in exactly one place.

// likeEscaper neutralizes the three characters ILIKE treats specially.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike returns s with all ILIKE metacharacters escaped, suitable for
// use as a literal inside a LIKE/ILIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// LikeContains builds a case-insensitive substring ILIKE pattern that matches
// q literally anywhere in the target value.
func LikeContains(q string) string {
	return "%" + EscapeLike(q) + "%"
}

// ContainsFold reports whether s contains substr, ignoring case. substr is
// treated as literal text.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// EqualsFold reports whether s equals t ignoring case.
func EqualsFold(s, t string) bool {
	return strings.EqualFold(s, t)
}
