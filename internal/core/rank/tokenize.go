package rank

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of two or more word characters (letters, digits
// and underscore), the default token definition of common TF-IDF vectorizers.
// Combining marks are separators, so a decomposed "cafe\u0301" yields "cafe".
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into terms.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
