package helpers

import (
	"regexp"
	"strings"
)

// Matches link-looking substrings anywhere in a message body: an explicit
// http/https scheme, or a bare "www." token. This is intentionally a
// substring scan, not full URL validation.
var urlRegex = regexp.MustCompile(`(?i)(?:https?://|www\.)\S*`)

func ContainsURL(raw string) bool {
	return urlRegex.MatchString(raw)
}

func ExtractTextURLs(raw string) []string {
	return urlRegex.FindAllString(raw, -1)
}

var massMentionTokens = []string{"@everyone", "@here"}

// ContainsMassMention reports whether the body contains a guild-wide mention
// token. Matching is case-insensitive and positional context is ignored.
func ContainsMassMention(raw string) bool {
	lower := strings.ToLower(raw)
	for _, tok := range massMentionTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func DedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range in {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}

// TruncateText clips s to at most n characters, for compact audit log lines.
func TruncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
