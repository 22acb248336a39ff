package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsURL(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text string
		out  bool
	}{
		{"", false},
		{"no links here", false},
		{"check this out http://example.com ok", true},
		{"check this out https://example.com/path?q=1", true},
		{"check this out www.example.com", true},
		{"CHECK HTTPS://EXAMPLE.COM", true},
		{"word-www.example.com", true},
		{"trailing www.", true},
		// substring scan, even mid-word
		{"awww.cute", true},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, ContainsURL(fix.text), "text: %s", fix.text)
	}
}

func TestContainsMassMention(t *testing.T) {
	assert := assert.New(t)

	assert.False(ContainsMassMention("hello @alice"))
	assert.True(ContainsMassMention("hello @everyone"))
	assert.True(ContainsMassMention("hello @EVERYONE"))
	assert.True(ContainsMassMention("ping @Here now"))
	assert.False(ContainsMassMention("everyone and here, no at-sign"))
}

func TestTruncateText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("short", TruncateText("short", 100))
	assert.Equal(strings.Repeat("a", 100), TruncateText(strings.Repeat("a", 150), 100))
	// rune-safe
	assert.Equal("héllo", TruncateText("héllohé", 5))
}

func TestDedupeStrings(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{"a", "b"}, DedupeStrings([]string{"a", "b", "a"}))
}
