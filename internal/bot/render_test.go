package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClipKeepsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "héllo", clip("héllo", 100), "short strings pass through")

	// "é" is two bytes; a cut at 6 would land mid-rune.
	long := strings.Repeat("é", 10)
	got := clip(long, 7)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 3), got)

	assert.Equal(t, "", clip("é", 1))
}
