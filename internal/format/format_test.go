package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentions(t *testing.T) {
	assert.Equal(t, "<@1>", MentionUser("1"))
	assert.Equal(t, "<@&2>", MentionRole("2"))
	assert.Equal(t, "<#3>", MentionChannel("3"))
}

func TestLists(t *testing.T) {
	assert.Equal(t, None, UserList(nil))
	assert.Equal(t, "• <@1> - `1`\n• <@2> - `2`", UserList([]string{"1", "2"}))
	assert.Equal(t, "• <@&9> - `9`", RoleList([]string{"9"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	long := strings.Repeat("a", 2000)
	got := Truncate(long, FieldLimit)
	assert.LessOrEqual(t, len(got), FieldLimit)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestTruncateDoesNotSplitRunes(t *testing.T) {
	long := strings.Repeat("é", 600)
	got := Truncate(long, 100)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, got, string([]rune(got)), "output must stay valid UTF-8")
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("Straße"), Fold("STRASSE"))
	assert.Equal(t, "moderator", Fold("MODERATOR"))
}
