package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

const base = "guild"

func testIndex() RoleIndex {
	return NewRoleIndex([]gateway.Role{
		{ID: "top", Position: 10},
		{ID: "mid", Position: 5},
		{ID: "low", Position: 2},
		{ID: "managed", Position: 1, Managed: true},
		{ID: base, Position: 0},
	})
}

func member(roles ...string) gateway.Member {
	return gateway.Member{GuildID: base, UserID: "u", RoleIDs: roles}
}

func TestRoleManageableBy(t *testing.T) {
	idx := testIndex()
	actor := member("top")
	bot := member("top")

	assert.True(t, RoleManageableBy(idx, actor, bot, idx["mid"], base))
	assert.True(t, RoleManageableBy(idx, actor, bot, idx["low"], base))

	t.Run("managed role", func(t *testing.T) {
		assert.False(t, RoleManageableBy(idx, actor, bot, idx["managed"], base))
	})
	t.Run("base role", func(t *testing.T) {
		assert.False(t, RoleManageableBy(idx, actor, bot, idx[base], base))
	})
	t.Run("at or above actor top", func(t *testing.T) {
		weak := member("mid")
		assert.False(t, RoleManageableBy(idx, weak, bot, idx["mid"], base))
		assert.False(t, RoleManageableBy(idx, weak, bot, idx["top"], base))
	})
	t.Run("at or above bot top", func(t *testing.T) {
		weakBot := member("mid")
		assert.False(t, RoleManageableBy(idx, actor, weakBot, idx["mid"], base))
	})
	t.Run("roleless actor", func(t *testing.T) {
		assert.False(t, RoleManageableBy(idx, member(), bot, idx["low"], base))
	})
}

func TestCanEditTarget(t *testing.T) {
	idx := testIndex()
	assert.True(t, CanEditTarget(idx, member("top"), member("mid")))
	assert.False(t, CanEditTarget(idx, member("mid"), member("mid")), "lateral edit")
	assert.False(t, CanEditTarget(idx, member("mid"), member("top")), "upward edit")
	assert.True(t, CanEditTarget(idx, member("mid"), member()), "roleless target")
	assert.False(t, CanEditTarget(idx, member(), member()), "roleless actor")
}

func TestBotCanManageRole(t *testing.T) {
	idx := testIndex()
	bot := member("top")
	assert.True(t, BotCanManageRole(idx, bot, idx["mid"], base, true))
	assert.False(t, BotCanManageRole(idx, bot, idx["mid"], base, false), "no manage-roles permission")
	assert.False(t, BotCanManageRole(idx, bot, idx["managed"], base, true))
	assert.False(t, BotCanManageRole(idx, bot, idx["top"], base, true))
	assert.False(t, BotCanManageRole(idx, member("low"), idx["mid"], base, true))
}
