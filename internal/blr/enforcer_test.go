package blr

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolekeeper/rolekeeper/internal/audit"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/gateway/gatewaytest"
	"github.com/rolekeeper/rolekeeper/internal/mutation"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

const guildID = "g1"

func setup(t *testing.T) (*Enforcer, *gatewaytest.Fake, *store.Store) {
	t.Helper()
	fake := gatewaytest.New()
	fake.SeedGuild(guildID, "Test Guild")
	fake.SeedRole(guildID, gateway.Role{ID: "top", Name: "bot-top", Position: 100})
	fake.SeedMember(guildID, fake.BotID, "rolekeeper", "top")
	fake.SeedRole(guildID, gateway.Role{ID: "r1", Name: "keep-me", Position: 10})
	fake.SeedRole(guildID, gateway.Role{ID: "r2", Name: "forced", Position: 20})
	fake.SeedRole(guildID, gateway.Role{ID: "r3", Name: "stray", Position: 30})

	log := slog.New(slog.DiscardHandler)
	st := store.New(t.TempDir())
	engine := mutation.NewEngine(fake, log)
	emitter := audit.NewEmitter(st, fake, fake, nil, log, nil)
	return NewEnforcer(st, engine, fake, emitter, log), fake, st
}

func configure(t *testing.T, st *store.Store, mutate func(*store.Document)) {
	t.Helper()
	_, err := st.Update(guildID, func(d *store.Document) error {
		mutate(d)
		return nil
	})
	require.NoError(t, err)
}

func member(t *testing.T, fake *gatewaytest.Fake, userID string) gateway.Member {
	t.Helper()
	m, err := fake.Member(context.Background(), guildID, userID)
	require.NoError(t, err)
	return m
}

func TestApplyPurgesAndAssigns(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(d *store.Document) {
		d.BLRKeepRoles = []string{"r1"}
		d.BLRAddRoles = []string{"r2"}
	})
	fake.SeedMember(guildID, "u1", "alice", "r1", "r3")

	res := enf.Apply(context.Background(), guildID, "actor", member(t, fake, "u1"))

	assert.Equal(t, []string{"r2"}, res.Added)
	assert.Equal(t, []string{"r3"}, res.Removed)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{"r1", "r2"}, fake.MemberRoles(guildID, "u1"))

	doc, err := st.Load(guildID)
	require.NoError(t, err)
	assert.True(t, doc.IsBLR("u1"))
}

func TestApplyIsIdempotent(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(d *store.Document) {
		d.BLRKeepRoles = []string{"r1"}
		d.BLRAddRoles = []string{"r2"}
	})
	fake.SeedMember(guildID, "u1", "alice", "r1", "r3")

	ctx := context.Background()
	first := enf.Apply(ctx, guildID, "actor", member(t, fake, "u1"))
	require.True(t, first.Changed())

	second := enf.Apply(ctx, guildID, "actor", member(t, fake, "u1"))
	assert.False(t, second.Changed())
	assert.Equal(t, []string{"r1", "r2"}, fake.MemberRoles(guildID, "u1"))

	doc, err := st.Load(guildID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, doc.BLRUsers)
}

func TestApplySkipsRolesAboveBot(t *testing.T) {
	enf, fake, st := setup(t)
	fake.SeedRole(guildID, gateway.Role{ID: "untouchable", Position: 200})
	fake.SeedMember(guildID, "u1", "alice", "r3", "untouchable")
	configure(t, st, func(d *store.Document) {
		d.BLRKeepRoles = []string{}
	})

	res := enf.Apply(context.Background(), guildID, "actor", member(t, fake, "u1"))

	assert.Equal(t, []string{"r3"}, res.Removed)
	assert.Equal(t, []string{"untouchable"}, fake.MemberRoles(guildID, "u1"))
}

func TestApplySkipsManagedAndBaseRoles(t *testing.T) {
	enf, fake, st := setup(t)
	fake.SeedRole(guildID, gateway.Role{ID: "integration", Position: 5, Managed: true})
	fake.SeedRole(guildID, gateway.Role{ID: guildID, Position: 0})
	fake.SeedMember(guildID, "u1", "alice", "integration", guildID)
	configure(t, st, func(*store.Document) {})

	res := enf.Apply(context.Background(), guildID, "actor", member(t, fake, "u1"))

	assert.Empty(t, res.Removed)
	assert.Equal(t, []string{guildID, "integration"}, fake.MemberRoles(guildID, "u1"))
}

func TestApplyRecordsPartialFailure(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(d *store.Document) {
		d.BLRAddRoles = []string{"r1", "r2"}
	})
	fake.SeedMember(guildID, "u1", "alice", "r3")
	fake.FailAdd["u1/r1"] = assert.AnError

	res := enf.Apply(context.Background(), guildID, "actor", member(t, fake, "u1"))

	assert.Equal(t, []string{"r2"}, res.Added)
	assert.Equal(t, []string{"r3"}, res.Removed)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "r1", res.Failed[0].RoleID)

	doc, err := st.Load(guildID)
	require.NoError(t, err)
	assert.True(t, doc.IsBLR("u1"), "roster entry persists despite partial failure")
}

func TestApplyEmitsAudit(t *testing.T) {
	enf, fake, st := setup(t)
	fake.SeedChannel(gateway.Channel{ID: "log", GuildID: guildID, Kind: gateway.ChannelText})
	configure(t, st, func(d *store.Document) {
		d.LogChannelID = "log"
		d.BLRAddRoles = []string{"r2"}
	})
	fake.SeedMember(guildID, "u1", "alice")

	enf.Apply(context.Background(), guildID, "actor", member(t, fake, "u1"))

	require.Len(t, fake.Sends, 1)
	assert.Equal(t, "log", fake.Sends[0].ChannelID)
	require.Len(t, fake.Sends[0].Message.Embeds, 1)
	assert.Equal(t, "BLR applied", fake.Sends[0].Message.Embeds[0].Title)
}

func TestRevoke(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(d *store.Document) {
		d.BLRAddRoles = []string{"r2"}
	})
	fake.SeedMember(guildID, "u1", "alice")
	enf.Apply(context.Background(), guildID, "actor", member(t, fake, "u1"))

	assert.True(t, enf.Revoke(context.Background(), guildID, "actor", "u1"))

	doc, err := st.Load(guildID)
	require.NoError(t, err)
	assert.False(t, doc.IsBLR("u1"))
	// Roles are left as-is; lifting the restriction restores nothing.
	assert.Equal(t, []string{"r2"}, fake.MemberRoles(guildID, "u1"))

	assert.False(t, enf.Revoke(context.Background(), guildID, "actor", "u1"))
}

func TestOnMemberJoinReapplies(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(d *store.Document) {
		d.BLRKeepRoles = []string{"r1"}
		d.BLRAddRoles = []string{"r2"}
		d.BLRUsers = []string{"u1"}
	})
	// Rejoin grants the member their pre-leave roles back.
	fake.SeedMember(guildID, "u1", "alice", "r1", "r3")

	enf.OnMemberJoin(context.Background(), member(t, fake, "u1"))

	assert.Equal(t, []string{"r1", "r2"}, fake.MemberRoles(guildID, "u1"))
}

func TestOnMemberJoinIgnoresUnlisted(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(d *store.Document) {
		d.BLRAddRoles = []string{"r2"}
	})
	fake.SeedMember(guildID, "u1", "alice", "r3")

	enf.OnMemberJoin(context.Background(), member(t, fake, "u1"))

	assert.Equal(t, []string{"r3"}, fake.MemberRoles(guildID, "u1"))
}

func TestOnMemberUpdateRemovesOutOfPolicyGrant(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(d *store.Document) {
		d.BLRKeepRoles = []string{"r1"}
		d.BLRAddRoles = []string{"r2"}
		d.BLRUsers = []string{"u1"}
	})
	// Someone hands the restricted member r3 directly.
	fake.SeedMember(guildID, "u1", "alice", "r1", "r2", "r3")

	enf.OnMemberUpdate(context.Background(), member(t, fake, "u1"))

	assert.Equal(t, []string{"r1", "r2"}, fake.MemberRoles(guildID, "u1"))
}

func TestOnMemberUpdateQuietWhenConforming(t *testing.T) {
	enf, fake, st := setup(t)
	fake.SeedChannel(gateway.Channel{ID: "log", GuildID: guildID, Kind: gateway.ChannelText})
	configure(t, st, func(d *store.Document) {
		d.LogChannelID = "log"
		d.BLRKeepRoles = []string{"r1"}
		d.BLRAddRoles = []string{"r2"}
		d.BLRUsers = []string{"u1"}
	})
	fake.SeedMember(guildID, "u1", "alice", "r1", "r2")

	enf.OnMemberUpdate(context.Background(), member(t, fake, "u1"))

	assert.Equal(t, []string{"r1", "r2"}, fake.MemberRoles(guildID, "u1"))
	assert.Empty(t, fake.Sends, "no audit when nothing was removed")
}

func TestOnMemberUpdateIgnoresUnlisted(t *testing.T) {
	enf, fake, st := setup(t)
	configure(t, st, func(*store.Document) {})
	fake.SeedMember(guildID, "u1", "alice", "r3")

	enf.OnMemberUpdate(context.Background(), member(t, fake, "u1"))

	assert.Equal(t, []string{"r3"}, fake.MemberRoles(guildID, "u1"))
}
