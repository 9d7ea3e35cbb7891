// Package blr enforces the restricted-rank policy: members on the roster
// are stripped of every bot-manageable role outside the keep-list and
// force-assigned the add-list. Enforcement re-runs on rejoin and reacts to
// any role grant made behind the bot's back. Apply and Revoke never fail
// outward; they complete and report whatever subset succeeded.
package blr

import (
	"context"
	"log/slog"
	"slices"

	"github.com/rolekeeper/rolekeeper/internal/audit"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/hierarchy"
	"github.com/rolekeeper/rolekeeper/internal/mutation"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

// Enforcer applies and lifts the restricted rank.
type Enforcer struct {
	store  *store.Store
	engine *mutation.Engine
	dir    gateway.Directory
	audit  *audit.Emitter
	log    *slog.Logger
}

// NewEnforcer constructs an Enforcer.
func NewEnforcer(st *store.Store, engine *mutation.Engine, dir gateway.Directory, emitter *audit.Emitter, log *slog.Logger) *Enforcer {
	return &Enforcer{store: st, engine: engine, dir: dir, audit: emitter, log: log}
}

// manageable returns the set of role ids the bot can administer in the guild.
func (e *Enforcer) manageable(ctx context.Context, guildID string) (map[string]bool, error) {
	roles, err := e.dir.Roles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	bot, err := e.dir.BotMember(ctx, guildID)
	if err != nil {
		return nil, err
	}
	hasPerm, err := e.dir.BotHasManageRoles(ctx, guildID)
	if err != nil {
		return nil, err
	}
	guild, err := e.dir.Guild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	idx := hierarchy.NewRoleIndex(roles)
	set := make(map[string]bool)
	for _, r := range roles {
		if hierarchy.BotCanManageRole(idx, bot, r, guild.BaseRoleID, hasPerm) {
			set[r.ID] = true
		}
	}
	return set, nil
}

// purgeAndAssign computes and applies the restricted role set transform.
func (e *Enforcer) purgeAndAssign(ctx context.Context, doc *store.Document, target gateway.Member, reason string) mutation.Result {
	manageable, err := e.manageable(ctx, target.GuildID)
	if err != nil {
		e.log.Warn("blr: resolve manageable roles", slog.String("guild", target.GuildID), slog.Any("error", err))
		return mutation.Result{}
	}
	var toRemove []string
	for _, id := range target.RoleIDs {
		if manageable[id] && !slices.Contains(doc.BLRKeepRoles, id) {
			toRemove = append(toRemove, id)
		}
	}
	var toAdd []string
	for _, id := range doc.BLRAddRoles {
		if manageable[id] && !target.HasRole(id) {
			toAdd = append(toAdd, id)
		}
	}
	return e.engine.ApplyRoleDiff(ctx, target.GuildID, target.UserID, toAdd, toRemove, reason)
}

// Apply puts the member under restricted rank: purge, assign, add to the
// roster. Re-applying to an already conforming member changes nothing.
func (e *Enforcer) Apply(ctx context.Context, guildID, actorID string, target gateway.Member) mutation.Result {
	doc, err := e.store.Load(guildID)
	if err != nil {
		e.log.Warn("blr: load document", slog.String("guild", guildID), slog.Any("error", err))
		return mutation.Result{}
	}
	res := e.purgeAndAssign(ctx, doc, target, "restricted rank applied")
	if _, err := e.store.Update(guildID, func(d *store.Document) error {
		if !slices.Contains(d.BLRUsers, target.UserID) {
			d.BLRUsers = append(d.BLRUsers, target.UserID)
		}
		return nil
	}); err != nil {
		e.log.Warn("blr: persist roster", slog.String("guild", guildID), slog.Any("error", err))
	}
	e.audit.Emit(ctx, guildID, audit.Record{
		Title:          "BLR applied",
		Color:          gateway.ColorRed,
		ActorID:        actorID,
		TargetID:       target.UserID,
		AddedRoleIDs:   res.Added,
		RemovedRoleIDs: res.Removed,
	})
	return res
}

// Revoke lifts enforcement by dropping the user from the roster. Roles
// removed while restricted are not restored.
func (e *Enforcer) Revoke(ctx context.Context, guildID, actorID, userID string) bool {
	changed := false
	if _, err := e.store.Update(guildID, func(d *store.Document) error {
		if i := slices.Index(d.BLRUsers, userID); i >= 0 {
			d.BLRUsers = slices.Delete(d.BLRUsers, i, i+1)
			changed = true
		}
		return nil
	}); err != nil {
		e.log.Warn("blr: persist roster", slog.String("guild", guildID), slog.Any("error", err))
		return false
	}
	if changed {
		e.audit.Emit(ctx, guildID, audit.Record{
			Title:    "BLR revoked",
			Color:    gateway.ColorGreen,
			ActorID:  actorID,
			TargetID: userID,
		})
	}
	return changed
}

// OnMemberJoin re-applies the policy when a rostered user rejoins.
func (e *Enforcer) OnMemberJoin(ctx context.Context, m gateway.Member) {
	doc, err := e.store.Load(m.GuildID)
	if err != nil {
		e.log.Warn("blr: load document", slog.String("guild", m.GuildID), slog.Any("error", err))
		return
	}
	if !doc.IsBLR(m.UserID) {
		return
	}
	res := e.purgeAndAssign(ctx, doc, m, "restricted rank re-applied on rejoin")
	e.audit.Emit(ctx, m.GuildID, audit.Record{
		Title:          "BLR re-applied (rejoin)",
		Color:          gateway.ColorYellow,
		TargetID:       m.UserID,
		AddedRoleIDs:   res.Added,
		RemovedRoleIDs: res.Removed,
	})
}

// OnMemberUpdate reacts to role changes on rostered members. Any held
// manageable role outside the keep and add lists is removed.
func (e *Enforcer) OnMemberUpdate(ctx context.Context, m gateway.Member) {
	doc, err := e.store.Load(m.GuildID)
	if err != nil {
		e.log.Warn("blr: load document", slog.String("guild", m.GuildID), slog.Any("error", err))
		return
	}
	if !doc.IsBLR(m.UserID) {
		return
	}
	manageable, err := e.manageable(ctx, m.GuildID)
	if err != nil {
		e.log.Warn("blr: resolve manageable roles", slog.String("guild", m.GuildID), slog.Any("error", err))
		return
	}
	var toRemove []string
	for _, id := range m.RoleIDs {
		if !manageable[id] {
			continue
		}
		if slices.Contains(doc.BLRKeepRoles, id) || slices.Contains(doc.BLRAddRoles, id) {
			continue
		}
		toRemove = append(toRemove, id)
	}
	if len(toRemove) == 0 {
		return
	}
	res := e.engine.ApplyRoleDiff(ctx, m.GuildID, m.UserID, nil, toRemove, "restricted rank enforcement")
	if len(res.Removed) == 0 {
		return
	}
	e.audit.Emit(ctx, m.GuildID, audit.Record{
		Title:          "BLR enforcement: unauthorized roles removed",
		Color:          gateway.ColorRed,
		TargetID:       m.UserID,
		RemovedRoleIDs: res.Removed,
	})
}
