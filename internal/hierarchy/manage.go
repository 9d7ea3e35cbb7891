package hierarchy

import "github.com/rolekeeper/rolekeeper/internal/gateway"

// RoleIndex maps role id to role for position lookups.
type RoleIndex map[string]gateway.Role

// NewRoleIndex builds an index from a guild role listing.
func NewRoleIndex(roles []gateway.Role) RoleIndex {
	idx := make(RoleIndex, len(roles))
	for _, r := range roles {
		idx[r.ID] = r
	}
	return idx
}

// TopPosition returns the highest role position the member holds. A member
// with no indexed roles sits at the base position and reports ok=false.
func (idx RoleIndex) TopPosition(m gateway.Member) (int, bool) {
	best, ok := 0, false
	for _, id := range m.RoleIDs {
		r, found := idx[id]
		if !found {
			continue
		}
		if !ok || r.Position > best {
			best, ok = r.Position, true
		}
	}
	return best, ok
}

// RoleManageableBy reports whether actor may administer the role through the
// bot: the role is not platform-managed, not the guild's base role, and
// sits strictly below both the actor's and the bot's highest role.
func RoleManageableBy(idx RoleIndex, actor, bot gateway.Member, role gateway.Role, baseRoleID string) bool {
	if role.Managed || role.ID == baseRoleID {
		return false
	}
	actorTop, ok := idx.TopPosition(actor)
	if !ok {
		return false
	}
	botTop, ok := idx.TopPosition(bot)
	if !ok {
		return false
	}
	return role.Position < actorTop && role.Position < botTop
}

// CanEditTarget reports whether actor outranks target: the target's highest
// role must sit strictly below the actor's. Blocks lateral and upward edits.
func CanEditTarget(idx RoleIndex, actor, target gateway.Member) bool {
	actorTop, ok := idx.TopPosition(actor)
	if !ok {
		return false
	}
	targetTop, ok := idx.TopPosition(target)
	if !ok {
		// A target with no roles sits at the base and is always editable
		// by anyone who holds at least one role.
		return true
	}
	return targetTop < actorTop
}

// BotCanManageRole ignores the actor's standing and asks only whether the
// bot itself could mutate the role. hasManageRoles is the guild-level
// permission check, resolved by the caller.
func BotCanManageRole(idx RoleIndex, bot gateway.Member, role gateway.Role, baseRoleID string, hasManageRoles bool) bool {
	if !hasManageRoles || role.Managed || role.ID == baseRoleID {
		return false
	}
	botTop, ok := idx.TopPosition(bot)
	if !ok {
		return false
	}
	return role.Position < botTop
}
