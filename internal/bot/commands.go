package bot

import (
	"context"
	"fmt"

	"github.com/rolekeeper/rolekeeper/internal/audit"
	"github.com/rolekeeper/rolekeeper/internal/format"
	"github.com/rolekeeper/rolekeeper/internal/gateway"
	"github.com/rolekeeper/rolekeeper/internal/hierarchy"
	"github.com/rolekeeper/rolekeeper/internal/session"
	"github.com/rolekeeper/rolekeeper/internal/store"
)

func (s *Service) handleCommand(ctx context.Context, ev gateway.CommandEvent) error {
	switch ev.Command {
	case "help":
		return s.handleHelp(ctx, ev)
	case "edit":
		if ev.Subcommand == "roles" {
			return s.handleEditRoles(ctx, ev)
		}
	case "role":
		switch ev.Subcommand {
		case "info":
			return s.handleRoleInfo(ctx, ev)
		case "member":
			return s.handleRoleMembers(ctx, ev)
		}
	case "addrole":
		return s.handleAddRole(ctx, ev)
	case "sys":
		return s.handleTierList(ctx, ev, tierListSys)
	case "owner":
		return s.handleTierList(ctx, ev, tierListOwner)
	case "wl":
		return s.handleTierList(ctx, ev, tierListWL)
	case "blackrole":
		return s.handleBlackRole(ctx, ev)
	case "blr":
		return s.handleBLR(ctx, ev)
	case "unblr":
		return s.handleUnBLR(ctx, ev)
	case "blrconfig":
		return s.handleBLRConfig(ctx, ev)
	case "setlogsrole":
		return s.handleSetLogsRole(ctx, ev)
	}
	return nil
}

func (s *Service) handleHelp(ctx context.Context, ev gateway.CommandEvent) error {
	emb := s.baseEmbed()
	emb.Title = "Help"
	emb.Color = gateway.ColorBlack
	emb.Description = "Role management bot. Prefix: `/`"
	emb.Fields = []gateway.EmbedField{
		{Name: "General", Value: "`/help` show this menu\n" +
			"`/edit roles <user>` open the role editor\n" +
			"`/addrole <user> <role>` grant a single role"},
		{Name: "Roles", Value: "`/role info <role>` role details\n" +
			"`/role member <role>` manage a role's members"},
		{Name: "Permissions", Value: "`/wl [user]` list or toggle WL\n" +
			"`/owner [user]` list or toggle OWNER\n" +
			"`/sys [user]` list or toggle SYS"},
		{Name: "Role denylist", Value: "`/blackrole` open the denylist panel"},
		{Name: "Restricted rank", Value: "`/blr <user>` apply BLR\n" +
			"`/unblr <user>` revoke BLR\n" +
			"`/blrconfig` configure keep/add lists"},
		{Name: "Logs", Value: "`/setlogsrole [channel] [off]` set or clear the log channel"},
	}
	s.audit.Emit(ctx, ev.GuildID, audit.Record{
		Title:   "Help shown",
		ActorID: ev.Actor.ID,
	})
	msg := gateway.Message{Embeds: []gateway.Embed{emb}}
	if s.supportURL != "" {
		msg.Components = []gateway.ActionRow{{Buttons: []gateway.Button{{
			Label: "Support / Doc",
			Style: gateway.ButtonLink,
			URL:   s.supportURL,
		}}}}
	}
	_, err := s.msg.Reply(ctx, ev.Interaction, msg)
	return err
}

func (s *Service) handleEditRoles(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierWL, noticeDeniedWL); !ok {
		return err
	}
	v, err := s.viewGuild(ctx, ev.GuildID)
	if err != nil {
		return err
	}
	if !v.perm {
		return s.refuse(ctx, ev.Interaction, noticeNeedManage)
	}
	actor, err := s.dir.Member(ctx, ev.GuildID, ev.Actor.ID)
	if err != nil {
		return err
	}
	target, err := s.dir.Member(ctx, ev.GuildID, ev.Options.UserID)
	if err != nil {
		return err
	}
	if !hierarchy.CanEditTarget(v.idx, actor, target) {
		return s.refuse(ctx, ev.Interaction, noticeCannotEdit)
	}
	if doc.IsBLR(target.UserID) {
		emb := s.baseEmbed()
		emb.Title = "Edit refused"
		emb.Color = gateway.ColorRed
		emb.Description = format.MentionUser(target.UserID) + " is under **BLR**. Their roles cannot be edited."
		if _, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}}); err != nil {
			return err
		}
		s.audit.Emit(ctx, ev.GuildID, audit.Record{
			Title:    "Attempted edit of a BLR member",
			Color:    gateway.ColorRed,
			ActorID:  actor.UserID,
			TargetID: target.UserID,
		})
		return nil
	}
	manageable := s.manageableRoleIDs(v, doc, actor)
	if len(manageable) == 0 {
		return s.refuse(ctx, ev.Interaction, noticeNoManageable)
	}

	sess := s.sessions.Create(&session.Session{
		Kind:      session.KindEditor,
		GuildID:   ev.GuildID,
		ActorID:   actor.UserID,
		TargetID:  target.UserID,
		Pages:     session.Paginate(manageable, session.PageSizeEditor),
		ChannelID: ev.ChannelID,
	})
	if err := s.replySession(ctx, ev.Interaction, sess); err != nil {
		return err
	}
	s.audit.Emit(ctx, ev.GuildID, audit.Record{
		Title:   "Editor opened",
		ActorID: actor.UserID,
		Info:    "Target: " + format.MentionUser(target.UserID) + " (`" + target.UserID + "`)",
	})
	return nil
}

func (s *Service) handleRoleInfo(ctx context.Context, ev gateway.CommandEvent) error {
	role, err := s.dir.Role(ctx, ev.GuildID, ev.Options.RoleID)
	if err != nil {
		return err
	}
	members, err := s.dir.RoleMembers(ctx, ev.GuildID, role.ID)
	if err != nil {
		return err
	}

	color := format.None
	if role.Color != 0 {
		color = fmt.Sprintf("#%06x", role.Color)
	}
	perms := format.None
	if len(role.Permissions) > 0 {
		var list string
		for i, p := range role.Permissions {
			if i > 0 {
				list += "\n"
			}
			list += "• `" + p + "`"
		}
		perms = format.Truncate(list, format.FieldLimit)
	}

	emb := s.baseEmbed()
	emb.Title = "Role info — " + role.Name
	emb.Color = role.Color
	if emb.Color == 0 {
		emb.Color = gateway.ColorBlurple
	}
	emb.Description = format.MentionRole(role.ID)
	emb.Fields = []gateway.EmbedField{
		{Name: "ID", Value: "`" + role.ID + "`", Inline: true},
		{Name: "Position", Value: fmt.Sprintf("`%d`", role.Position), Inline: true},
		{Name: "Color", Value: color, Inline: true},
		{Name: "Mentionable", Value: yesNo(role.Mentionable), Inline: true},
		{Name: "Hoisted", Value: yesNo(role.Hoist), Inline: true},
		{Name: "Members", Value: fmt.Sprintf("**%d**", len(members)), Inline: true},
		{Name: "Permissions", Value: perms},
	}
	if _, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}}); err != nil {
		return err
	}
	s.audit.Emit(ctx, ev.GuildID, audit.Record{
		Title:   "Role info shown",
		ActorID: ev.Actor.ID,
		Info:    "Role: " + format.MentionRole(role.ID) + " (`" + role.ID + "`)",
	})
	return nil
}

func (s *Service) handleRoleMembers(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierOwner, noticeDeniedOwner); !ok {
		return err
	}
	if doc.IsBlackRole(ev.Options.RoleID) {
		return s.refuse(ctx, ev.Interaction, noticeRoleDenied)
	}
	v, err := s.viewGuild(ctx, ev.GuildID)
	if err != nil {
		return err
	}
	actor, err := s.dir.Member(ctx, ev.GuildID, ev.Actor.ID)
	if err != nil {
		return err
	}
	role, err := s.dir.Role(ctx, ev.GuildID, ev.Options.RoleID)
	if err != nil {
		return err
	}
	if !hierarchy.RoleManageableBy(v.idx, actor, v.bot, role, v.guild.BaseRoleID) {
		return s.refuse(ctx, ev.Interaction, noticeRoleAbove)
	}
	members, err := s.dir.RoleMembers(ctx, ev.GuildID, role.ID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}

	sess := s.sessions.Create(&session.Session{
		Kind:      session.KindRoleMembers,
		GuildID:   ev.GuildID,
		ActorID:   actor.UserID,
		RoleID:    role.ID,
		Mode:      session.ModeRemove,
		Pages:     session.Paginate(ids, session.PageSizeRoleMembers),
		ChannelID: ev.ChannelID,
	})
	if err := s.replySession(ctx, ev.Interaction, sess); err != nil {
		return err
	}
	s.audit.Emit(ctx, ev.GuildID, audit.Record{
		Title:   "Role members panel opened",
		ActorID: actor.UserID,
		Info:    "Role: " + format.MentionRole(role.ID) + " (`" + role.ID + "`)",
	})
	return nil
}

func (s *Service) handleAddRole(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierWL, noticeDeniedWL); !ok {
		return err
	}
	v, err := s.viewGuild(ctx, ev.GuildID)
	if err != nil {
		return err
	}
	if !v.perm {
		return s.refuse(ctx, ev.Interaction, noticeNeedManage)
	}
	if doc.IsBLR(ev.Options.UserID) {
		return s.refuse(ctx, ev.Interaction, noticeTargetBLR)
	}
	if doc.IsBlackRole(ev.Options.RoleID) {
		return s.refuse(ctx, ev.Interaction, noticeRoleDenied)
	}
	actor, err := s.dir.Member(ctx, ev.GuildID, ev.Actor.ID)
	if err != nil {
		return err
	}
	target, err := s.dir.Member(ctx, ev.GuildID, ev.Options.UserID)
	if err != nil {
		return err
	}
	if !hierarchy.CanEditTarget(v.idx, actor, target) {
		return s.refuse(ctx, ev.Interaction, noticeCannotEdit)
	}
	role, err := s.dir.Role(ctx, ev.GuildID, ev.Options.RoleID)
	if err != nil {
		return err
	}
	if !hierarchy.RoleManageableBy(v.idx, actor, v.bot, role, v.guild.BaseRoleID) {
		return s.refuse(ctx, ev.Interaction, noticeRoleAbove)
	}
	if err := s.roles.AddRole(ctx, ev.GuildID, target.UserID, role.ID, "addrole command"); err != nil {
		return s.refuse(ctx, ev.Interaction, noticeAddFailed)
	}
	s.auditRoleChange(ctx, ev.GuildID, actor.UserID, target.UserID, []string{role.ID}, nil, "via /addrole")

	emb := s.baseEmbed()
	emb.Title = "Role added"
	emb.Color = gateway.ColorGreen
	emb.Fields = []gateway.EmbedField{
		{Name: "Member", Value: "• " + format.MentionUser(target.UserID) + " - `" + target.UserID + "`"},
		{Name: "Role", Value: "• " + format.MentionRole(role.ID) + " - `" + role.ID + "`"},
	}
	_, err = s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
	return err
}

// tierList identifies which membership list a sys/owner/wl command edits.
type tierList struct {
	name   string
	min    hierarchy.Tier
	notice string
	pick   func(*store.Document) *[]string
}

var (
	tierListSys = tierList{
		name: "SYS", min: hierarchy.TierSysPlus, notice: noticeDeniedSysPlus,
		pick: func(d *store.Document) *[]string { return &d.Sys },
	}
	tierListOwner = tierList{
		name: "OWNER", min: hierarchy.TierSys, notice: noticeDeniedSys,
		pick: func(d *store.Document) *[]string { return &d.Owner },
	}
	tierListWL = tierList{
		name: "WL", min: hierarchy.TierOwner, notice: noticeDeniedOwner,
		pick: func(d *store.Document) *[]string { return &d.WL },
	}
)

func (s *Service) handleTierList(ctx context.Context, ev gateway.CommandEvent, list tierList) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, list.min, list.notice); !ok {
		return err
	}

	if ev.Options.UserID == "" {
		emb := s.baseEmbed()
		emb.Title = list.name + " list"
		emb.Color = gateway.ColorBlurple
		emb.Description = format.Truncate(format.UserList(*list.pick(doc)), format.FieldLimit)
		_, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
		return err
	}

	targetID := ev.Options.UserID
	if list.name == "SYS" && hierarchy.TierOf(doc, targetID) == hierarchy.TierSysPlus {
		emb := s.baseEmbed()
		emb.Title = "Access denied"
		emb.Color = gateway.ColorRed
		emb.Description = format.MentionUser(targetID) + " is a bot owner (SYS+)."
		_, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
		return err
	}

	var added bool
	doc, err = s.store.Update(ev.GuildID, func(d *store.Document) error {
		added = store.Toggle(list.pick(d), targetID)
		return nil
	})
	if err != nil {
		return err
	}

	action, color := "Removed", gateway.ColorRed
	if added {
		action, color = "Added", gateway.ColorGreen
	}
	emb := s.baseEmbed()
	emb.Title = list.name + " — updated"
	emb.Color = color
	emb.Fields = []gateway.EmbedField{
		{Name: "Action", Value: action, Inline: true},
		{Name: "Group", Value: list.name, Inline: true},
		{Name: "Target", Value: "• " + format.MentionUser(targetID) + " - `" + targetID + "`"},
		{Name: "Current list", Value: format.Truncate(format.UserList(*list.pick(doc)), format.FieldLimit)},
	}
	if _, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}}); err != nil {
		return err
	}

	rec := audit.Record{
		Title:   "Permissions changed — " + list.name,
		Color:   color,
		ActorID: ev.Actor.ID,
	}
	if added {
		rec.AddedUserIDs = []string{targetID}
	} else {
		rec.RemovedUserIDs = []string{targetID}
	}
	s.audit.Emit(ctx, ev.GuildID, rec)
	return nil
}

func (s *Service) handleBlackRole(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierSys, noticeDeniedSys); !ok {
		return err
	}
	v, err := s.viewGuild(ctx, ev.GuildID)
	if err != nil {
		return err
	}
	sess := s.sessions.Create(&session.Session{
		Kind:      session.KindBlackRole,
		GuildID:   ev.GuildID,
		ActorID:   ev.Actor.ID,
		Pages:     session.Paginate(v.allRoleIDs(), session.PageSizeConfigRoles),
		ChannelID: ev.ChannelID,
	})
	if err := s.replySession(ctx, ev.Interaction, sess); err != nil {
		return err
	}
	s.audit.Emit(ctx, ev.GuildID, audit.Record{
		Title:   "Denylist panel opened",
		ActorID: ev.Actor.ID,
	})
	return nil
}

func (s *Service) handleBLR(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierWL, noticeDeniedWL); !ok {
		return err
	}
	target, err := s.dir.Member(ctx, ev.GuildID, ev.Options.UserID)
	if err != nil {
		return err
	}
	res := s.enforcer.Apply(ctx, ev.GuildID, ev.Actor.ID, target)

	emb := s.baseEmbed()
	emb.Title = "BLR applied"
	emb.Color = gateway.ColorRed
	emb.Fields = []gateway.EmbedField{
		{Name: "Member", Value: "• " + format.MentionUser(target.UserID) + " - `" + target.UserID + "`"},
		{Name: "Roles added", Value: format.Truncate(format.RoleList(res.Added), format.FieldLimit)},
		{Name: "Roles removed", Value: format.Truncate(format.RoleList(res.Removed), format.FieldLimit)},
	}
	_, err = s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
	return err
}

func (s *Service) handleUnBLR(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierWL, noticeDeniedWL); !ok {
		return err
	}
	targetID := ev.Options.UserID
	if !s.enforcer.Revoke(ctx, ev.GuildID, ev.Actor.ID, targetID) {
		emb := s.baseEmbed()
		emb.Title = "Not under BLR"
		emb.Color = gateway.ColorBlurple
		emb.Description = format.MentionUser(targetID) + " is not on the BLR roster."
		if _, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}}); err != nil {
			return err
		}
		s.audit.Emit(ctx, ev.GuildID, audit.Record{
			Title:   "UNBLR attempt on a non-BLR user",
			ActorID: ev.Actor.ID,
			Info:    "Target: " + format.MentionUser(targetID) + " (`" + targetID + "`)",
		})
		return nil
	}
	emb := s.baseEmbed()
	emb.Title = "BLR revoked"
	emb.Color = gateway.ColorGreen
	emb.Fields = []gateway.EmbedField{
		{Name: "Member", Value: "• " + format.MentionUser(targetID) + " - `" + targetID + "`"},
	}
	_, err = s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
	return err
}

func (s *Service) handleBLRConfig(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierSys, noticeDeniedSys); !ok {
		return err
	}
	v, err := s.viewGuild(ctx, ev.GuildID)
	if err != nil {
		return err
	}
	sess := s.sessions.Create(&session.Session{
		Kind:      session.KindBLRConfig,
		GuildID:   ev.GuildID,
		ActorID:   ev.Actor.ID,
		BLRMode:   session.BLRModeKeep,
		Pages:     session.Paginate(v.allRoleIDs(), session.PageSizeConfigRoles),
		ChannelID: ev.ChannelID,
	})
	if err := s.replySession(ctx, ev.Interaction, sess); err != nil {
		return err
	}
	s.audit.Emit(ctx, ev.GuildID, audit.Record{
		Title:   "BLR config panel opened",
		ActorID: ev.Actor.ID,
	})
	return nil
}

func (s *Service) handleSetLogsRole(ctx context.Context, ev gateway.CommandEvent) error {
	doc, err := s.store.Load(ev.GuildID)
	if err != nil {
		return err
	}
	if ok, err := s.requireTier(ctx, ev.Interaction, doc, hierarchy.TierSys, noticeDeniedSys); !ok {
		return err
	}
	oldID := doc.LogChannelID

	if ev.Options.HasOff && ev.Options.Off {
		if _, err := s.store.Update(ev.GuildID, func(d *store.Document) error {
			d.LogChannelID = ""
			return nil
		}); err != nil {
			return err
		}
		emb := s.baseEmbed()
		emb.Title = "Logs disabled"
		emb.Color = gateway.ColorYellow
		if _, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}}); err != nil {
			return err
		}
		// Last message to the outgoing channel.
		if oldID != "" {
			rec := audit.Record{
				Title:   "Log channel disabled",
				Color:   gateway.ColorYellow,
				GuildID: ev.GuildID,
				ActorID: ev.Actor.ID,
				Info:    "Previous: " + format.MentionChannel(oldID) + " (`" + oldID + "`)",
				At:      s.now(),
			}
			_ = audit.Deliver(ctx, s.msg, oldID, rec)
		}
		return nil
	}

	if ev.Options.ChannelID == "" {
		cur := format.None
		if oldID != "" {
			cur = format.MentionChannel(oldID) + " (`" + oldID + "`)"
		}
		emb := s.baseEmbed()
		emb.Title = "Logs"
		emb.Color = gateway.ColorBlurple
		emb.Description = "Current log channel: " + cur + "\n" +
			"Use `/setlogsrole channel:#channel` to set it, or `/setlogsrole off:true` to disable."
		_, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}})
		return err
	}

	channel, err := s.dir.Channel(ctx, ev.Options.ChannelID)
	if err != nil {
		return err
	}
	if channel.GuildID != ev.GuildID {
		return s.refuse(ctx, ev.Interaction, "The channel must belong to this guild.")
	}
	if channel.Kind != gateway.ChannelText {
		return s.refuse(ctx, ev.Interaction, "Pick a text channel.")
	}
	sendable, err := s.dir.ChannelSendable(ctx, channel.ID)
	if err != nil {
		return err
	}
	if !sendable {
		return s.refuse(ctx, ev.Interaction, "The bot cannot post embeds in that channel.")
	}

	if _, err := s.store.Update(ev.GuildID, func(d *store.Document) error {
		d.LogChannelID = channel.ID
		return nil
	}); err != nil {
		return err
	}

	old := format.None
	if oldID != "" {
		old = format.MentionChannel(oldID) + " (`" + oldID + "`)"
	}
	emb := s.baseEmbed()
	emb.Title = "Log channel set"
	emb.Color = gateway.ColorGreen
	emb.Fields = []gateway.EmbedField{
		{Name: "New", Value: format.MentionChannel(channel.ID) + " (`" + channel.ID + "`)", Inline: true},
		{Name: "Previous", Value: old, Inline: true},
	}
	if _, err := s.msg.Reply(ctx, ev.Interaction, gateway.Message{Embeds: []gateway.Embed{emb}}); err != nil {
		return err
	}
	s.audit.Emit(ctx, ev.GuildID, audit.Record{
		Title:   "Log channel updated",
		Color:   gateway.ColorYellow,
		ActorID: ev.Actor.ID,
		Info: "Previous: " + old + "\n" +
			"New: " + format.MentionChannel(channel.ID) + " (`" + channel.ID + "`)",
	})
	return nil
}

// auditRoleChange emits the shared roles-changed record; silent when the
// realized diff is empty.
func (s *Service) auditRoleChange(ctx context.Context, guildID, actorID, targetID string, added, removed []string, info string) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	color := gateway.ColorYellow
	switch {
	case len(added) > 0 && len(removed) == 0:
		color = gateway.ColorGreen
	case len(removed) > 0 && len(added) == 0:
		color = gateway.ColorRed
	}
	s.audit.Emit(ctx, guildID, audit.Record{
		Title:          "Roles changed",
		Color:          color,
		ActorID:        actorID,
		TargetID:       targetID,
		AddedRoleIDs:   added,
		RemovedRoleIDs: removed,
		Info:           info,
	})
}

// auditRoleMemberBulk emits the bulk member add/remove record for a role.
func (s *Service) auditRoleMemberBulk(ctx context.Context, guildID, actorID, roleID string, added, removed []string) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	color := gateway.ColorYellow
	switch {
	case len(added) > 0 && len(removed) == 0:
		color = gateway.ColorGreen
	case len(removed) > 0 && len(added) == 0:
		color = gateway.ColorRed
	}
	s.audit.Emit(ctx, guildID, audit.Record{
		Title:          "Role members changed",
		Color:          color,
		ActorID:        actorID,
		AddedUserIDs:   added,
		RemovedUserIDs: removed,
		Info:           "Role: " + format.MentionRole(roleID) + " (`" + roleID + "`)",
	})
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
