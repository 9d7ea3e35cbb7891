package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

func toMember(guildID string, m *discordgo.Member) gateway.Member {
	out := gateway.Member{
		GuildID: guildID,
		RoleIDs: m.Roles,
	}
	if m.User != nil {
		out.UserID = m.User.ID
		out.Username = m.User.Username
	}
	return out
}

func toUser(u *discordgo.User) gateway.User {
	if u == nil {
		return gateway.User{}
	}
	return gateway.User{ID: u.ID, Username: u.Username, Bot: u.Bot}
}

func toRole(guildID string, r *discordgo.Role) gateway.Role {
	return gateway.Role{
		ID:          r.ID,
		GuildID:     guildID,
		Name:        r.Name,
		Position:    r.Position,
		Color:       r.Color,
		Managed:     r.Managed,
		Mentionable: r.Mentionable,
		Hoist:       r.Hoist,
		Permissions: permissionNames(r.Permissions),
	}
}

func toChannelKind(t discordgo.ChannelType) gateway.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return gateway.ChannelText
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return gateway.ChannelVoice
	case discordgo.ChannelTypeGuildCategory:
		return gateway.ChannelCategory
	default:
		return gateway.ChannelUnknown
	}
}

// permissionBits lists the named permission flags shown in role info, in
// display order.
var permissionBits = []struct {
	bit  int64
	name string
}{
	{discordgo.PermissionAdministrator, "Administrator"},
	{discordgo.PermissionManageServer, "Manage Server"},
	{discordgo.PermissionManageRoles, "Manage Roles"},
	{discordgo.PermissionManageChannels, "Manage Channels"},
	{discordgo.PermissionManageMessages, "Manage Messages"},
	{discordgo.PermissionManageWebhooks, "Manage Webhooks"},
	{discordgo.PermissionManageNicknames, "Manage Nicknames"},
	{discordgo.PermissionKickMembers, "Kick Members"},
	{discordgo.PermissionBanMembers, "Ban Members"},
	{discordgo.PermissionModerateMembers, "Timeout Members"},
	{discordgo.PermissionMentionEveryone, "Mention Everyone"},
	{discordgo.PermissionViewAuditLogs, "View Audit Log"},
	{discordgo.PermissionVoiceMuteMembers, "Mute Members"},
	{discordgo.PermissionVoiceDeafenMembers, "Deafen Members"},
	{discordgo.PermissionVoiceMoveMembers, "Move Members"},
}

func permissionNames(perms int64) []string {
	var names []string
	for _, p := range permissionBits {
		if perms&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	return names
}

func toDiscordEmbeds(embeds []gateway.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		de := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		if e.FooterText != "" {
			de.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText}
		}
		if !e.Timestamp.IsZero() {
			de.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
		}
		for _, f := range e.Fields {
			de.Fields = append(de.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		out = append(out, de)
	}
	return out
}

func toDiscordComponents(rows []gateway.ActionRow) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		var inner []discordgo.MessageComponent
		switch {
		case row.Select != nil:
			inner = append(inner, toDiscordSelect(row.Select))
		case row.UserSelect != nil:
			inner = append(inner, toDiscordUserSelect(row.UserSelect))
		default:
			for _, b := range row.Buttons {
				inner = append(inner, toDiscordButton(b))
			}
		}
		out = append(out, discordgo.ActionsRow{Components: inner})
	}
	return out
}

func toDiscordSelect(sel *gateway.SelectMenu) discordgo.SelectMenu {
	minValues := sel.MinValues
	opts := make([]discordgo.SelectMenuOption, 0, len(sel.Options))
	for _, o := range sel.Options {
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       o.Label,
			Value:       o.Value,
			Description: o.Description,
			Default:     o.Default,
		})
	}
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    sel.CustomID,
		Placeholder: sel.Placeholder,
		MinValues:   &minValues,
		MaxValues:   sel.MaxValues,
		Disabled:    sel.Disabled,
		Options:     opts,
	}
}

func toDiscordUserSelect(sel *gateway.UserSelect) discordgo.SelectMenu {
	minValues := sel.MinValues
	return discordgo.SelectMenu{
		MenuType:    discordgo.UserSelectMenu,
		CustomID:    sel.CustomID,
		Placeholder: sel.Placeholder,
		MinValues:   &minValues,
		MaxValues:   sel.MaxValues,
	}
}

func toDiscordButton(b gateway.Button) discordgo.Button {
	return discordgo.Button{
		CustomID: b.CustomID,
		Label:    b.Label,
		Style:    discordgo.ButtonStyle(b.Style),
		Disabled: b.Disabled,
		URL:      b.URL,
	}
}
