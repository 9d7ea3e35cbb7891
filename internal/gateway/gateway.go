// Package gateway defines the narrow surface the bot needs from the chat
// platform. The engine only ever talks to these interfaces; the concrete
// client lives in the discord subpackage and the in-memory fake in
// gatewaytest.
package gateway

import "context"

// Directory reads guild state: members, roles, channels.
type Directory interface {
	Guild(ctx context.Context, guildID string) (Guild, error)
	Member(ctx context.Context, guildID, userID string) (Member, error)
	BotMember(ctx context.Context, guildID string) (Member, error)
	Roles(ctx context.Context, guildID string) ([]Role, error)
	Role(ctx context.Context, guildID, roleID string) (Role, error)
	RoleMembers(ctx context.Context, guildID, roleID string) ([]Member, error)
	Channel(ctx context.Context, channelID string) (Channel, error)
	// BotHasManageRoles reports whether the bot holds the manage-roles
	// permission in the guild.
	BotHasManageRoles(ctx context.Context, guildID string) (bool, error)
	// ChannelSendable reports whether the bot can post embeds in the channel.
	ChannelSendable(ctx context.Context, channelID string) (bool, error)
}

// RoleManager mutates a single role on a single member. Each call is
// independent; callers own batching and partial-failure handling.
type RoleManager interface {
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error
}

// Messenger delivers replies and edits messages in place.
type Messenger interface {
	// Reply answers an interaction with a visible message and returns its
	// location so sessions can edit it later.
	Reply(ctx context.Context, ic Interaction, msg Message) (SentMessage, error)
	// ReplyEphemeral answers with a transient notice only the actor sees.
	ReplyEphemeral(ctx context.Context, ic Interaction, content string) error
	// Update replaces the message the interacted component is attached to.
	Update(ctx context.Context, ic Interaction, msg Message) error
	// Ack acknowledges a component interaction without visible change.
	Ack(ctx context.Context, ic Interaction) error
	ShowModal(ctx context.Context, ic Interaction, modal Modal) error
	Edit(ctx context.Context, channelID, messageID string, msg Message) error
	Send(ctx context.Context, channelID string, msg Message) (SentMessage, error)
}

// EventSource produces the inbound event stream. Run blocks until the
// context is cancelled; Events is closed when Run returns.
type EventSource interface {
	Run(ctx context.Context) error
	Events() <-chan Event
}
