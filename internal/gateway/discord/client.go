// Package discord implements the gateway interfaces on top of discordgo.
// Everything platform-specific stays behind this package; the engine only
// sees the gateway types.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

// Client wraps a discordgo session. It implements gateway.Directory,
// gateway.RoleManager, gateway.Messenger and gateway.EventSource.
type Client struct {
	session *discordgo.Session
	events  chan gateway.Event
	log     *slog.Logger

	mu      sync.Mutex
	pending map[string]pendingInteraction
}

// New builds a client for the given bot token. The session is not opened
// until Run.
func New(token string, log *slog.Logger) (*Client, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: new session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	s.StateEnabled = true

	c := &Client{
		session: s,
		events:  make(chan gateway.Event, 64),
		log:     log,
	}
	s.AddHandler(c.onInteraction)
	s.AddHandler(c.onMemberAdd)
	s.AddHandler(c.onMemberUpdate)
	return c, nil
}

// Run opens the gateway connection and blocks until the context is
// cancelled. The event channel is closed on return.
func (c *Client) Run(ctx context.Context) error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("discord: open: %w", err)
	}
	c.log.Info("gateway connected", slog.String("user", c.session.State.User.Username))
	if err := c.registerCommands(); err != nil {
		_ = c.session.Close()
		close(c.events)
		return err
	}
	<-ctx.Done()
	err := c.session.Close()
	close(c.events)
	if err != nil {
		return fmt.Errorf("discord: close: %w", err)
	}
	return ctx.Err()
}

// Events returns the inbound event stream.
func (c *Client) Events() <-chan gateway.Event {
	return c.events
}

func (c *Client) emit(ev gateway.Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn("event buffer full, dropping event")
	}
}

func (c *Client) onMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	c.emit(gateway.MemberJoinEvent{Member: toMember(m.GuildID, m.Member)})
}

func (c *Client) onMemberUpdate(_ *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	c.emit(gateway.MemberUpdateEvent{Member: toMember(m.GuildID, m.Member)})
}

// ---- gateway.Directory ----

func (c *Client) Guild(_ context.Context, guildID string) (gateway.Guild, error) {
	g, err := c.session.State.Guild(guildID)
	if err != nil {
		g, err = c.session.Guild(guildID)
		if err != nil {
			return gateway.Guild{}, fmt.Errorf("discord: guild %s: %w", guildID, err)
		}
	}
	return gateway.Guild{ID: g.ID, Name: g.Name, BaseRoleID: g.ID}, nil
}

func (c *Client) Member(_ context.Context, guildID, userID string) (gateway.Member, error) {
	m, err := c.session.State.Member(guildID, userID)
	if err != nil {
		m, err = c.session.GuildMember(guildID, userID)
		if err != nil {
			return gateway.Member{}, fmt.Errorf("discord: member %s: %w", userID, err)
		}
	}
	return toMember(guildID, m), nil
}

func (c *Client) BotMember(ctx context.Context, guildID string) (gateway.Member, error) {
	return c.Member(ctx, guildID, c.session.State.User.ID)
}

func (c *Client) Roles(_ context.Context, guildID string) ([]gateway.Role, error) {
	roles, err := c.session.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("discord: roles of %s: %w", guildID, err)
	}
	out := make([]gateway.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRole(guildID, r))
	}
	return out, nil
}

func (c *Client) Role(ctx context.Context, guildID, roleID string) (gateway.Role, error) {
	roles, err := c.Roles(ctx, guildID)
	if err != nil {
		return gateway.Role{}, err
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return gateway.Role{}, fmt.Errorf("discord: role %s not found in %s", roleID, guildID)
}

// RoleMembers walks the member list via pagination; the state cache is only
// complete when the guild finished chunking, which is not guaranteed.
func (c *Client) RoleMembers(_ context.Context, guildID, roleID string) ([]gateway.Member, error) {
	var out []gateway.Member
	after := ""
	for {
		batch, err := c.session.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, fmt.Errorf("discord: members of %s: %w", guildID, err)
		}
		if len(batch) == 0 {
			return out, nil
		}
		for _, m := range batch {
			gm := toMember(guildID, m)
			if gm.HasRole(roleID) {
				out = append(out, gm)
			}
		}
		after = batch[len(batch)-1].User.ID
		if len(batch) < 1000 {
			return out, nil
		}
	}
}

func (c *Client) Channel(_ context.Context, channelID string) (gateway.Channel, error) {
	ch, err := c.session.State.Channel(channelID)
	if err != nil {
		ch, err = c.session.Channel(channelID)
		if err != nil {
			return gateway.Channel{}, fmt.Errorf("discord: channel %s: %w", channelID, err)
		}
	}
	return gateway.Channel{
		ID:      ch.ID,
		GuildID: ch.GuildID,
		Name:    ch.Name,
		Kind:    toChannelKind(ch.Type),
	}, nil
}

func (c *Client) BotHasManageRoles(ctx context.Context, guildID string) (bool, error) {
	bot, err := c.BotMember(ctx, guildID)
	if err != nil {
		return false, err
	}
	roles, err := c.session.GuildRoles(guildID)
	if err != nil {
		return false, fmt.Errorf("discord: roles of %s: %w", guildID, err)
	}
	var perms int64
	for _, r := range roles {
		if r.ID == guildID || bot.HasRole(r.ID) {
			perms |= r.Permissions
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true, nil
	}
	return perms&discordgo.PermissionManageRoles != 0, nil
}

func (c *Client) ChannelSendable(_ context.Context, channelID string) (bool, error) {
	perms, err := c.session.UserChannelPermissions(c.session.State.User.ID, channelID)
	if err != nil {
		return false, fmt.Errorf("discord: channel permissions %s: %w", channelID, err)
	}
	need := int64(discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks)
	return perms&need == need, nil
}

// ---- gateway.RoleManager ----

func (c *Client) AddRole(_ context.Context, guildID, userID, roleID, reason string) error {
	err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	if err != nil {
		return fmt.Errorf("discord: add role %s to %s: %w", roleID, userID, err)
	}
	return nil
}

func (c *Client) RemoveRole(_ context.Context, guildID, userID, roleID, reason string) error {
	err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	if err != nil {
		return fmt.Errorf("discord: remove role %s from %s: %w", roleID, userID, err)
	}
	return nil
}
