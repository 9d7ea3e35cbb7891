// Package gatewaytest provides an in-memory platform fake for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

// Fake implements gateway.Directory, gateway.RoleManager and
// gateway.Messenger against in-memory state. Role mutations can be made to
// fail per (userID, roleID) pair to exercise partial-failure paths.
type Fake struct {
	mu sync.Mutex

	Guilds   map[string]gateway.Guild
	Members  map[string]map[string]*gateway.Member // guildID -> userID
	GuildRls map[string]map[string]gateway.Role    // guildID -> roleID
	Channels map[string]gateway.Channel
	BotID    string

	ManageRoles bool
	Unsendable  map[string]bool // channelID -> bot cannot post

	FailAdd    map[string]error // "userID/roleID" -> injected error
	FailRemove map[string]error

	// Outbound traffic, in order of occurrence.
	Replies    []Sent
	Ephemerals []string
	Updates    []Sent
	Edits      []Sent
	Sends      []Sent
	Modals     []gateway.Modal
	Acks       int

	nextMessageID int
}

// Sent pairs a delivered message with its destination.
type Sent struct {
	ChannelID string
	MessageID string
	Message   gateway.Message
}

// New returns an empty fake with manage-roles granted.
func New() *Fake {
	return &Fake{
		Guilds:      make(map[string]gateway.Guild),
		Members:     make(map[string]map[string]*gateway.Member),
		GuildRls:    make(map[string]map[string]gateway.Role),
		Channels:    make(map[string]gateway.Channel),
		ManageRoles: true,
		Unsendable:  make(map[string]bool),
		FailAdd:     make(map[string]error),
		FailRemove:  make(map[string]error),
		BotID:       "bot",
	}
}

// SeedGuild registers a guild and the bot's membership in it.
func (f *Fake) SeedGuild(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Guilds[id] = gateway.Guild{ID: id, Name: name, BaseRoleID: id}
	if f.Members[id] == nil {
		f.Members[id] = make(map[string]*gateway.Member)
	}
	if f.GuildRls[id] == nil {
		f.GuildRls[id] = make(map[string]gateway.Role)
	}
	f.Members[id][f.BotID] = &gateway.Member{GuildID: id, UserID: f.BotID, Username: "rolekeeper"}
}

// SeedRole registers a role in the guild.
func (f *Fake) SeedRole(guildID string, r gateway.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.GuildID = guildID
	f.GuildRls[guildID][r.ID] = r
}

// SeedMember registers a member holding the given roles. Seeding the bot's
// own user id replaces the default empty bot membership.
func (f *Fake) SeedMember(guildID, userID, username string, roleIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Members[guildID][userID] = &gateway.Member{
		GuildID:  guildID,
		UserID:   userID,
		Username: username,
		RoleIDs:  append([]string(nil), roleIDs...),
	}
}

// SeedChannel registers a channel.
func (f *Fake) SeedChannel(c gateway.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Channels[c.ID] = c
}

// MemberRoles returns a copy of the member's current role ids, sorted.
func (f *Fake) MemberRoles(guildID, userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[guildID][userID]
	if !ok {
		return nil
	}
	out := append([]string(nil), m.RoleIDs...)
	sort.Strings(out)
	return out
}

func failKey(userID, roleID string) string { return userID + "/" + roleID }

// Directory

func (f *Fake) Guild(_ context.Context, guildID string) (gateway.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.Guilds[guildID]
	if !ok {
		return gateway.Guild{}, fmt.Errorf("gatewaytest: unknown guild %s", guildID)
	}
	return g, nil
}

func (f *Fake) Member(_ context.Context, guildID, userID string) (gateway.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[guildID][userID]
	if !ok {
		return gateway.Member{}, fmt.Errorf("gatewaytest: unknown member %s", userID)
	}
	cp := *m
	cp.RoleIDs = append([]string(nil), m.RoleIDs...)
	return cp, nil
}

func (f *Fake) BotMember(ctx context.Context, guildID string) (gateway.Member, error) {
	return f.Member(ctx, guildID, f.BotID)
}

func (f *Fake) Roles(_ context.Context, guildID string) ([]gateway.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Deliberately unordered, like the live listing endpoint; callers own
	// any ordering they need.
	roles := make([]gateway.Role, 0, len(f.GuildRls[guildID]))
	for _, r := range f.GuildRls[guildID] {
		roles = append(roles, r)
	}
	return roles, nil
}

func (f *Fake) Role(_ context.Context, guildID, roleID string) (gateway.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.GuildRls[guildID][roleID]
	if !ok {
		return gateway.Role{}, fmt.Errorf("gatewaytest: unknown role %s", roleID)
	}
	return r, nil
}

func (f *Fake) RoleMembers(_ context.Context, guildID, roleID string) ([]gateway.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []gateway.Member
	for _, m := range f.Members[guildID] {
		cp := *m
		cp.RoleIDs = append([]string(nil), m.RoleIDs...)
		if cp.HasRole(roleID) {
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *Fake) Channel(_ context.Context, channelID string) (gateway.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Channels[channelID]
	if !ok {
		return gateway.Channel{}, fmt.Errorf("gatewaytest: unknown channel %s", channelID)
	}
	return c, nil
}

func (f *Fake) BotHasManageRoles(context.Context, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ManageRoles, nil
}

func (f *Fake) ChannelSendable(_ context.Context, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.Unsendable[channelID], nil
}

// RoleManager

func (f *Fake) AddRole(_ context.Context, guildID, userID, roleID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailAdd[failKey(userID, roleID)]; err != nil {
		return err
	}
	m, ok := f.Members[guildID][userID]
	if !ok {
		return fmt.Errorf("gatewaytest: unknown member %s", userID)
	}
	if !m.HasRole(roleID) {
		m.RoleIDs = append(m.RoleIDs, roleID)
	}
	return nil
}

func (f *Fake) RemoveRole(_ context.Context, guildID, userID, roleID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.FailRemove[failKey(userID, roleID)]; err != nil {
		return err
	}
	m, ok := f.Members[guildID][userID]
	if !ok {
		return fmt.Errorf("gatewaytest: unknown member %s", userID)
	}
	kept := m.RoleIDs[:0]
	for _, id := range m.RoleIDs {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	m.RoleIDs = kept
	return nil
}

// Messenger

func (f *Fake) Reply(_ context.Context, ic gateway.Interaction, msg gateway.Message) (gateway.SentMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessageID++
	id := fmt.Sprintf("m%d", f.nextMessageID)
	f.Replies = append(f.Replies, Sent{ChannelID: ic.ChannelID, MessageID: id, Message: msg})
	return gateway.SentMessage{ChannelID: ic.ChannelID, MessageID: id}, nil
}

func (f *Fake) ReplyEphemeral(_ context.Context, _ gateway.Interaction, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Ephemerals = append(f.Ephemerals, content)
	return nil
}

func (f *Fake) Update(_ context.Context, ic gateway.Interaction, msg gateway.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updates = append(f.Updates, Sent{ChannelID: ic.ChannelID, Message: msg})
	return nil
}

func (f *Fake) Ack(context.Context, gateway.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Acks++
	return nil
}

func (f *Fake) ShowModal(_ context.Context, _ gateway.Interaction, modal gateway.Modal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Modals = append(f.Modals, modal)
	return nil
}

func (f *Fake) Edit(_ context.Context, channelID, messageID string, msg gateway.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits = append(f.Edits, Sent{ChannelID: channelID, MessageID: messageID, Message: msg})
	return nil
}

func (f *Fake) Send(_ context.Context, channelID string, msg gateway.Message) (gateway.SentMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessageID++
	id := fmt.Sprintf("m%d", f.nextMessageID)
	f.Sends = append(f.Sends, Sent{ChannelID: channelID, MessageID: id, Message: msg})
	return gateway.SentMessage{ChannelID: channelID, MessageID: id}, nil
}

// LastEphemeral returns the most recent transient notice, or "".
func (f *Fake) LastEphemeral() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Ephemerals) == 0 {
		return ""
	}
	return f.Ephemerals[len(f.Ephemerals)-1]
}
