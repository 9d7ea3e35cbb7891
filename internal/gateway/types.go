package gateway

// User identifies a platform account.
type User struct {
	ID       string
	Username string
	Bot      bool
}

// Member is a user's presence in a guild, including their role assignments.
type Member struct {
	GuildID  string
	UserID   string
	Username string
	RoleIDs  []string
}

// HasRole reports whether the member currently holds the given role.
func (m Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Role describes a guild role. Position is the hierarchy slot; higher wins.
type Role struct {
	ID          string
	GuildID     string
	Name        string
	Position    int
	Color       int
	Managed     bool
	Mentionable bool
	Hoist       bool
	Permissions []string
}

// Guild is the subset of guild metadata the bot needs. BaseRoleID is the
// implicit everyone-role, which on the platform shares the guild id.
type Guild struct {
	ID         string
	Name       string
	BaseRoleID string
}

// ChannelKind distinguishes the channel types the bot cares about.
type ChannelKind int

const (
	ChannelUnknown ChannelKind = iota
	ChannelText
	ChannelVoice
	ChannelCategory
)

// Channel describes a guild channel.
type Channel struct {
	ID      string
	GuildID string
	Name    string
	Kind    ChannelKind
}
