package gateway

// Event is an inbound platform notification. The set of implementations is
// closed: Command, Component, ModalSubmit, MemberJoin, MemberUpdate.
type Event interface {
	isEvent()
}

// Interaction carries the identity shared by every user-initiated event.
// ID is unique per click/submission and is the deduplication key.
type Interaction struct {
	ID        string
	GuildID   string
	ChannelID string
	Actor     User
}

// CommandOptions holds the resolved options of a slash command invocation.
// Absent options are zero values; HasOff distinguishes off:false from unset.
type CommandOptions struct {
	UserID    string
	RoleID    string
	ChannelID string
	Off       bool
	HasOff    bool
}

// CommandEvent is a slash command invocation.
type CommandEvent struct {
	Interaction
	Command    string
	Subcommand string
	Options    CommandOptions
}

// ComponentType discriminates interactive component events.
type ComponentType int

const (
	ComponentButton ComponentType = iota + 1
	ComponentSelect
	ComponentUserSelect
)

// ComponentEvent is a button press or a (user-)select submission.
// MessageID points at the message the component is attached to.
type ComponentEvent struct {
	Interaction
	MessageID string
	CustomID  string
	Type      ComponentType
	Values    []string
}

// ModalSubmitEvent carries the filled fields of a modal dialog.
type ModalSubmitEvent struct {
	Interaction
	CustomID string
	Fields   map[string]string
}

// MemberJoinEvent fires when a user joins a guild.
type MemberJoinEvent struct {
	Member Member
}

// MemberUpdateEvent fires on any member change, including role grants made
// outside this bot. Member is the post-change state.
type MemberUpdateEvent struct {
	Member Member
}

func (CommandEvent) isEvent()      {}
func (ComponentEvent) isEvent()    {}
func (ModalSubmitEvent) isEvent()  {}
func (MemberJoinEvent) isEvent()   {}
func (MemberUpdateEvent) isEvent() {}
