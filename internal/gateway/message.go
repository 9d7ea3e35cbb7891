package gateway

import "time"

// Embed colors used across replies and audit records.
const (
	ColorBlurple = 0x5865F2
	ColorGreen   = 0x57F287
	ColorRed     = 0xED4245
	ColorYellow  = 0xFEE75C
	ColorPurple  = 0x9B59B6
	ColorDark    = 0x2F3136
	ColorBlack   = 0x000000
)

// Message is an outbound message payload: plain content, rich embeds, and
// interactive component rows.
type Message struct {
	Content    string
	Embeds     []Embed
	Components []ActionRow
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	FooterText  string
	Timestamp   time.Time
}

// EmbedField is a titled section inside an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// ActionRow holds at most one select menu or up to five buttons.
type ActionRow struct {
	Select     *SelectMenu
	UserSelect *UserSelect
	Buttons    []Button
}

// SelectMenu is a string select component.
type SelectMenu struct {
	CustomID    string
	Placeholder string
	MinValues   int
	MaxValues   int
	Disabled    bool
	Options     []SelectOption
}

// SelectOption is one entry of a select menu. Default marks it pre-checked.
type SelectOption struct {
	Label       string
	Value       string
	Description string
	Default     bool
}

// UserSelect is a platform-populated member picker.
type UserSelect struct {
	CustomID    string
	Placeholder string
	MinValues   int
	MaxValues   int
}

// ButtonStyle mirrors the platform button styles.
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
	ButtonLink
)

// Button is a clickable component. URL is only set for link buttons.
type Button struct {
	CustomID string
	Label    string
	Style    ButtonStyle
	Disabled bool
	URL      string
}

// Modal is a text-input dialog shown in response to a component press.
type Modal struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

// TextInput is a single-line modal field.
type TextInput struct {
	CustomID  string
	Label     string
	MinLength int
	Required  bool
}

// SentMessage locates a message the bot has produced, for later in-place edits.
type SentMessage struct {
	ChannelID string
	MessageID string
}
