package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

func TestPermissionNames(t *testing.T) {
	names := permissionNames(discordgo.PermissionManageRoles | discordgo.PermissionKickMembers)
	assert.Equal(t, []string{"Manage Roles", "Kick Members"}, names)

	assert.Empty(t, permissionNames(0))
}

func TestToChannelKind(t *testing.T) {
	assert.Equal(t, gateway.ChannelText, toChannelKind(discordgo.ChannelTypeGuildText))
	assert.Equal(t, gateway.ChannelVoice, toChannelKind(discordgo.ChannelTypeGuildVoice))
	assert.Equal(t, gateway.ChannelCategory, toChannelKind(discordgo.ChannelTypeGuildCategory))
	assert.Equal(t, gateway.ChannelUnknown, toChannelKind(discordgo.ChannelTypeDM))
}

func TestToCommandEventSubcommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "edit",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "roles",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "u1"},
				},
			},
		},
	}

	ev := toCommandEvent(gateway.Interaction{ID: "i1", GuildID: "g1"}, data)

	assert.Equal(t, "edit", ev.Command)
	assert.Equal(t, "roles", ev.Subcommand)
	assert.Equal(t, "u1", ev.Options.UserID)
	assert.False(t, ev.Options.HasOff)
}

func TestToCommandEventBooleanOption(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "setlogsrole",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "off", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		},
	}

	ev := toCommandEvent(gateway.Interaction{ID: "i1"}, data)

	assert.True(t, ev.Options.HasOff)
	assert.True(t, ev.Options.Off)
	assert.Empty(t, ev.Options.ChannelID)
}

func TestToModalEvent(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "rk:mod:search:abc:0",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "q", Value: "alpha"},
			}},
		},
	}

	ev := toModalEvent(gateway.Interaction{ID: "i1"}, data)

	assert.Equal(t, "rk:mod:search:abc:0", ev.CustomID)
	assert.Equal(t, "alpha", ev.Fields["q"])
}

func TestToDiscordComponents(t *testing.T) {
	rows := []gateway.ActionRow{
		{Select: &gateway.SelectMenu{
			CustomID:  "sel",
			MaxValues: 3,
			Options:   []gateway.SelectOption{{Label: "alpha", Value: "r1", Default: true}},
		}},
		{Buttons: []gateway.Button{
			{CustomID: "b1", Label: "Back", Style: gateway.ButtonSecondary},
			{CustomID: "b2", Label: "BLR", Style: gateway.ButtonDanger, Disabled: true},
		}},
		{UserSelect: &gateway.UserSelect{CustomID: "us", MinValues: 1, MaxValues: 25}},
	}

	out := toDiscordComponents(rows)
	require.Len(t, out, 3)

	sel := out[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, discordgo.StringSelectMenu, sel.MenuType)
	assert.Equal(t, "sel", sel.CustomID)
	require.Len(t, sel.Options, 1)
	assert.True(t, sel.Options[0].Default)

	buttons := out[1].(discordgo.ActionsRow).Components
	require.Len(t, buttons, 2)
	assert.Equal(t, discordgo.SecondaryButton, buttons[0].(discordgo.Button).Style)
	assert.True(t, buttons[1].(discordgo.Button).Disabled)

	us := out[2].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, discordgo.UserSelectMenu, us.MenuType)
	require.NotNil(t, us.MinValues)
	assert.Equal(t, 1, *us.MinValues)
}

func TestToDiscordEmbedsFooterAndFields(t *testing.T) {
	out := toDiscordEmbeds([]gateway.Embed{{
		Title:      "Role added",
		Color:      gateway.ColorGreen,
		FooterText: "Role Manager",
		Fields:     []gateway.EmbedField{{Name: "Member", Value: "<@u1>", Inline: true}},
	}})

	require.Len(t, out, 1)
	require.NotNil(t, out[0].Footer)
	assert.Equal(t, "Role Manager", out[0].Footer.Text)
	require.Len(t, out[0].Fields, 1)
	assert.True(t, out[0].Fields[0].Inline)
	assert.Empty(t, out[0].Timestamp)
}
