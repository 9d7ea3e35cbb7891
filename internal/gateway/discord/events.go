package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

func (c *Client) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return
	}
	c.track(i.Interaction)

	base := gateway.Interaction{
		ID:        i.ID,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Actor:     toUser(i.Member.User),
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		c.emit(toCommandEvent(base, i.ApplicationCommandData()))
	case discordgo.InteractionMessageComponent:
		ev, ok := toComponentEvent(base, i)
		if !ok {
			c.log.Debug("unsupported component type", slog.String("id", i.ID))
			return
		}
		c.emit(ev)
	case discordgo.InteractionModalSubmit:
		c.emit(toModalEvent(base, i.ModalSubmitData()))
	}
}

func toCommandEvent(base gateway.Interaction, data discordgo.ApplicationCommandInteractionData) gateway.CommandEvent {
	ev := gateway.CommandEvent{Interaction: base, Command: data.Name}
	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		ev.Subcommand = opts[0].Name
		opts = opts[0].Options
	}
	for _, o := range opts {
		switch o.Type {
		case discordgo.ApplicationCommandOptionUser:
			ev.Options.UserID = o.UserValue(nil).ID
		case discordgo.ApplicationCommandOptionRole:
			ev.Options.RoleID = o.RoleValue(nil, "").ID
		case discordgo.ApplicationCommandOptionChannel:
			ev.Options.ChannelID = o.ChannelValue(nil).ID
		case discordgo.ApplicationCommandOptionBoolean:
			ev.Options.Off = o.BoolValue()
			ev.Options.HasOff = true
		}
	}
	return ev
}

func toComponentEvent(base gateway.Interaction, i *discordgo.InteractionCreate) (gateway.ComponentEvent, bool) {
	data := i.MessageComponentData()
	ev := gateway.ComponentEvent{
		Interaction: base,
		CustomID:    data.CustomID,
		Values:      data.Values,
	}
	if i.Message != nil {
		ev.MessageID = i.Message.ID
	}
	switch data.ComponentType {
	case discordgo.ButtonComponent:
		ev.Type = gateway.ComponentButton
	case discordgo.SelectMenuComponent:
		ev.Type = gateway.ComponentSelect
	case discordgo.UserSelectMenuComponent:
		ev.Type = gateway.ComponentUserSelect
	default:
		return gateway.ComponentEvent{}, false
	}
	return ev, true
}

func toModalEvent(base gateway.Interaction, data discordgo.ModalSubmitInteractionData) gateway.ModalSubmitEvent {
	ev := gateway.ModalSubmitEvent{
		Interaction: base,
		CustomID:    data.CustomID,
		Fields:      make(map[string]string),
	}
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if ti, ok := comp.(*discordgo.TextInput); ok {
				ev.Fields[ti.CustomID] = ti.Value
			}
		}
	}
	return ev
}
