package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/rolekeeper/rolekeeper/internal/gateway"
)

// Interaction tokens expire after fifteen minutes; tracked entries older
// than that are useless and get pruned.
const interactionTTL = 15 * time.Minute

type pendingInteraction struct {
	raw *discordgo.Interaction
	at  time.Time
}

// track remembers the raw interaction so Messenger calls, which only carry
// the gateway identity, can respond with the original token.
func (c *Client) track(i *discordgo.Interaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		c.pending = make(map[string]pendingInteraction)
	}
	now := time.Now()
	for id, p := range c.pending {
		if now.Sub(p.at) > interactionTTL {
			delete(c.pending, id)
		}
	}
	c.pending[i.ID] = pendingInteraction{raw: i, at: now}
}

func (c *Client) interaction(id string) (*discordgo.Interaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	if !ok {
		return nil, fmt.Errorf("discord: unknown interaction %s", id)
	}
	return p.raw, nil
}

func (c *Client) Reply(_ context.Context, ic gateway.Interaction, msg gateway.Message) (gateway.SentMessage, error) {
	raw, err := c.interaction(ic.ID)
	if err != nil {
		return gateway.SentMessage{}, err
	}
	err = c.session.InteractionRespond(raw, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    msg.Content,
			Embeds:     toDiscordEmbeds(msg.Embeds),
			Components: toDiscordComponents(msg.Components),
		},
	})
	if err != nil {
		return gateway.SentMessage{}, fmt.Errorf("discord: reply: %w", err)
	}
	sent, err := c.session.InteractionResponse(raw)
	if err != nil {
		return gateway.SentMessage{}, fmt.Errorf("discord: fetch reply: %w", err)
	}
	return gateway.SentMessage{ChannelID: sent.ChannelID, MessageID: sent.ID}, nil
}

func (c *Client) ReplyEphemeral(_ context.Context, ic gateway.Interaction, content string) error {
	raw, err := c.interaction(ic.ID)
	if err != nil {
		return err
	}
	err = c.session.InteractionRespond(raw, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("discord: ephemeral reply: %w", err)
	}
	return nil
}

func (c *Client) Update(_ context.Context, ic gateway.Interaction, msg gateway.Message) error {
	raw, err := c.interaction(ic.ID)
	if err != nil {
		return err
	}
	err = c.session.InteractionRespond(raw, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    msg.Content,
			Embeds:     toDiscordEmbeds(msg.Embeds),
			Components: toDiscordComponents(msg.Components),
		},
	})
	if err != nil {
		return fmt.Errorf("discord: update: %w", err)
	}
	return nil
}

func (c *Client) Ack(_ context.Context, ic gateway.Interaction) error {
	raw, err := c.interaction(ic.ID)
	if err != nil {
		return err
	}
	err = c.session.InteractionRespond(raw, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		return fmt.Errorf("discord: ack: %w", err)
	}
	return nil
}

func (c *Client) ShowModal(_ context.Context, ic gateway.Interaction, modal gateway.Modal) error {
	raw, err := c.interaction(ic.ID)
	if err != nil {
		return err
	}
	rows := make([]discordgo.MessageComponent, 0, len(modal.Inputs))
	for _, in := range modal.Inputs {
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{discordgo.TextInput{
				CustomID:  in.CustomID,
				Label:     in.Label,
				Style:     discordgo.TextInputShort,
				MinLength: in.MinLength,
				Required:  in.Required,
			}},
		})
	}
	err = c.session.InteractionRespond(raw, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   modal.CustomID,
			Title:      modal.Title,
			Components: rows,
		},
	})
	if err != nil {
		return fmt.Errorf("discord: show modal: %w", err)
	}
	return nil
}

func (c *Client) Edit(_ context.Context, channelID, messageID string, msg gateway.Message) error {
	embeds := toDiscordEmbeds(msg.Embeds)
	components := toDiscordComponents(msg.Components)
	_, err := c.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Content:    &msg.Content,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("discord: edit %s/%s: %w", channelID, messageID, err)
	}
	return nil
}

func (c *Client) Send(_ context.Context, channelID string, msg gateway.Message) (gateway.SentMessage, error) {
	sent, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Embeds:     toDiscordEmbeds(msg.Embeds),
		Components: toDiscordComponents(msg.Components),
	})
	if err != nil {
		return gateway.SentMessage{}, fmt.Errorf("discord: send to %s: %w", channelID, err)
	}
	return gateway.SentMessage{ChannelID: sent.ChannelID, MessageID: sent.ID}, nil
}
