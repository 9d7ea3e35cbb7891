package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// commandSet is the full slash-command surface, registered globally on
// startup via bulk overwrite.
var commandSet = []*discordgo.ApplicationCommand{
	{
		Name:        "help",
		Description: "Show what the bot does and who may use it",
	},
	{
		Name:        "edit",
		Description: "Interactive member editing",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "roles",
				Description: "Open the role editor panel for a member",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Member to edit",
						Required:    true,
					},
				},
			},
		},
	},
	{
		Name:        "role",
		Description: "Role inspection and membership management",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "info",
				Description: "Show details about a role",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to inspect",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "member",
				Description: "Manage which members hold a role",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to manage",
						Required:    true,
					},
				},
			},
		},
	},
	{
		Name:        "addrole",
		Description: "Grant a single role to a member",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Member to grant the role to",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "Role to grant",
				Required:    true,
			},
		},
	},
	{
		Name:        "sys",
		Description: "List or toggle SYS members",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Member to add or remove",
			},
		},
	},
	{
		Name:        "owner",
		Description: "List or toggle OWNER members",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Member to add or remove",
			},
		},
	},
	{
		Name:        "wl",
		Description: "List or toggle WL members",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Member to add or remove",
			},
		},
	},
	{
		Name:        "blackrole",
		Description: "Manage the role denylist",
	},
	{
		Name:        "blr",
		Description: "Put a member under the restricted rank",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Member to restrict",
				Required:    true,
			},
		},
	},
	{
		Name:        "unblr",
		Description: "Lift the restricted rank from a member",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Member to release",
				Required:    true,
			},
		},
	},
	{
		Name:        "blrconfig",
		Description: "Configure the kept and assigned roles of the restricted rank",
	},
	{
		Name:        "setlogsrole",
		Description: "Set, show or disable the audit log channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel to receive audit embeds",
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "off",
				Description: "Disable audit logging",
			},
		},
	},
}

func (c *Client) registerCommands() error {
	appID := c.session.State.User.ID
	if c.session.State.Application != nil {
		appID = c.session.State.Application.ID
	}
	_, err := c.session.ApplicationCommandBulkOverwrite(appID, "", commandSet)
	if err != nil {
		return fmt.Errorf("discord: register commands: %w", err)
	}
	return nil
}
