package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Slash command names.
const (
	CommandListCharacters   = "listew"
	CommandRandomQuote      = "random_quote"
	CommandGenerateSentence = "generate_sentence"
)

// optionCharacter is the optional character argument of random_quote and generate_sentence.
const optionCharacter = "character"

// Commands returns the slash command definitions the bot serves.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandListCharacters,
			Description: "List available characters to query.",
		},
		{
			Name:        CommandRandomQuote,
			Description: "Get a random quote",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionCharacter,
					Description: "Optional: The specific character you want a quote from.",
					Required:    false,
				},
			},
		},
		{
			Name:        CommandGenerateSentence,
			Description: "Bot generated sentence based on existing quotes.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionCharacter,
					Description: "Optional: base this on a specified character.",
					Required:    false,
				},
			},
		},
	}
}

// RegisterCommands replaces the application's slash commands with Commands().
// An empty appID is resolved from the bot user; an empty guildID registers
// globally.
func RegisterCommands(s Session, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	if appID == "" {
		me, err := s.User("@me")
		if err != nil {
			return nil, fmt.Errorf("resolving application id: %w", err)
		}

		appID = me.ID
	}

	registered, err := s.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return nil, fmt.Errorf("registering commands: %w", err)
	}

	return registered, nil
}

// characterOption returns the character argument, or "" when it was omitted.
func characterOption(data discordgo.ApplicationCommandInteractionData) string {
	for _, opt := range data.Options {
		if opt.Name == optionCharacter && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}

	return ""
}
