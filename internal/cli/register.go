package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/ewbot/internal/adapters/discord"
)

func newRegisterCommand(opts *options) *cobra.Command {
	var guildID string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Overwrite the bot's slash commands without connecting to the gateway",
		Long: "Overwrite the bot's slash commands through the REST API. Commands are\n" +
			"registered globally unless a guild is given, in which case they are\n" +
			"available there immediately.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			newLogger(cfg)

			if cmd.Flags().Changed("guild") {
				cfg.Discord.GuildID = guildID
			}

			session, err := opts.newSession(cfg.Discord.Token, cfg.Discord.LogLevel)
			if err != nil {
				return err
			}

			registered, err := discord.RegisterCommands(session, cfg.Discord.ApplicationID, cfg.Discord.GuildID)
			if err != nil {
				return err
			}

			scope := "globally"
			if cfg.Discord.GuildID != "" {
				scope = "in guild " + cfg.Discord.GuildID
			}

			for _, c := range registered {
				fmt.Fprintf(cmd.OutOrStdout(), "/%s\t%s\n", c.Name, c.Description)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %d commands %s\n", len(registered), scope)

			return nil
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "",
		"guild to register in, overriding discord.guild_id; empty registers globally")

	return cmd
}
