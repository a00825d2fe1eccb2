package discordtest

import (
	"strconv"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

var interactionSeq atomic.Int64

// CommandInteraction builds a guild slash-command interaction. A non-empty
// character is sent as the "character" string option. IDs are unique per call.
func CommandInteraction(name, character string) *discordgo.InteractionCreate {
	data := discordgo.ApplicationCommandInteractionData{Name: name}

	if character != "" {
		data.Options = []*discordgo.ApplicationCommandInteractionDataOption{{
			Name:  "character",
			Type:  discordgo.ApplicationCommandOptionString,
			Value: character,
		}}
	}

	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      strconv.FormatInt(1234567890+interactionSeq.Add(1), 10),
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "guild-1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "user-1"}},
		Data:    data,
	}}
}
