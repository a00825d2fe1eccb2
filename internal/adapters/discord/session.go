package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jsamuelsen/ewbot/internal/platform/logging"
)

// Session is the subset of *discordgo.Session the bot uses, so the router and
// registration can be exercised without a gateway connection.
type Session interface {
	// Open creates a websocket connection to Discord.
	Open() error

	// Close closes the websocket connection to Discord.
	Close() error

	// AddHandler adds a gateway event handler and returns a func that removes it.
	AddHandler(handler any) func()

	// User fetches a user; "@me" returns the bot user.
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)

	// ApplicationCommandBulkOverwrite replaces the application's commands.
	// An empty guildID registers them globally.
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)

	// InteractionRespond sends the single reply to an interaction.
	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error

	// InteractionResponseEdit replaces the content of a deferred reply.
	InteractionResponseEdit(
		interaction *discordgo.Interaction,
		newresp *discordgo.WebhookEdit,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

var _ Session = (*discordgo.Session)(nil)

// NewSession builds a bot session from a raw token. The "Bot " prefix is
// added when missing. Only the guilds intent is requested: slash commands
// arrive as interactions and need no message content.
func NewSession(token, logLevel string) (*discordgo.Session, error) {
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	s, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds
	s.LogLevel = discordLogLevel(logLevel)
	s.ShouldReconnectOnError = true

	return s, nil
}

func discordLogLevel(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return discordgo.LogDebug
	case "info":
		return discordgo.LogInformational
	case "error":
		return discordgo.LogError
	default:
		return discordgo.LogWarning
	}
}

var discordgoLevels = map[int]slog.Level{
	discordgo.LogDebug:         slog.LevelDebug,
	discordgo.LogInformational: slog.LevelInfo,
	discordgo.LogWarning:       slog.LevelWarn,
	discordgo.LogError:         slog.LevelError,
}

func libraryLevel(msgL int) slog.Level {
	if level, ok := discordgoLevels[msgL]; ok {
		return level
	}

	return slog.LevelInfo
}

// RouteLibraryLogs sends discordgo's internal log lines to logger instead of
// the standard library log package.
func RouteLibraryLogs(logger *slog.Logger) {
	discordgo.Logger = logging.LibraryLogFunc(logger.With(slog.String("component", "discordgo")), libraryLevel)
}
