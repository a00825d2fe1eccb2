package discord

import (
	"strings"
	"unicode/utf8"

	"github.com/jsamuelsen/ewbot/internal/domain"
	"github.com/jsamuelsen/ewbot/internal/platform/telemetry"
)

// Fixed reply texts.
const (
	MsgMaintenance    = "The bot is currently in maintenance mode. Please try again later."
	MsgGenericFailure = "Terribly sorry. An error has occurred requesting data from the server. Please try again later."
	MsgUnknownCommand = "Sorry, I don't know that command."
	MsgCharacterList  = "The following characters were found:"
)

// maxMessageLength is Discord's limit for message content.
const maxMessageLength = 2000

// Reply is one interaction response.
type Reply struct {
	Content   string
	Ephemeral bool

	// Outcome labels the command metric.
	Outcome string
}

// Presenter renders use-case results and errors as chat replies.
type Presenter struct {
	group string
}

// NewPresenter creates a presenter for the given quote-service group.
func NewPresenter(group string) *Presenter {
	return &Presenter{group: group}
}

// Maintenance is the ephemeral notice sent instead of running any command.
func (p *Presenter) Maintenance() Reply {
	return Reply{Content: MsgMaintenance, Ephemeral: true, Outcome: telemetry.OutcomeMaintenance}
}

// UnknownCommand answers an interaction for a command the bot does not serve.
func (p *Presenter) UnknownCommand() Reply {
	return Reply{Content: MsgUnknownCommand, Ephemeral: true, Outcome: telemetry.OutcomeUnknown}
}

// Characters lists each character as "{name}: {short name}".
func (p *Presenter) Characters(sources []domain.Source) Reply {
	var b strings.Builder

	b.WriteString(MsgCharacterList)

	for _, s := range sources {
		b.WriteString("\n")
		b.WriteString(s.Name)
		b.WriteString(": ")
		b.WriteString(s.ShortName(p.group))
	}

	return ok(b.String())
}

// CharactersError renders a failed listing. The remote message is never shown.
func (p *Presenter) CharactersError(error) Reply {
	return Reply{Content: MsgGenericFailure, Outcome: telemetry.OutcomeError}
}

// Quote renders "> {quote}\n> {attribution}".
func (p *Presenter) Quote(q *domain.Quote) Reply {
	return ok("> " + q.Text + "\n> " + q.Attribution())
}

// QuoteError renders a failed random_quote.
func (p *Presenter) QuoteError(err error, character string) Reply {
	return p.failure(err, character, "The following error occurred: ")
}

// Sentence renders a generated sentence. A character's sentence is signed
// "> ---{character}Bot"; a group sentence " ---{GROUP}Bot".
func (p *Presenter) Sentence(s *domain.Sentence, character string) Reply {
	if character != "" {
		return ok("> " + s.Text + "\n> ---" + character + "Bot")
	}

	return ok("> " + s.Text + "\n ---" + strings.ToUpper(p.group) + "Bot")
}

// SentenceError renders a failed generate_sentence.
func (p *Presenter) SentenceError(err error, character string) Reply {
	return p.failure(err, character, "Error: ")
}

// failure picks the not-found text for unknown characters, the remote
// service's own message when it sent one, and the generic text otherwise.
func (p *Presenter) failure(err error, character, prefix string) Reply {
	if character != "" && domain.IsNotFound(err) {
		return Reply{Content: NotFoundMessage(character), Outcome: telemetry.OutcomeNotFound}
	}

	if msg, found := domain.RemoteMessage(err); found {
		return Reply{Content: fit(prefix + msg), Outcome: telemetry.OutcomeError}
	}

	return Reply{Content: MsgGenericFailure, Outcome: telemetry.OutcomeError}
}

// NotFoundMessage is sent when a character's slug does not exist.
func NotFoundMessage(character string) string {
	return character + " not found! Did you spell it correctly? You can use /" +
		CommandListCharacters + " to see valid options."
}

func ok(content string) Reply {
	return Reply{Content: fit(content), Outcome: telemetry.OutcomeOK}
}

// fit truncates content to Discord's message limit.
func fit(content string) string {
	if utf8.RuneCountInString(content) <= maxMessageLength {
		return content
	}

	runes := []rune(content)

	return string(runes[:maxMessageLength-1]) + "…"
}
