package logging

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Credential shapes the bot handles.
var (
	// Quote service and admin API credentials travel as "Token <key>".
	tokenAuthPattern = regexp.MustCompile(`(?i)^token\s+\S+$`)

	// Discord bot credentials travel as "Bot <token>".
	botAuthPattern = regexp.MustCompile(`^Bot\s+\S+$`)

	// A bare Discord bot token: base64 user id, timestamp and HMAC.
	discordTokenPattern = regexp.MustCompile(`^[A-Za-z\d_-]{24,}\.[A-Za-z\d_-]{6,7}\.[A-Za-z\d_-]{27,}$`)
)

// DefaultRedactOptions returns the masq options used by every handler. They
// cover the BOT_TOKEN, QS_TOKEN and ADMIN_TOKEN values, whether logged as
// attributes, config struct fields or authorization headers.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("token"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("bot_token"),
		masq.WithFieldName("qs_token"),
		masq.WithFieldName("admin_token"),
		masq.WithFieldName("AdminToken"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),

		masq.WithFieldPrefix("secret"),

		masq.WithRegex(tokenAuthPattern),
		masq.WithRegex(botAuthPattern),
		masq.WithRegex(discordTokenPattern),
	}
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions
// that redacts sensitive data.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}

// redactHandler applies a ReplaceAttr function in front of handlers that
// do not accept one, such as the charm pretty printer.
type redactHandler struct {
	next        slog.Handler
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	groups      []string
}

func newRedactHandler(next slog.Handler, replaceAttr func([]string, slog.Attr) slog.Attr) *redactHandler {
	return &redactHandler{next: next, replaceAttr: replaceAttr}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replaceAttr(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replaceAttr(h.groups, a)
	}

	return &redactHandler{next: h.next.WithAttrs(redacted), replaceAttr: h.replaceAttr, groups: h.groups}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string{}, h.groups...), name)
	return &redactHandler{next: h.next.WithGroup(name), replaceAttr: h.replaceAttr, groups: groups}
}
