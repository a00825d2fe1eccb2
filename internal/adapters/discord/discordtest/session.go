// Package discordtest provides an in-memory Discord session for tests.
// It records every reply the bot sends and lets tests emit gateway events
// to the registered handlers.
package discordtest

import (
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrTimeout is returned by WaitForReplies when too few replies arrived.
var ErrTimeout = errors.New("discordtest: timed out waiting for replies")

// Overwrite is one ApplicationCommandBulkOverwrite call.
type Overwrite struct {
	AppID    string
	GuildID  string
	Commands []*discordgo.ApplicationCommand
}

// Reply is what a user would see for one interaction: the final content and
// whether it was ephemeral or delivered through a deferred edit.
type Reply struct {
	InteractionID string
	Content       string
	Ephemeral     bool
	Deferred      bool
}

// Session implements the bot's Session interface without a network.
// Set the exported error fields before use to simulate failures.
type Session struct {
	Me           *discordgo.User
	OpenErr      error
	CloseErr     error
	RespondErr   error
	OverwriteErr error

	mu       sync.Mutex
	changed  *sync.Cond
	handlers map[int]any
	nextID   int
	removed  int

	responses  []*discordgo.InteractionResponse
	edits      []*discordgo.WebhookEdit
	replies    []Reply
	overwrites []Overwrite
	opened     bool
	closed     bool
}

// NewSession returns a session whose bot user is "ewbot" with ID "app-from-me".
func NewSession() *Session {
	s := &Session{
		Me:       &discordgo.User{ID: "app-from-me", Username: "ewbot"},
		handlers: make(map[int]any),
	}
	s.changed = sync.NewCond(&s.mu)

	return s
}

// Open marks the session open.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opened = s.OpenErr == nil

	return s.OpenErr
}

// Close marks the session closed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return s.CloseErr
}

// AddHandler stores handler until the returned func is called.
func (s *Session) AddHandler(handler any) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = handler

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.handlers[id]; ok {
			delete(s.handlers, id)
			s.removed++
		}
	}
}

// User returns Me for any id.
func (s *Session) User(string, ...discordgo.RequestOption) (*discordgo.User, error) {
	return s.Me, nil
}

// ApplicationCommandBulkOverwrite records the call and echoes the commands.
func (s *Session) ApplicationCommandBulkOverwrite(
	appID, guildID string,
	commands []*discordgo.ApplicationCommand,
	_ ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.OverwriteErr != nil {
		return nil, s.OverwriteErr
	}

	s.overwrites = append(s.overwrites, Overwrite{AppID: appID, GuildID: guildID, Commands: commands})

	return commands, nil
}

// InteractionRespond records the response. A deferred acknowledgement is
// not a reply by itself; the following edit completes it.
func (s *Session) InteractionRespond(
	i *discordgo.Interaction,
	resp *discordgo.InteractionResponse,
	_ ...discordgo.RequestOption,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.responses = append(s.responses, resp)

	if resp.Type == discordgo.InteractionResponseChannelMessageWithSource && resp.Data != nil {
		s.replies = append(s.replies, Reply{
			InteractionID: i.ID,
			Content:       resp.Data.Content,
			Ephemeral:     resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0,
		})
		s.changed.Broadcast()
	}

	return s.RespondErr
}

// InteractionResponseEdit records the edit as the interaction's reply.
func (s *Session) InteractionResponseEdit(
	i *discordgo.Interaction,
	edit *discordgo.WebhookEdit,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var content string
	if edit.Content != nil {
		content = *edit.Content
	}

	s.edits = append(s.edits, edit)
	s.replies = append(s.replies, Reply{InteractionID: i.ID, Content: content, Deferred: true})
	s.changed.Broadcast()

	return &discordgo.Message{Content: content}, nil
}

// Emit calls every registered handler whose event type matches event, as
// discordgo's event dispatch would. Supported events: *discordgo.Ready,
// *discordgo.Connect, *discordgo.Disconnect and *discordgo.InteractionCreate.
func (s *Session) Emit(event any) {
	s.mu.Lock()
	handlers := make([]any, 0, len(s.handlers))

	for id := 0; id < s.nextID; id++ {
		if h, ok := s.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	s.mu.Unlock()

	for _, h := range handlers {
		switch e := event.(type) {
		case *discordgo.Ready:
			if fn, ok := h.(func(*discordgo.Session, *discordgo.Ready)); ok {
				fn(nil, e)
			}
		case *discordgo.Connect:
			if fn, ok := h.(func(*discordgo.Session, *discordgo.Connect)); ok {
				fn(nil, e)
			}
		case *discordgo.Disconnect:
			if fn, ok := h.(func(*discordgo.Session, *discordgo.Disconnect)); ok {
				fn(nil, e)
			}
		case *discordgo.InteractionCreate:
			if fn, ok := h.(func(*discordgo.Session, *discordgo.InteractionCreate)); ok {
				fn(nil, e)
			}
		}
	}
}

// WaitForReplies blocks until at least n replies were sent or timeout elapses,
// and returns the replies seen so far.
func (s *Session) WaitForReplies(n int, timeout time.Duration) ([]Reply, error) {
	deadline := time.Now().Add(timeout)

	timer := time.AfterFunc(timeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.changed.Broadcast()
	})
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.replies) < n {
		if !time.Now().Before(deadline) {
			return append([]Reply(nil), s.replies...), ErrTimeout
		}

		s.changed.Wait()
	}

	return append([]Reply(nil), s.replies...), nil
}

// Responses returns every InteractionRespond payload, in order.
func (s *Session) Responses() []*discordgo.InteractionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*discordgo.InteractionResponse(nil), s.responses...)
}

// Edits returns every InteractionResponseEdit payload, in order.
func (s *Session) Edits() []*discordgo.WebhookEdit {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*discordgo.WebhookEdit(nil), s.edits...)
}

// Replies returns the user-visible replies, in order.
func (s *Session) Replies() []Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Reply(nil), s.replies...)
}

// Overwrites returns every command registration, in order.
func (s *Session) Overwrites() []Overwrite {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Overwrite(nil), s.overwrites...)
}

// HandlerCount is the number of handlers still registered.
func (s *Session) HandlerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.handlers)
}

// Removed is the number of handlers removed.
func (s *Session) Removed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removed
}

// Opened reports whether Open succeeded.
func (s *Session) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.opened
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
