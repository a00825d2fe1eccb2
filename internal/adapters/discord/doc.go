// Package discord is the chat-facing adapter. It registers the slash
// commands, receives interactions from the gateway, and turns use-case
// results into replies.
//
// Each interaction is handled in its own goroutine with a request id (the
// interaction id), a command deadline, a trace span and a request-scoped
// logger in its context. Commands that take longer than DeferAfter are
// acknowledged with a deferred reply and finished with an edit, since
// Discord drops interactions left unanswered for three seconds.
//
// Replies never ping anyone: allowed mentions are always empty.
package discord
