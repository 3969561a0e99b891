// Package commands is the chat-command surface shared by the bot host and
// the command handlers: events, replies, outcomes and the registry.
package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Responder sends text back to where a command came from.
type Responder interface {
	// Reply sends text directed at the user who invoked the command.
	Reply(ctx context.Context, text string)
	// Say sends text to the channel without addressing anyone.
	Say(ctx context.Context, text string)
}

// Outcome tells the host whether an invocation should count against any
// cooldown it applies.
type Outcome int

const (
	// Counted is the normal outcome.
	Counted Outcome = iota
	// NoLimit marks invocations that did no work worth rate-limiting, such as
	// a usage hint for a missing argument.
	NoLimit
)

// Event is a single command invocation.
type Event struct {
	Ctx context.Context
	Log zerolog.Logger

	// Command is the name or alias the user typed, without the prefix.
	Command string
	// RawArgs is the rest of the message after the command.
	RawArgs string
	Sender  string

	Responder Responder
}

// Reply formats and sends a message directed at the sender.
func (ce *Event) Reply(msg string, args ...any) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	ce.Responder.Reply(ce.Ctx, msg)
}

// Say formats and sends a message to the channel.
func (ce *Event) Say(msg string, args ...any) {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	ce.Responder.Say(ce.Ctx, msg)
}

// WithOutputPrefix returns a responder that prepends prefix to every message.
func WithOutputPrefix(prefix string, resp Responder) Responder {
	if prefix == "" {
		return resp
	}
	return &prefixedResponder{prefix: prefix, inner: resp}
}

type prefixedResponder struct {
	prefix string
	inner  Responder
}

func (p *prefixedResponder) Reply(ctx context.Context, text string) {
	p.inner.Reply(ctx, p.prefix+text)
}

func (p *prefixedResponder) Say(ctx context.Context, text string) {
	p.inner.Say(ctx, p.prefix+text)
}
