package matrixbot

import (
	"context"

	"github.com/rs/zerolog"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// roomResponder answers a single command event. Messages are sent as notices
// so other bots don't react to them.
type roomResponder struct {
	transport Transport
	roomID    id.RoomID
	eventID   id.EventID
	sender    id.UserID
	log       zerolog.Logger
}

func (r *roomResponder) Reply(ctx context.Context, text string) {
	r.send(ctx, &event.MessageEventContent{
		MsgType:   event.MsgNotice,
		Body:      text,
		RelatesTo: &event.RelatesTo{InReplyTo: &event.InReplyTo{EventID: r.eventID}},
		Mentions:  &event.Mentions{UserIDs: []id.UserID{r.sender}},
	})
}

func (r *roomResponder) Say(ctx context.Context, text string) {
	r.send(ctx, &event.MessageEventContent{
		MsgType:  event.MsgNotice,
		Body:     text,
		Mentions: &event.Mentions{},
	})
}

func (r *roomResponder) send(ctx context.Context, content *event.MessageEventContent) {
	if _, err := r.transport.SendMessage(ctx, r.roomID, content); err != nil {
		r.log.Err(err).Msg("Failed to send response")
	}
}
