package matrixbot

import (
	"context"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// Transport abstracts the Matrix IO the bot needs.
//
// Implementations:
// - clientTransport (mautrix client)
// - test fakes
type Transport interface {
	SendMessage(ctx context.Context, roomID id.RoomID, content *event.MessageEventContent) (id.EventID, error)
	JoinRoom(ctx context.Context, roomID id.RoomID) error
}

type clientTransport struct {
	client *mautrix.Client
}

func (t *clientTransport) SendMessage(ctx context.Context, roomID id.RoomID, content *event.MessageEventContent) (id.EventID, error) {
	resp, err := t.client.SendMessageEvent(ctx, roomID, event.EventMessage, content)
	if err != nil {
		return "", err
	}
	return resp.EventID, nil
}

func (t *clientTransport) JoinRoom(ctx context.Context, roomID id.RoomID) error {
	_, err := t.client.JoinRoomByID(ctx, roomID)
	return err
}
