// Package matrixbot hosts chat commands on a Matrix account.
package matrixbot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/beeper/search-bot/pkg/commands"
)

// commandTimeout bounds a single command invocation.
const commandTimeout = 2 * time.Minute

// Options configures a Bot.
type Options struct {
	HomeserverURL string
	UserID        id.UserID
	AccessToken   string
	CommandPrefix string
	// CommandCooldown is the per-user, per-command cooldown. Zero disables it.
	CommandCooldown time.Duration
	Log             zerolog.Logger
}

// Bot receives Matrix messages and dispatches commands from the registry.
type Bot struct {
	client    *mautrix.Client
	transport Transport
	registry  *commands.Registry
	userID    id.UserID
	prefix    string
	cooldown  *Cooldown
	log       zerolog.Logger
	now       func() time.Time

	wg sync.WaitGroup
}

// New creates a bot logged in with an access token.
func New(opts Options, registry *commands.Registry) (*Bot, error) {
	client, err := mautrix.NewClient(opts.HomeserverURL, opts.UserID, opts.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Matrix client: %w", err)
	}
	client.Log = opts.Log.With().Str("component", "matrix_client").Logger()
	bot := newBot(&clientTransport{client: client}, registry, opts)
	bot.client = client

	syncer, ok := client.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return nil, fmt.Errorf("unexpected syncer type %T", client.Syncer)
	}
	syncer.OnSync(client.DontProcessOldEvents)
	syncer.OnEventType(event.EventMessage, bot.handleMessage)
	syncer.OnEventType(event.StateMember, bot.handleMember)
	return bot, nil
}

func newBot(transport Transport, registry *commands.Registry, opts Options) *Bot {
	bot := &Bot{
		transport: transport,
		registry:  registry,
		userID:    opts.UserID,
		prefix:    opts.CommandPrefix,
		cooldown:  NewCooldown(opts.CommandCooldown),
		log:       opts.Log,
		now:       time.Now,
	}
	if bot.prefix == "" {
		bot.prefix = "!"
	}
	bot.registerHelp()
	return bot
}

// Run syncs until ctx is cancelled, then waits for running commands.
func (b *Bot) Run(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("bot has no Matrix client")
	}
	b.log.Info().Str("user_id", b.userID.String()).Msg("Starting sync")
	err := b.client.SyncWithContext(ctx)
	b.wg.Wait()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

func (b *Bot) handleMember(ctx context.Context, evt *event.Event) {
	if evt.GetStateKey() != b.userID.String() {
		return
	}
	content := evt.Content.AsMember()
	if content.Membership != event.MembershipInvite {
		return
	}
	log := b.log.With().Str("room_id", evt.RoomID.String()).Str("inviter", evt.Sender.String()).Logger()
	if err := b.transport.JoinRoom(ctx, evt.RoomID); err != nil {
		log.Err(err).Msg("Failed to join room after invite")
		return
	}
	log.Info().Msg("Joined room after invite")
}

func (b *Bot) handleMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == b.userID {
		return
	}
	content := evt.Content.AsMessage()
	if content.MsgType != event.MsgText || content.RelatesTo.GetReplaceID() != "" {
		return
	}
	name, args, ok := ParseCommand(content.Body, b.prefix)
	if !ok {
		return
	}
	def := b.registry.Get(name)
	if def == nil {
		return
	}
	sender := evt.Sender.String()
	reservedAt := b.now()
	if !b.cooldown.Reserve(sender, def.Name, reservedAt) {
		b.log.Debug().Str("sender", sender).Str("command", def.Name).Msg("Ignoring command during cooldown")
		return
	}

	log := b.log.With().
		Str("command", name).
		Str("room_id", evt.RoomID.String()).
		Str("event_id", evt.ID.String()).
		Str("sender", sender).
		Logger()
	ce := &commands.Event{
		Log:     log,
		Command: name,
		RawArgs: args,
		Sender:  sender,
		Responder: &roomResponder{
			transport: b.transport,
			roomID:    evt.RoomID,
			eventID:   evt.ID,
			sender:    evt.Sender,
			log:       log,
		},
	}
	b.wg.Add(1)
	go b.dispatch(ctx, def, ce, reservedAt)
}

func (b *Bot) dispatch(ctx context.Context, def *commands.Definition, ce *commands.Event, reservedAt time.Time) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			ce.Log.Error().
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("Command handler panicked")
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	ce.Ctx = ce.Log.WithContext(ctx)

	started := b.now()
	if outcome := def.Run(ce); outcome == commands.NoLimit {
		b.cooldown.Release(ce.Sender, def.Name, reservedAt)
	}
	ce.Log.Debug().Dur("duration", b.now().Sub(started)).Msg("Command finished")
}
