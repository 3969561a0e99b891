package searchbot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeper/search-bot/pkg/commands"
)

// PluginConfig wires the plugin's collaborators.
type PluginConfig struct {
	Factory         ClientFactory
	Autocomplete    Autocompleter
	Settings        SettingsFunc
	RefreshInterval time.Duration
	Log             zerolog.Logger
}

// Plugin ties the client holder, the refresh schedule and the command
// handlers to the bot's lifecycle.
type Plugin struct {
	Holder    *ClientHolder
	Handlers  *Handlers
	scheduler *RefreshScheduler
}

// NewPlugin creates a plugin. Nothing runs until Setup is called.
func NewPlugin(cfg PluginConfig) *Plugin {
	holder := NewClientHolder(cfg.Factory, cfg.Log)
	return &Plugin{
		Holder: holder,
		Handlers: &Handlers{
			Holder:       holder,
			Autocomplete: cfg.Autocomplete,
			Settings:     cfg.Settings,
		},
		scheduler: NewRefreshScheduler(holder, cfg.RefreshInterval, cfg.Log),
	}
}

// Setup creates the first client, starts the refresh schedule and registers
// the commands.
func (p *Plugin) Setup(reg *commands.Registry) error {
	if err := p.Holder.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize search client: %w", err)
	}
	p.scheduler.Start()
	p.Handlers.Register(reg)
	return nil
}

// Shutdown stops the refresh schedule and drops the client.
func (p *Plugin) Shutdown() {
	p.scheduler.Stop()
	p.Holder.Teardown()
}
