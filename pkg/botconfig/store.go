package botconfig

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/beeper/search-bot/pkg/searchbot"
)

// Store holds the active config and swaps it on reload. Readers always see a
// complete config.
type Store struct {
	path    string
	save    bool
	log     zerolog.Logger
	current atomic.Pointer[Config]
}

// NewStore creates a store holding cfg, which was loaded from path.
func NewStore(path string, save bool, cfg *Config, log zerolog.Logger) *Store {
	s := &Store{path: path, save: save, log: log}
	s.current.Store(cfg)
	return s
}

// Get returns the active config.
func (s *Store) Get() *Config {
	return s.current.Load()
}

// SearchSettings reads the settings the command handlers need from the active config.
func (s *Store) SearchSettings() searchbot.Settings {
	return s.Get().SearchSettings()
}

// Reload re-reads the config file. The active config is left alone if the
// new file doesn't load. Only search settings and the owner take effect
// without a restart.
func (s *Store) Reload() error {
	cfg, err := Load(s.path, s.save)
	if err != nil {
		s.log.Err(err).Str("path", s.path).Msg("Failed to reload config")
		return err
	}
	old := s.current.Swap(cfg)
	if old != nil && (old.Homeserver != cfg.Homeserver || old.Bot.UserID != cfg.Bot.UserID || old.Bot.AccessToken != cfg.Bot.AccessToken) {
		s.log.Warn().Msg("Homeserver or account changes require a restart")
	}
	s.log.Info().
		Str("region", string(cfg.Search.Region)).
		Str("safesearch", string(cfg.Search.SafeSearch)).
		Strs("backends", cfg.Search.Backends).
		Msg("Reloaded config")
	return nil
}
