// Package botconfig loads, validates and edits the bot's YAML configuration.
package botconfig

import (
	_ "embed"
	"strings"
	"time"

	"go.mau.fi/zeroconfig"

	"github.com/beeper/search-bot/pkg/autocomplete"
	"github.com/beeper/search-bot/pkg/search"
	"github.com/beeper/search-bot/pkg/searchbot"
)

//go:embed example-config.yaml
var ExampleConfig string

// Config is the root of config.yaml.
type Config struct {
	Homeserver   HomeserverConfig   `yaml:"homeserver"`
	Bot          BotConfig          `yaml:"bot"`
	Search       SearchConfig       `yaml:"search"`
	Autocomplete AutocompleteConfig `yaml:"autocomplete"`
	Logging      zeroconfig.Config  `yaml:"logging"`
}

type HomeserverConfig struct {
	URL string `yaml:"url"`
}

// BotConfig holds the bot account and command host settings.
type BotConfig struct {
	UserID          string        `yaml:"user_id"`
	AccessToken     string        `yaml:"access_token"`
	Owner           string        `yaml:"owner"`
	CommandPrefix   string        `yaml:"command_prefix"`
	CommandCooldown time.Duration `yaml:"command_cooldown"`
}

// SearchConfig is the search section. Region and SafeSearch are the values
// users are asked for by the configuration wizard.
type SearchConfig struct {
	Region          search.Region     `yaml:"region"`
	SafeSearch      search.SafeSearch `yaml:"safesearch"`
	Backends        []string          `yaml:"backends"`
	RefreshInterval time.Duration     `yaml:"refresh_interval"`
	Timeout         time.Duration     `yaml:"timeout"`
}

type AutocompleteConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	c.Homeserver.URL = strings.TrimRight(strings.TrimSpace(c.Homeserver.URL), "/")
	c.Bot = c.Bot.withDefaults()
	c.Search = c.Search.withDefaults()
	c.Autocomplete = c.Autocomplete.withDefaults()
	return c
}

func (c BotConfig) withDefaults() BotConfig {
	if c.CommandPrefix == "" {
		c.CommandPrefix = "!"
	}
	if c.CommandCooldown < 0 {
		c.CommandCooldown = 0
	}
	return c
}

func (c SearchConfig) withDefaults() SearchConfig {
	c.Region = search.Region(strings.ToLower(strings.TrimSpace(string(c.Region))))
	if c.Region == "" {
		c.Region = search.DefaultRegion
	}
	c.SafeSearch = search.SafeSearch(strings.ToLower(strings.TrimSpace(string(c.SafeSearch))))
	if c.SafeSearch == "" {
		c.SafeSearch = search.SafeSearchModerate
	}
	if len(c.Backends) == 0 {
		c.Backends = append([]string(nil), search.DefaultBackendOrder...)
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = searchbot.DefaultRefreshInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = search.DefaultTimeout
	}
	return c
}

func (c AutocompleteConfig) withDefaults() AutocompleteConfig {
	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		c.URL = autocomplete.DefaultURL
	}
	if c.Timeout <= 0 {
		c.Timeout = autocomplete.DefaultTimeout
	}
	return c
}

// SearchSettings returns the values the command handlers read per invocation.
func (c *Config) SearchSettings() searchbot.Settings {
	return searchbot.Settings{
		Region:     c.Search.Region,
		SafeSearch: c.Search.SafeSearch,
		Backends:   c.Search.Backends,
		Owner:      c.Bot.Owner,
		HelpPrefix: c.Bot.CommandPrefix,
	}
}
