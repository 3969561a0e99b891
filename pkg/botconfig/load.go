package botconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.mau.fi/util/configupgrade"
	"gopkg.in/yaml.v3"

	"github.com/beeper/search-bot/pkg/search"
	"github.com/beeper/search-bot/pkg/shared/stringutil"
)

// Environment variables that override config values.
const (
	EnvHomeserver  = "SEARCHBOT_HOMESERVER"
	EnvUserID      = "SEARCHBOT_USER_ID"
	EnvAccessToken = "SEARCHBOT_ACCESS_TOKEN"
	EnvOwner       = "SEARCHBOT_OWNER"
	EnvRegion      = "SEARCHBOT_REGION"
	EnvSafeSearch  = "SEARCHBOT_SAFESEARCH"
	EnvBackends    = "SEARCHBOT_BACKENDS"
)

func upgradeConfig(helper configupgrade.Helper) {
	helper.Copy(configupgrade.Str, "homeserver", "url")

	helper.Copy(configupgrade.Str, "bot", "user_id")
	helper.Copy(configupgrade.Str, "bot", "access_token")
	helper.Copy(configupgrade.Str|configupgrade.Null, "bot", "owner")
	helper.Copy(configupgrade.Str, "bot", "command_prefix")
	helper.Copy(configupgrade.Str|configupgrade.Int, "bot", "command_cooldown")

	helper.Copy(configupgrade.Str, "search", "region")
	helper.Copy(configupgrade.Str, "search", "safesearch")
	helper.Copy(configupgrade.List, "search", "backends")
	helper.Copy(configupgrade.Str, "search", "refresh_interval")
	helper.Copy(configupgrade.Str, "search", "timeout")

	helper.Copy(configupgrade.Bool, "autocomplete", "enabled")
	helper.Copy(configupgrade.Str, "autocomplete", "url")
	helper.Copy(configupgrade.Str, "autocomplete", "timeout")

	helper.Copy(configupgrade.Map, "logging")
}

// Upgrade merges the user's config document onto the embedded example, so
// keys added in newer versions appear with their defaults and comments.
func Upgrade(data []byte) ([]byte, error) {
	var baseNode, cfgNode yaml.Node
	if err := yaml.Unmarshal([]byte(ExampleConfig), &baseNode); err != nil {
		return nil, fmt.Errorf("failed to parse example config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfgNode); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfgNode.Content) == 0 {
		return []byte(ExampleConfig), nil
	}
	upgradeConfig(configupgrade.NewHelper(&baseNode, &cfgNode))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(&baseNode); err != nil {
		return nil, fmt.Errorf("failed to encode upgraded config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes a config document and applies defaults. Environment
// overrides are not applied.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg = cfg.WithDefaults()
	return &cfg, nil
}

// Load reads, upgrades and validates the config at path, with environment
// overrides applied. When save is true and the upgrade changed the document,
// the upgraded document is written back.
func Load(path string, save bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found, generate one with -g", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	upgraded, err := Upgrade(data)
	if err != nil {
		return nil, err
	}
	if save && !bytes.Equal(upgraded, data) {
		if err = writeFileAtomic(path, upgraded); err != nil {
			return nil, fmt.Errorf("failed to save upgraded config: %w", err)
		}
	}
	cfg, err := Parse(upgraded)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	*cfg = cfg.WithDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides config fields from SEARCHBOT_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Homeserver.URL = stringutil.EnvOr(c.Homeserver.URL, getenv(EnvHomeserver))
	c.Bot.UserID = stringutil.EnvOr(c.Bot.UserID, getenv(EnvUserID))
	c.Bot.AccessToken = stringutil.EnvOr(c.Bot.AccessToken, getenv(EnvAccessToken))
	c.Bot.Owner = stringutil.EnvOr(c.Bot.Owner, getenv(EnvOwner))
	c.Search.Region = search.Region(stringutil.EnvOr(string(c.Search.Region), getenv(EnvRegion)))
	c.Search.SafeSearch = search.SafeSearch(stringutil.EnvOr(string(c.Search.SafeSearch), getenv(EnvSafeSearch)))
	if backends := stringutil.SplitCSV(getenv(EnvBackends)); len(backends) > 0 {
		c.Search.Backends = backends
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
