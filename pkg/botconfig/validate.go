package botconfig

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/beeper/search-bot/pkg/search"
)

var (
	userIDPattern = regexp.MustCompile(`^@[^:\s]+:\S+$`)
	regionPattern = regexp.MustCompile(`^\S+$`)
)

// Validate checks the config for values the bot cannot start with.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Homeserver),
		validation.Field(&c.Bot),
		validation.Field(&c.Search),
	)
}

func (c HomeserverConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required, is.URL),
	)
}

func (c BotConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.UserID, validation.Required, validation.Match(userIDPattern).Error("must be a Matrix user ID like @bot:example.com")),
		validation.Field(&c.AccessToken, validation.Required),
		validation.Field(&c.CommandPrefix, validation.Required),
	)
}

func (c SearchConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Region, validation.Required, validation.Match(regionPattern).Error("must not contain spaces")),
		validation.Field(&c.SafeSearch, validation.Required, validation.In(safeSearchValues()...).Error("must be one of on, moderate, off")),
		validation.Field(&c.Backends, validation.Each(validation.In(backendValues()...).Error("unknown backend"))),
	)
}

func safeSearchValues() []any {
	values := make([]any, len(search.SafeSearchLevels))
	for i, level := range search.SafeSearchLevels {
		values[i] = level
	}
	return values
}

func backendValues() []any {
	values := []any{search.BackendAuto}
	for _, backend := range search.DefaultBackendOrder {
		values = append(values, backend)
	}
	return values
}
