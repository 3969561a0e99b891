package searchbot

import (
	"strings"

	"github.com/beeper/search-bot/pkg/commands"
	"github.com/beeper/search-bot/pkg/search"
	"github.com/beeper/search-bot/pkg/shared/stringutil"
)

// OutputPrefix tags every message the search commands send.
const OutputPrefix = "[search] "

const (
	msgRatelimit            = "Sorry, I can't search right now. If this error persists, ask %s to check my logs."
	msgTimeout              = "Sorry, the search request timed out. Try again later."
	msgSearchFailed         = "Sorry, the search failed. Try again later."
	msgNoResults            = "Sorry, no results found for '%s'."
	msgNoSuggestions        = "Sorry, I couldn't get suggestions for '%s'."
	msgNoResult             = "Sorry, no result."
	msgUnavailable          = "Sorry, search isn't available right now."
	msgAutocompleteDown     = "Sorry, I couldn't reach the autocomplete service."
	msgAutocompleteDisabled = "The gsuggest command needs the autocomplete client, which is disabled in this bot's config. " +
		"See the autocomplete section of example-config.yaml."
)

// Settings are the per-invocation values the commands read from config.
type Settings struct {
	Region     search.Region
	SafeSearch search.SafeSearch
	Backends   []string
	Owner      string
	HelpPrefix string
}

// SettingsFunc returns the current settings. It is called once per invocation.
type SettingsFunc func() Settings

// Handlers implements the chat commands.
type Handlers struct {
	Holder *ClientHolder
	// Autocomplete is nil when gsuggest is disabled.
	Autocomplete Autocompleter
	Settings     SettingsFunc
}

// Register adds the search commands to reg.
func (h *Handlers) Register(reg *commands.Registry) {
	reg.Register(commands.Definition{
		Name:         "search",
		Aliases:      []string{"ddg", "g"},
		Description:  "Search the web and show the top result",
		Args:         "<query>",
		OutputPrefix: OutputPrefix,
		Handler:      h.Search,
	})
	reg.Register(commands.Definition{
		Name:         "suggest",
		Description:  "Get search query autocomplete suggestions from DuckDuckGo",
		Args:         "<query>",
		OutputPrefix: OutputPrefix,
		Handler:      h.Suggest,
	})
	reg.Register(commands.Definition{
		Name:         "gsuggest",
		Description:  "Get search query autocomplete suggestions from Google",
		Args:         "<query>",
		Examples:     []string{"gsuggest what?"},
		OutputPrefix: OutputPrefix,
		Handler:      h.GSuggest,
	})
}

// Search replies with the first result for the query.
func (h *Handlers) Search(ce *commands.Event) commands.Outcome {
	settings := h.Settings()
	query := strings.TrimSpace(ce.RawArgs)
	if query == "" {
		return usage(ce, settings)
	}
	client, ok := h.acquire(ce)
	if !ok {
		return commands.Counted
	}

	results, err := client.Text(ce.Ctx, search.TextParams{
		Query:      query,
		Region:     settings.Region,
		SafeSearch: settings.SafeSearch,
		Backends:   settings.Backends,
		MaxResults: 1,
	})
	if err != nil {
		if !h.remediate(ce, settings, err) {
			ce.Log.Error().Err(err).Msg("Search request failed")
			ce.Reply(msgSearchFailed)
		}
		return commands.Counted
	}
	if len(results) == 0 {
		ce.Reply(msgNoResults, query)
		return commands.Counted
	}
	ce.Say(FormatResult(results[0]))
	return commands.Counted
}

// Suggest replies with up to three DuckDuckGo autocomplete phrases.
func (h *Handlers) Suggest(ce *commands.Event) commands.Outcome {
	settings := h.Settings()
	query := strings.TrimSpace(ce.RawArgs)
	if query == "" {
		return usage(ce, settings)
	}
	client, ok := h.acquire(ce)
	if !ok {
		return commands.Counted
	}

	suggestions, err := client.Suggestions(ce.Ctx, query, settings.Region)
	if err != nil {
		if h.remediate(ce, settings, err) {
			return commands.Counted
		}
		ce.Log.Warn().Err(err).Msg("Suggestion request failed")
		ce.Reply(msgNoSuggestions, query)
		return commands.Counted
	}
	phrases, err := SuggestionPhrases(suggestions, maxSuggestions)
	if err != nil || len(phrases) == 0 {
		ce.Log.Debug().Err(err).Int("suggestions", len(suggestions)).Msg("No usable suggestions")
		ce.Reply(msgNoSuggestions, query)
		return commands.NoLimit
	}
	ce.Say(JoinQuoted(phrases))
	return commands.Counted
}

// GSuggest replies with up to three Google autocomplete suggestions.
func (h *Handlers) GSuggest(ce *commands.Event) commands.Outcome {
	settings := h.Settings()
	query := strings.TrimSpace(ce.RawArgs)
	if query == "" {
		return usage(ce, settings)
	}
	if h.Autocomplete == nil {
		ce.Reply(msgAutocompleteDisabled)
		return commands.NoLimit
	}

	suggestions, err := h.Autocomplete.Complete(ce.Ctx, query, settings.Region.Language())
	if err != nil {
		ce.Log.Warn().Err(err).Msg("Autocomplete request failed")
		ce.Reply(msgAutocompleteDown)
		return commands.Counted
	}
	list := suggestions.List()
	if len(list) == 0 {
		ce.Reply(msgNoResult)
		return commands.Counted
	}
	ce.Say(JoinQuoted(firstN(list, maxSuggestions)))
	return commands.Counted
}

func usage(ce *commands.Event, settings Settings) commands.Outcome {
	ce.Reply("%s%s what?", settings.HelpPrefix, strings.ToLower(ce.Command))
	return commands.NoLimit
}

func (h *Handlers) acquire(ce *commands.Event) (Searcher, bool) {
	client, err := h.Holder.Acquire()
	if err != nil {
		ce.Log.Error().Err(err).Msg("No search client available")
		ce.Reply(msgUnavailable)
		return nil, false
	}
	return client, true
}

// remediate handles the provider's rate-limit and timeout signals by telling
// the user and replacing the client. It reports whether err was handled.
func (h *Handlers) remediate(ce *commands.Event, settings Settings, err error) bool {
	switch {
	case search.IsRatelimit(err):
		ce.Reply(msgRatelimit, stringutil.FirstNonEmpty(settings.Owner, "the bot owner"))
		ce.Log.Error().Err(err).Msg("Rate limit error. If this problem persists, check for a newer release of the bot and restart it.")
		h.Holder.RefreshAfterFailure("rate limit")
		return true
	case search.IsTimeout(err):
		ce.Reply(msgTimeout)
		ce.Log.Error().Err(err).Msg("Timeout during search request")
		h.Holder.RefreshAfterFailure("timeout")
		return true
	default:
		return false
	}
}
