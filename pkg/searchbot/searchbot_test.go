package searchbot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/beeper/search-bot/pkg/autocomplete"
	"github.com/beeper/search-bot/pkg/commands"
	"github.com/beeper/search-bot/pkg/search"
)

type fakeSearcher struct {
	serial int64

	results    []search.TextResult
	textErr    error
	lastParams search.TextParams
	textCalls  atomic.Int32

	suggestions  []search.Suggestion
	suggestErr   error
	lastRegion   search.Region
	suggestCalls atomic.Int32
}

func (f *fakeSearcher) ID() string {
	return fmt.Sprintf("fake-%d", f.serial)
}

func (f *fakeSearcher) Text(_ context.Context, params search.TextParams) ([]search.TextResult, error) {
	f.textCalls.Add(1)
	f.lastParams = params
	return f.results, f.textErr
}

func (f *fakeSearcher) Suggestions(_ context.Context, _ string, region search.Region) ([]search.Suggestion, error) {
	f.suggestCalls.Add(1)
	f.lastRegion = region
	return f.suggestions, f.suggestErr
}

type fakeAutocomplete struct {
	result   autocomplete.Suggestions
	err      error
	language string
	calls    int
}

func (f *fakeAutocomplete) Complete(_ context.Context, _ string, language string) (autocomplete.Suggestions, error) {
	f.calls++
	f.language = language
	return f.result, f.err
}

type recordingResponder struct {
	replies []string
	says    []string
}

func (r *recordingResponder) Reply(_ context.Context, text string) { r.replies = append(r.replies, text) }
func (r *recordingResponder) Say(_ context.Context, text string)   { r.says = append(r.says, text) }

type fixture struct {
	handlers *Handlers
	created  []*fakeSearcher
	template fakeSearcher
	settings Settings
	auto     *fakeAutocomplete
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		settings: Settings{
			Region:     "us-en",
			SafeSearch: search.SafeSearchModerate,
			Backends:   []string{"duckduckgo", "google", "brave", "bing"},
			Owner:      "@owner:example.com",
			HelpPrefix: "!",
		},
		auto: &fakeAutocomplete{},
	}
	factory := func() (Searcher, error) {
		client := &fakeSearcher{
			serial:      int64(len(f.created) + 1),
			results:     f.template.results,
			textErr:     f.template.textErr,
			suggestions: f.template.suggestions,
			suggestErr:  f.template.suggestErr,
		}
		f.created = append(f.created, client)
		return client, nil
	}
	holder := NewClientHolder(factory, zerolog.Nop())
	f.handlers = &Handlers{
		Holder:       holder,
		Autocomplete: f.auto,
		Settings:     func() Settings { return f.settings },
	}
	return f
}

func (f *fixture) run(handler commands.HandlerFunc, command, args string) (*recordingResponder, commands.Outcome) {
	resp := &recordingResponder{}
	outcome := handler(&commands.Event{
		Ctx:       context.Background(),
		Log:       zerolog.Nop(),
		Command:   command,
		RawArgs:   args,
		Sender:    "@user:example.com",
		Responder: resp,
	})
	return resp, outcome
}

func suggestionsOf(raw ...string) []search.Suggestion {
	out := make([]search.Suggestion, 0, len(raw))
	for _, item := range raw {
		out = append(out, search.NewSuggestion(item))
	}
	return out
}

func TestEmptyQueryRepliesWithUsage(t *testing.T) {
	for _, args := range []string{"", "   ", "\t"} {
		f := newFixture(t)
		cases := []struct {
			command string
			handler commands.HandlerFunc
		}{
			{"search", f.handlers.Search},
			{"ddg", f.handlers.Search},
			{"suggest", f.handlers.Suggest},
			{"gsuggest", f.handlers.GSuggest},
		}
		for _, tc := range cases {
			resp, outcome := f.run(tc.handler, tc.command, args)
			want := "!" + tc.command + " what?"
			if !slices.Equal(resp.replies, []string{want}) || len(resp.says) != 0 {
				t.Fatalf("%s %q: got replies %#v says %#v", tc.command, args, resp.replies, resp.says)
			}
			if outcome != commands.NoLimit {
				t.Fatalf("%s: expected NoLimit outcome", tc.command)
			}
		}
		if len(f.created) != 0 || f.auto.calls != 0 {
			t.Fatalf("expected no client use for empty query, created=%d autocomplete=%d", len(f.created), f.auto.calls)
		}
	}
}

func TestSearchSuccess(t *testing.T) {
	f := newFixture(t)
	f.template.results = []search.TextResult{{Title: "T", Href: "U"}}

	resp, outcome := f.run(f.handlers.Search, "g", "  what is go  ")
	if !slices.Equal(resp.says, []string{"T — U"}) || len(resp.replies) != 0 {
		t.Fatalf("got says %#v replies %#v", resp.says, resp.replies)
	}
	if outcome != commands.Counted {
		t.Fatalf("expected Counted outcome")
	}
	params := f.created[0].lastParams
	if params.Query != "what is go" || params.MaxResults != 1 || params.Region != "us-en" || params.SafeSearch != search.SafeSearchModerate {
		t.Fatalf("unexpected params %#v", params)
	}
	if !slices.Equal(params.Backends, []string{"duckduckgo", "google", "brave", "bing"}) {
		t.Fatalf("unexpected backends %v", params.Backends)
	}
}

func TestSearchReadsSettingsPerInvocation(t *testing.T) {
	f := newFixture(t)
	f.template.results = []search.TextResult{{Title: "T", Href: "U"}}
	f.run(f.handlers.Search, "search", "x")
	f.settings.Region = "de-de"
	f.settings.SafeSearch = search.SafeSearchOff
	f.run(f.handlers.Search, "search", "x")
	params := f.created[0].lastParams
	if params.Region != "de-de" || params.SafeSearch != search.SafeSearchOff {
		t.Fatalf("settings change not picked up: %#v", params)
	}
}

func TestSearchNoResults(t *testing.T) {
	f := newFixture(t)
	f.template.results = []search.TextResult{}

	resp, _ := f.run(f.handlers.Search, "search", "100% nothing")
	if len(resp.replies) != 1 || !strings.Contains(resp.replies[0], "'100% nothing'") || !strings.Contains(resp.replies[0], "no results") {
		t.Fatalf("unexpected replies %#v", resp.replies)
	}
}

func TestSearchRatelimitReplacesClient(t *testing.T) {
	f := newFixture(t)
	f.template.textErr = &search.BackendError{Backend: "duckduckgo", StatusCode: 202, Err: search.ErrRatelimit}
	if err := f.handlers.Holder.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	before := f.handlers.Holder.Current()

	resp, _ := f.run(f.handlers.Search, "search", "query")
	after := f.handlers.Holder.Current()
	if before == after {
		t.Fatalf("expected client to be replaced after rate limit")
	}
	if len(resp.replies) != 1 || !strings.Contains(resp.replies[0], "@owner:example.com") {
		t.Fatalf("expected reply naming the owner, got %#v", resp.replies)
	}
	if len(resp.says) != 0 {
		t.Fatalf("expected nothing else to be said, got %#v", resp.says)
	}
	if f.created[1].textCalls.Load() != 0 {
		t.Fatalf("failed call must not be retried on the new client")
	}
}

func TestSearchTimeoutReplacesClient(t *testing.T) {
	f := newFixture(t)
	f.template.textErr = fmt.Errorf("wrapped: %w", search.ErrTimeout)

	resp, _ := f.run(f.handlers.Search, "search", "query")
	if !slices.Equal(resp.replies, []string{msgTimeout}) {
		t.Fatalf("unexpected replies %#v", resp.replies)
	}
	if len(f.created) != 2 || f.handlers.Holder.Current() != Searcher(f.created[1]) {
		t.Fatalf("expected a replacement client, created=%d", len(f.created))
	}
}

func TestSearchOtherErrorKeepsClient(t *testing.T) {
	f := newFixture(t)
	f.template.textErr = errors.New("boom")

	resp, outcome := f.run(f.handlers.Search, "search", "query")
	if !slices.Equal(resp.replies, []string{msgSearchFailed}) || outcome != commands.Counted {
		t.Fatalf("unexpected replies %#v", resp.replies)
	}
	if len(f.created) != 1 {
		t.Fatalf("client must not be replaced for generic errors")
	}
}

func TestSuggestJoinsFirstThree(t *testing.T) {
	f := newFixture(t)
	f.template.suggestions = suggestionsOf(`{"phrase":"a"}`, `{"phrase":"b"}`, `{"phrase":"c"}`, `{"phrase":"d"}`)

	resp, _ := f.run(f.handlers.Suggest, "suggest", "q")
	if !slices.Equal(resp.says, []string{"'a', 'b' and 'c'"}) {
		t.Fatalf("got %#v", resp.says)
	}
	if f.created[0].lastRegion != "us-en" {
		t.Fatalf("unexpected region %q", f.created[0].lastRegion)
	}
}

func TestSuggestUnusable(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []search.Suggestion
	}{
		{"empty", nil},
		{"missing phrase", suggestionsOf(`{"phrase":"a"}`, `{"nope":"b"}`)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.template.suggestions = tc.suggestions
			resp, outcome := f.run(f.handlers.Suggest, "suggest", "query")
			if !slices.Equal(resp.replies, []string{"Sorry, I couldn't get suggestions for 'query'."}) {
				t.Fatalf("got %#v", resp.replies)
			}
			if outcome != commands.NoLimit {
				t.Fatalf("expected NoLimit outcome")
			}
		})
	}
}

func TestSuggestMissingPhraseAfterThirdIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.template.suggestions = suggestionsOf(`{"phrase":"a"}`, `{"phrase":"b"}`, `{"phrase":"c"}`, `{}`)
	resp, _ := f.run(f.handlers.Suggest, "suggest", "q")
	if !slices.Equal(resp.says, []string{"'a', 'b' and 'c'"}) {
		t.Fatalf("got %#v", resp.says)
	}
}

func TestSuggestRatelimitReplacesClient(t *testing.T) {
	f := newFixture(t)
	f.template.suggestErr = search.ErrRatelimit
	resp, _ := f.run(f.handlers.Suggest, "suggest", "q")
	if len(f.created) != 2 {
		t.Fatalf("expected client replacement, created=%d", len(f.created))
	}
	if len(resp.replies) != 1 || !strings.Contains(resp.replies[0], "@owner:example.com") {
		t.Fatalf("got %#v", resp.replies)
	}
}

func TestGSuggest(t *testing.T) {
	tests := []struct {
		name   string
		result autocomplete.Suggestions
		says   []string
		reply  []string
	}{
		{"empty", autocomplete.Suggestions{Kind: autocomplete.Empty}, nil, []string{"Sorry, no result."}},
		{"one", autocomplete.Suggestions{Kind: autocomplete.One, One: "solo"}, []string{"'solo'"}, nil},
		{"two", autocomplete.Suggestions{Kind: autocomplete.Many, Many: []string{"x", "y"}}, []string{"'x' and 'y'"}, nil},
		{"four", autocomplete.Suggestions{Kind: autocomplete.Many, Many: []string{"a", "b", "c", "d"}}, []string{"'a', 'b' and 'c'"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.settings.Region = "DE-De"
			f.auto.result = tc.result
			resp, _ := f.run(f.handlers.GSuggest, "gsuggest", "q")
			if !slices.Equal(resp.says, tc.says) || !slices.Equal(resp.replies, tc.reply) {
				t.Fatalf("got says %#v replies %#v", resp.says, resp.replies)
			}
			if f.auto.language != "de" {
				t.Fatalf("unexpected language %q", f.auto.language)
			}
			if len(f.created) != 0 {
				t.Fatalf("gsuggest must not use the search client")
			}
		})
	}
}

func TestGSuggestFailureAndDisabled(t *testing.T) {
	f := newFixture(t)
	f.auto.err = errors.New("dial tcp: refused")
	resp, _ := f.run(f.handlers.GSuggest, "gsuggest", "q")
	if !slices.Equal(resp.replies, []string{msgAutocompleteDown}) {
		t.Fatalf("got %#v", resp.replies)
	}

	f.handlers.Autocomplete = nil
	resp, outcome := f.run(f.handlers.GSuggest, "gsuggest", "q")
	if !slices.Equal(resp.replies, []string{msgAutocompleteDisabled}) || outcome != commands.NoLimit {
		t.Fatalf("got %#v", resp.replies)
	}
}

func TestJoinQuoted(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "'a'"},
		{[]string{"a", "b"}, "'a' and 'b'"},
		{[]string{"a", "b", "c"}, "'a', 'b' and 'c'"},
		{[]string{"a", "b", "c", "d"}, "'a', 'b', 'c' and 'd'"},
	}
	for _, tc := range tests {
		if got := JoinQuoted(tc.in); got != tc.want {
			t.Fatalf("JoinQuoted(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHolderInitializeTwice(t *testing.T) {
	f := newFixture(t)
	f.template.results = []search.TextResult{{Title: "T", Href: "U"}}
	holder := f.handlers.Holder
	if err := holder.Initialize(); err != nil {
		t.Fatalf("first initialize: %v", err)
	}
	first := holder.Current()
	if err := holder.Initialize(); err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	second := holder.Current()
	if first == second {
		t.Fatalf("expected distinct clients")
	}
	if _, err := first.Text(context.Background(), search.TextParams{Query: "still works"}); err != nil {
		t.Fatalf("stale client should remain usable: %v", err)
	}
}

func TestHolderLazyAcquireAndTeardown(t *testing.T) {
	f := newFixture(t)
	holder := f.handlers.Holder
	if holder.Current() != nil {
		t.Fatalf("expected no client before initialization")
	}
	client, err := holder.Acquire()
	if err != nil || client == nil {
		t.Fatalf("lazy acquire failed: %v", err)
	}
	holder.Teardown()
	if holder.Current() != nil {
		t.Fatalf("expected no client after teardown")
	}
	if _, err := holder.Acquire(); !errors.Is(err, ErrHolderClosed) {
		t.Fatalf("expected ErrHolderClosed, got %v", err)
	}
	if err := holder.Initialize(); !errors.Is(err, ErrHolderClosed) {
		t.Fatalf("expected ErrHolderClosed from Initialize, got %v", err)
	}

	resp, _ := f.run(f.handlers.Search, "search", "x")
	if !slices.Equal(resp.replies, []string{msgUnavailable}) {
		t.Fatalf("got %#v", resp.replies)
	}
}

func TestHolderFactoryError(t *testing.T) {
	holder := NewClientHolder(func() (Searcher, error) {
		return nil, errors.New("no cookies")
	}, zerolog.Nop())
	if err := holder.Initialize(); err == nil {
		t.Fatalf("expected factory error")
	}
	if holder.Current() != nil {
		t.Fatalf("failed initialize must not store a client")
	}
}

func TestSchedulerRefresh(t *testing.T) {
	f := newFixture(t)
	scheduler := NewRefreshScheduler(f.handlers.Holder, 0, zerolog.Nop())
	if scheduler.interval != DefaultRefreshInterval {
		t.Fatalf("expected default interval, got %s", scheduler.interval)
	}
	scheduler.refresh()
	scheduler.refresh()
	if len(f.created) != 2 {
		t.Fatalf("expected two clients, got %d", len(f.created))
	}
	scheduler.Start()
	scheduler.Stop()
}

func TestPluginLifecycle(t *testing.T) {
	var created int
	plugin := NewPlugin(PluginConfig{
		Factory: func() (Searcher, error) {
			created++
			return &fakeSearcher{results: []search.TextResult{{Title: "T", Href: "U"}}}, nil
		},
		Settings: func() Settings { return Settings{HelpPrefix: "!"} },
		Log:      zerolog.Nop(),
	})
	reg := commands.NewRegistry()
	if err := plugin.Setup(reg); err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer plugin.Shutdown()
	if created != 1 {
		t.Fatalf("expected client to be created during setup")
	}
	if got := reg.Names(); !slices.Equal(got, []string{"gsuggest", "search", "suggest"}) {
		t.Fatalf("unexpected commands %v", got)
	}

	def := reg.Get("ddg")
	resp := &recordingResponder{}
	def.Run(&commands.Event{Ctx: context.Background(), Log: zerolog.Nop(), Command: "ddg", RawArgs: "x", Responder: resp})
	if !slices.Equal(resp.says, []string{"[search] T — U"}) {
		t.Fatalf("got %#v", resp.says)
	}
}
