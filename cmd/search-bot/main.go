package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mau.fi/util/exzerolog"
	flag "maunium.net/go/mauflag"
	"maunium.net/go/mautrix/id"

	"github.com/beeper/search-bot/pkg/autocomplete"
	"github.com/beeper/search-bot/pkg/botconfig"
	"github.com/beeper/search-bot/pkg/commands"
	"github.com/beeper/search-bot/pkg/matrixbot"
	"github.com/beeper/search-bot/pkg/search"
	"github.com/beeper/search-bot/pkg/searchbot"
)

// Information to find out exactly which commit the bot was built from.
// These are filled at build time with the -X linker flag.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	configPath     = flag.MakeFull("c", "config", "The path to your config file.", "config.yaml").String()
	envPath        = flag.MakeFull("e", "env-file", "The path to a .env file with SEARCHBOT_* overrides.", ".env").String()
	generateConfig = flag.MakeFull("g", "generate-config", "Write the example config to the config path and exit.", "false").Bool()
	configure      = flag.MakeFull("", "configure", "Interactively set the search region and SafeSearch level, then exit.", "false").Bool()
	noUpdate       = flag.MakeFull("n", "no-update", "Don't save updated config to disk.", "false").Bool()
	version        = flag.MakeFull("v", "version", "View bot version and exit.", "false").Bool()
	wantHelp, _    = flag.MakeHelpFlag()
)

func main() {
	flag.SetHelpTitles("search-bot - A Matrix bot for web searches and search suggestions.", "search-bot [-hgnv] [-c <path>] [-e <path>] [--configure]")
	if err := flag.Parse(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		flag.PrintHelp()
		os.Exit(1)
	} else if *wantHelp {
		flag.PrintHelp()
		os.Exit(0)
	} else if *version {
		fmt.Printf("search-bot %s (commit %s, built at %s)\n", Tag, Commit, BuildTime)
		os.Exit(0)
	}

	if *generateConfig {
		if err := os.WriteFile(*configPath, []byte(botconfig.ExampleConfig), 0o600); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Failed to write example config:", err)
			os.Exit(1)
		}
		fmt.Println("Wrote example config to", *configPath)
		os.Exit(0)
	}
	if *configure {
		if err := runConfigure(*configPath); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, "Failed to load env file:", err)
		os.Exit(2)
	}
	cfg, err := botconfig.Load(*configPath, !*noUpdate)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
	log, err := cfg.Logging.Compile()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(4)
	}
	exzerolog.SetupDefaults(log)

	if err = run(cfg, *log); err != nil {
		log.Fatal().Err(err).Msg("Bot stopped with an error")
	}
}

func runConfigure(path string) error {
	rl, err := readline.New("> ")
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer rl.Close()
	return botconfig.ConfigureFile(rl, rl.Stdout(), path)
}

func run(cfg *botconfig.Config, log zerolog.Logger) error {
	store := botconfig.NewStore(*configPath, !*noUpdate, cfg, log.With().Str("component", "config").Logger())

	searchLog := log.With().Str("component", "search").Logger()
	factory := func() (searchbot.Searcher, error) {
		client, err := search.NewClient(search.Options{
			Timeout: store.Get().Search.Timeout,
			Log:     searchLog,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	var completer searchbot.Autocompleter
	if cfg.Autocomplete.Enabled {
		completer = autocomplete.NewClient(autocomplete.Config{
			URL:     cfg.Autocomplete.URL,
			Timeout: cfg.Autocomplete.Timeout,
			Log:     log.With().Str("component", "autocomplete").Logger(),
		})
	}

	registry := commands.NewRegistry()
	plugin := searchbot.NewPlugin(searchbot.PluginConfig{
		Factory:         factory,
		Autocomplete:    completer,
		Settings:        store.SearchSettings,
		RefreshInterval: cfg.Search.RefreshInterval,
		Log:             log.With().Str("component", "searchbot").Logger(),
	})
	if err := plugin.Setup(registry); err != nil {
		return err
	}
	defer plugin.Shutdown()

	bot, err := matrixbot.New(matrixbot.Options{
		HomeserverURL:   cfg.Homeserver.URL,
		UserID:          id.UserID(cfg.Bot.UserID),
		AccessToken:     cfg.Bot.AccessToken,
		CommandPrefix:   cfg.Bot.CommandPrefix,
		CommandCooldown: cfg.Bot.CommandCooldown,
		Log:             log.With().Str("component", "matrixbot").Logger(),
	}, registry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				_ = store.Reload()
			}
		}
	}()

	log.Info().Str("version", Tag).Strs("commands", registry.Names()).Msg("Search bot starting")
	err = bot.Run(ctx)
	log.Info().Msg("Search bot stopped")
	return err
}
