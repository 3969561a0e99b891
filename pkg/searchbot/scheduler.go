package searchbot

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultRefreshInterval is how often the search client is recreated. The
// client tends to go stale after a while, and creating one is cheap.
const DefaultRefreshInterval = time.Hour

// RefreshScheduler periodically replaces the held search client.
type RefreshScheduler struct {
	cron     *cron.Cron
	holder   *ClientHolder
	interval time.Duration
	log      zerolog.Logger
}

// NewRefreshScheduler creates a stopped scheduler.
func NewRefreshScheduler(holder *ClientHolder, interval time.Duration, log zerolog.Logger) *RefreshScheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	logger := cronLogger{log: log}
	return &RefreshScheduler{
		cron:     cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger))),
		holder:   holder,
		interval: interval,
		log:      log,
	}
}

// Start schedules the refresh job and starts the scheduler.
func (s *RefreshScheduler) Start() {
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(s.refresh))
	s.cron.Start()
	s.log.Debug().Stringer("interval", s.interval).Msg("Scheduled search client refresh")
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *RefreshScheduler) refresh() {
	if err := s.holder.Initialize(); err != nil {
		s.log.Err(err).Msg("Scheduled search client refresh failed")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Trace().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
