package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/services"
)

// Janitor prunes old audit events on a cron schedule. It runs outside the
// request path; nothing in the auth core depends on it.
type Janitor struct {
	events    services.EventServiceProvider
	schedule  cron.Schedule
	retention time.Duration
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewJanitor creates a janitor pruning events older than retention,
// firing per the given standard cron expression.
func NewJanitor(events services.EventServiceProvider, cronExpr string, retention time.Duration) (*Janitor, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Janitor{
		events:    events,
		schedule:  schedule,
		retention: retention,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// Run starts the janitor's ticking loop.
func (j *Janitor) Run() {
	log.Info().Time("next_run", j.nextRun).Msg("Starting event janitor")
	j.ticker = time.NewTicker(1 * time.Minute)
	defer j.ticker.Stop()

	for {
		select {
		case <-j.done:
			log.Info().Msg("Stopping event janitor")
			return
		case <-j.ticker.C:
			now := time.Now()
			if now.After(j.nextRun) {
				j.prune(now)
				j.nextRun = j.schedule.Next(now)
			}
		}
	}
}

// Stop halts the janitor.
func (j *Janitor) Stop() {
	j.done <- true
}

func (j *Janitor) prune(now time.Time) {
	cutoff := now.Add(-j.retention)
	pruned, err := j.events.PruneOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Janitor: failed to prune events")
		return
	}
	log.Info().Int64("pruned", pruned).Time("cutoff", cutoff).Msg("Janitor: pruned old events")
}
