// Package scheduler triggers periodic dispatch runs
package scheduler

import (
	"log/slog"
	"time"

	"weathersub.app/config"
	"weathersub.app/models"
	"weathersub.app/notifier"
)

// Scheduler drives the notification dispatcher on fixed intervals, one
// ticker per cadence.
type Scheduler struct {
	config     *config.NotifierConfig
	dispatcher *notifier.Dispatcher
	stopCh     chan struct{}
}

// NewScheduler creates a scheduler for the given dispatcher
func NewScheduler(config *config.NotifierConfig, dispatcher *notifier.Dispatcher) *Scheduler {
	return &Scheduler{
		config:     config,
		dispatcher: dispatcher,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the per-cadence tickers. Each tick runs the dispatcher;
// the dispatcher itself serializes overlapping runs per cadence.
func (s *Scheduler) Start() {
	go s.scheduleInterval(time.Duration(s.config.HourlyInterval)*time.Minute, models.FrequencyHourly)
	go s.scheduleInterval(time.Duration(s.config.DailyInterval)*time.Minute, models.FrequencyDaily)
}

// Stop terminates all tickers
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) scheduleInterval(interval time.Duration, frequency string) {
	s.runOnce(frequency)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(frequency)
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) runOnce(frequency string) {
	if _, err := s.dispatcher.Run(frequency); err != nil {
		slog.Error("dispatch run failed", "frequency", frequency, "error", err)
	}
}
