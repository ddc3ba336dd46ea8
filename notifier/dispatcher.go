// Package notifier implements the scheduled weather update dispatcher
package notifier

import (
	"fmt"
	"log/slog"
	"sync"

	"weathersub.app/metrics"
	"weathersub.app/models"
)

// SubscriptionSource supplies the confirmed-subscriber snapshot for a cadence
type SubscriptionSource interface {
	GetConfirmedByFrequency(frequency string) ([]models.Subscription, error)
}

// WeatherSource returns current conditions for a city
type WeatherSource interface {
	GetWeather(city string) (*models.WeatherResponse, error)
}

// UpdateSender delivers one weather update email
type UpdateSender interface {
	SendWeatherUpdateEmail(email, city string, weather *models.WeatherResponse, unsubscribeURL string) error
}

// RunReport summarizes one dispatch run
type RunReport struct {
	Frequency string
	Total     int
	Sent      int
	Failed    int
	Skipped   bool
}

// Dispatcher fans weather updates out to confirmed subscribers of a
// cadence. Weather is looked up at most once per distinct city per run,
// and one recipient's failure never aborts the run.
type Dispatcher struct {
	subscriptions SubscriptionSource
	weather       WeatherSource
	emails        UpdateSender
	metrics       *metrics.NotifierMetrics
	appBaseURL    string
	workers       int

	mu       sync.Mutex
	runLocks map[string]*sync.Mutex
}

// NewDispatcher creates a dispatcher with a bounded send worker pool
func NewDispatcher(
	subscriptions SubscriptionSource,
	weather WeatherSource,
	emails UpdateSender,
	notifierMetrics *metrics.NotifierMetrics,
	appBaseURL string,
	workers int,
) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		subscriptions: subscriptions,
		weather:       weather,
		emails:        emails,
		metrics:       notifierMetrics,
		appBaseURL:    appBaseURL,
		workers:       workers,
		runLocks:      make(map[string]*sync.Mutex),
	}
}

// Run executes one dispatch for the given cadence. Overlapping runs for
// the same cadence are skipped instead of doubling deliveries.
func (d *Dispatcher) Run(frequency string) (RunReport, error) {
	report := RunReport{Frequency: frequency}

	lock := d.lockFor(frequency)
	if !lock.TryLock() {
		slog.Warn("dispatch run already in progress, skipping", "frequency", frequency)
		report.Skipped = true
		return report, nil
	}
	defer lock.Unlock()

	subscribers, err := d.subscriptions.GetConfirmedByFrequency(frequency)
	if err != nil {
		return report, fmt.Errorf("load subscribers for %s updates: %w", frequency, err)
	}
	report.Total = len(subscribers)

	d.metrics.RecordRun(frequency)

	if len(subscribers) == 0 {
		slog.Debug("no confirmed subscribers", "frequency", frequency)
		return report, nil
	}

	readings, lookupErrs := d.collectReadings(subscribers)
	sent, failed := d.fanOut(subscribers, readings, lookupErrs)

	report.Sent = sent
	report.Failed = failed
	d.metrics.RecordSent(frequency, sent)
	d.metrics.RecordFailed(frequency, failed)

	slog.Info("dispatch run complete",
		"frequency", frequency,
		"subscribers", report.Total,
		"cities", len(readings)+len(lookupErrs),
		"sent", sent,
		"failed", failed,
	)

	return report, nil
}

// collectReadings fetches weather once per distinct city in snapshot
// order. A failed lookup is recorded per city so only that city's
// subscribers are affected.
func (d *Dispatcher) collectReadings(subscribers []models.Subscription) (map[string]*models.WeatherResponse, map[string]error) {
	readings := make(map[string]*models.WeatherResponse)
	lookupErrs := make(map[string]error)

	for _, subscriber := range subscribers {
		city := subscriber.City
		if _, seen := readings[city]; seen {
			continue
		}
		if _, seen := lookupErrs[city]; seen {
			continue
		}

		weather, err := d.weather.GetWeather(city)
		if err != nil {
			slog.Warn("weather lookup failed", "city", city, "error", err)
			lookupErrs[city] = err
			continue
		}
		readings[city] = weather
	}

	return readings, lookupErrs
}

// fanOut sends one email per subscriber over a bounded worker pool.
// Results are captured per subscriber; failures are counted, never
// propagated.
func (d *Dispatcher) fanOut(subscribers []models.Subscription, readings map[string]*models.WeatherResponse, lookupErrs map[string]error) (sent, failed int) {
	var (
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, d.workers)
		results   = make(chan error, len(subscribers))
	)

	for _, subscriber := range subscribers {
		weather, ok := readings[subscriber.City]
		if !ok {
			results <- fmt.Errorf("no weather for %s: %w", subscriber.City, lookupErrs[subscriber.City])
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(subscriber models.Subscription, weather *models.WeatherResponse) {
			defer wg.Done()
			defer func() { <-semaphore }()

			results <- d.sendToSubscriber(subscriber, weather)
		}(subscriber, weather)
	}

	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			slog.Warn("weather update delivery failed", "error", err)
			failed++
			continue
		}
		sent++
	}

	return sent, failed
}

func (d *Dispatcher) sendToSubscriber(subscriber models.Subscription, weather *models.WeatherResponse) error {
	unsubscribeURL := fmt.Sprintf("%s/api/unsubscribe/%s", d.appBaseURL, subscriber.Token.Value)

	if err := d.emails.SendWeatherUpdateEmail(subscriber.Email, subscriber.City, weather, unsubscribeURL); err != nil {
		return fmt.Errorf("send update to %s: %w", subscriber.Email, err)
	}
	return nil
}

func (d *Dispatcher) lockFor(frequency string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	lock, ok := d.runLocks[frequency]
	if !ok {
		lock = &sync.Mutex{}
		d.runLocks[frequency] = lock
	}
	return lock
}
