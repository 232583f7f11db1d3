package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

const (
	scenarioPlanning = "planning"
	scenarioRSVP     = "rsvp"
)

var errShutdownTimeout = errors.New("shutdown timeout exceeded")

var loadTitles = []string{"Picnic", "Board games", "Hike", "Book club", "Pub quiz", "Bike tour"}
var loadLocations = []string{"Riverside Park", "Town hall", "Main station", "Library", "Old harbour"}

// LoadConfig controls the request rate and the mix of scenarios.
type LoadConfig struct {
	Rate            int
	ScenarioWeights []int // planning, rsvp; sum to 100
	StatsInterval   time.Duration
}

// LoadGenerator drives an eventlist.Store with concurrent, randomised user actions.
type LoadGenerator struct {
	store  *eventlist.Store
	config LoadConfig
	logger *slog.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu            sync.RWMutex
	startTime     time.Time
	scenarioCount int64
	commitCount   int64
	rsvpCount     int64
	noopCount     int64
}

// LoadStats is a point-in-time copy of the LoadGenerator counters.
type LoadStats struct {
	Scenarios int64
	Commits   int64
	RSVPs     int64
	Noops     int64
	Elapsed   time.Duration
}

// NewLoadGenerator creates a LoadGenerator for store.
func NewLoadGenerator(store *eventlist.Store, config LoadConfig, logger *slog.Logger) *LoadGenerator {
	return &LoadGenerator{
		store:    store,
		config:   config,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start runs scenarios at the configured rate until ctx is cancelled or Stop is called.
func (lg *LoadGenerator) Start(ctx context.Context) error {
	if lg.config.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", lg.config.Rate)
	}

	lg.mu.Lock()
	lg.startTime = time.Now()
	lg.mu.Unlock()

	interval := time.Second / time.Duration(lg.config.Rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lg.logger.Info("load generator starting",
		"rate", lg.config.Rate, "interval", interval.String(), "goroutines", runtime.NumGoroutine())

	if lg.config.StatsInterval > 0 {
		lg.wg.Add(1)
		go lg.statsReporter(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-lg.stopChan:
			return nil

		case <-ticker.C:
			lg.wg.Add(1)
			go func() {
				defer lg.wg.Done()
				lg.executeScenario(ctx, lg.selectScenario())
			}()
		}
	}
}

// Stop ends load generation and waits for running scenarios, at most until ctx is done.
func (lg *LoadGenerator) Stop(ctx context.Context) error {
	lg.stopOnce.Do(func() { close(lg.stopChan) })

	done := make(chan struct{})
	go func() {
		lg.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		lg.logStats("load generator stopped")
		return nil
	case <-ctx.Done():
		lg.logStats("load generator stopped")
		return errShutdownTimeout
	}
}

// Stats returns the current counters.
func (lg *LoadGenerator) Stats() LoadStats {
	lg.mu.RLock()
	defer lg.mu.RUnlock()

	return LoadStats{
		Scenarios: lg.scenarioCount,
		Commits:   lg.commitCount,
		RSVPs:     lg.rsvpCount,
		Noops:     lg.noopCount,
		Elapsed:   time.Since(lg.startTime),
	}
}

func (lg *LoadGenerator) executeScenario(ctx context.Context, scenario string) {
	var applied bool

	switch scenario {
	case scenarioPlanning:
		applied = lg.runPlanningScenario(ctx)
	case scenarioRSVP:
		applied = lg.runRSVPScenario(ctx)
	}

	lg.mu.Lock()
	defer lg.mu.Unlock()

	lg.scenarioCount++
	switch {
	case !applied:
		lg.noopCount++
	case scenario == scenarioPlanning:
		lg.commitCount++
	default:
		lg.rsvpCount++
	}
}

func (lg *LoadGenerator) selectScenario() string {
	if rand.IntN(100) < lg.config.ScenarioWeights[0] { //nolint:gosec // weak random is fine for load
		return scenarioPlanning
	}

	return scenarioRSVP
}

// runPlanningScenario fills all draft fields and commits. Concurrent planners share the one
// Draft, so a commit can find it reset or half-overwritten; that is reported as a no-op.
func (lg *LoadGenerator) runPlanningScenario(ctx context.Context) bool {
	day := rand.IntN(28) + 1 //nolint:gosec // weak random is fine for load
	hour := rand.IntN(12) + 9 //nolint:gosec // weak random is fine for load

	lg.store.UpdateDraftField(ctx, eventlist.FieldTitle, pick(loadTitles))
	lg.store.UpdateDraftField(ctx, eventlist.FieldDate, fmt.Sprintf("2025-07-%02d", day))
	lg.store.UpdateDraftField(ctx, eventlist.FieldTime, fmt.Sprintf("%02d:00", hour))
	lg.store.UpdateDraftField(ctx, eventlist.FieldLocation, pick(loadLocations))

	_, committed := lg.store.CommitDraft(ctx)

	return committed
}

// runRSVPScenario RSVPs to a random existing Event; with no Events it RSVPs to an unknown ID.
func (lg *LoadGenerator) runRSVPScenario(ctx context.Context) bool {
	events := lg.store.Snapshot().Events

	id := eventlist.EventID("no-such-event")
	if len(events) > 0 {
		id = events[rand.IntN(len(events))].ID //nolint:gosec // weak random is fine for load
	}

	_, recorded := lg.store.RecordRSVP(ctx, id)

	return recorded
}

func (lg *LoadGenerator) statsReporter(ctx context.Context) {
	defer lg.wg.Done()

	ticker := time.NewTicker(lg.config.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-lg.stopChan:
			return
		case <-ticker.C:
			lg.logStats("load generator stats")
		}
	}
}

func (lg *LoadGenerator) logStats(msg string) {
	stats := lg.Stats()
	if stats.Elapsed <= 0 {
		return
	}

	lg.logger.Info(msg,
		"scenarios", stats.Scenarios,
		"commits", stats.Commits,
		"rsvps", stats.RSVPs,
		"noops", stats.Noops,
		"per_second", float64(stats.Scenarios)/stats.Elapsed.Seconds(),
		"events", len(lg.store.Snapshot().Events),
		"goroutines", runtime.NumGoroutine(),
	)
}

func parseScenarioWeights(weightsStr string) ([]int, error) {
	parts := strings.Split(weightsStr, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected 2 weights, got %d", len(parts))
	}

	weights := make([]int, 2)
	total := 0
	for i, part := range parts {
		weight, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weight '%s': %w", part, err)
		}
		if weight < 0 || weight > 100 {
			return nil, fmt.Errorf("weight %d out of range [0, 100]", weight)
		}
		weights[i] = weight
		total += weight
	}

	if total != 100 {
		return nil, fmt.Errorf("weights must sum to 100, got %d", total)
	}

	return weights, nil
}

func pick(values []string) string {
	return values[rand.IntN(len(values))] //nolint:gosec // weak random is fine for load
}
