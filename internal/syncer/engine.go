package syncer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"park-waits-backend/config"
	"park-waits-backend/internal/match"
	"park-waits-backend/internal/model"
	"park-waits-backend/internal/queueapi"
	"park-waits-backend/internal/store"
)

// SourceAPI is the slice of the queue API client the engine uses.
type SourceAPI interface {
	FetchCompanies(ctx context.Context) ([]queueapi.Company, error)
	FetchParkQueue(ctx context.Context, parkID int64) (*queueapi.ParkQueue, error)
}

// Notifier receives ride IDs whose state change warrants an alert.
type Notifier interface {
	Dispatch(rideID int64)
}

// CycleResult summarizes one sync pass. The engine never panics or
// returns a bare error past its entry point; fatal conditions are
// carried in FatalErr and everything else is counted.
type CycleResult struct {
	ParksMatched int
	ParksSkipped int
	ParkErrors   int
	RidesUpdated int
	RidesSkipped int
	RideErrors   int
	HistoryRows  int
	FatalErr     error
}

// Fatal reports whether the cycle aborted before completing.
func (r CycleResult) Fatal() bool {
	return r.FatalErr != nil
}

// Engine runs the periodic wait-time synchronization: fetch the source
// dataset, match parks and rides to internal records, update live state,
// and append history.
type Engine struct {
	cfg      *config.Config
	store    store.Store
	source   SourceAPI
	notifier Notifier
	loc      *time.Location
}

// NewEngine creates a sync engine. The notifier may be nil when no
// alerting is wired, e.g. in tests.
func NewEngine(cfg *config.Config, st store.Store, source SourceAPI, notifier Notifier) *Engine {
	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		log.Printf("Warning: invalid timezone %q: %v. Falling back to UTC.", cfg.Sync.Timezone, err)
		loc = time.UTC
	}

	return &Engine{
		cfg:      cfg,
		store:    st,
		source:   source,
		notifier: notifier,
		loc:      loc,
	}
}

// Run starts the sync loop until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	if !e.cfg.Sync.Enabled {
		log.Println("Sync engine is disabled. Not starting.")
		return
	}
	log.Println("Starting sync engine...")

	e.SyncOnce(ctx)

	timer := time.NewTimer(e.cfg.Sync.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sync engine shutting down.")
			return
		case <-timer.C:
			e.SyncOnce(ctx)
			timer.Reset(e.cfg.Sync.Interval)
		}
	}
}

// SyncOnce performs one full synchronization pass across all tracked
// parks. Individual park and ride failures are logged and counted; only
// a failed source fetch or a missing Disney group aborts the cycle, and
// both happen before any entity is mutated.
func (e *Engine) SyncOnce(ctx context.Context) CycleResult {
	log.Println("Executing sync cycle...")
	var result CycleResult

	companies, err := e.source.FetchCompanies(ctx)
	if err != nil {
		result.FatalErr = fmt.Errorf("source fetch failed: %w", err)
		log.Printf("Sync cycle aborted: %v", result.FatalErr)
		return result
	}

	company := findCompany(companies, e.cfg.Sync.CompanyMatch)
	if company == nil {
		result.FatalErr = fmt.Errorf("no company matching %q in source data", e.cfg.Sync.CompanyMatch)
		log.Printf("Sync cycle aborted: %v", result.FatalErr)
		return result
	}

	// Preload all internal records once rather than per park.
	parks, err := e.store.ListParks(ctx)
	if err != nil {
		result.FatalErr = fmt.Errorf("failed to preload parks: %w", err)
		log.Printf("Sync cycle aborted: %v", result.FatalErr)
		return result
	}
	rides, err := e.store.ListRides(ctx)
	if err != nil {
		result.FatalErr = fmt.Errorf("failed to preload rides: %w", err)
		log.Printf("Sync cycle aborted: %v", result.FatalErr)
		return result
	}

	for _, sourcePark := range company.Parks {
		park := match.Park(sourcePark.Name, parks)
		if park == nil {
			log.Printf("No internal park matches %q; skipping.", sourcePark.Name)
			result.ParksSkipped++
			continue
		}
		result.ParksMatched++
		e.syncPark(ctx, sourcePark, park, rides, &result)
	}

	log.Printf("Sync cycle finished: %d parks matched, %d skipped, %d rides updated, %d ride errors, %d history rows.",
		result.ParksMatched, result.ParksSkipped, result.RidesUpdated, result.RideErrors, result.HistoryRows)
	return result
}

// rideSync is one resolved ride update, computed before the concurrent
// fan-out so goroutines share nothing mutable.
type rideSync struct {
	ride        model.Ride
	update      store.RideStateUpdate
	recordWait  bool
	waitMinutes int
	reopened    bool
}

// syncPark processes one matched park: fetch its queue detail, resolve
// rides, fan out state updates, and append the park's history batch.
func (e *Engine) syncPark(ctx context.Context, sourcePark queueapi.SourcePark, park *model.Park, rides []model.Ride, result *CycleResult) {
	queue, err := e.source.FetchParkQueue(ctx, sourcePark.ID)
	if err != nil {
		log.Printf("Error fetching queue for park %q: %v", sourcePark.Name, err)
		result.ParkErrors++
		return
	}

	now := time.Now().In(e.loc)
	var pending []rideSync
	for _, sourceRide := range flattenRides(queue) {
		ride := match.Ride(sourceRide.Name, park.ID, rides)
		if ride == nil {
			result.RidesSkipped++
			continue
		}
		pending = append(pending, buildRideSync(*ride, sourceRide, now))
	}

	if len(pending) == 0 {
		return
	}

	// Fan out the state updates; each ride's failure is isolated and
	// must not block its siblings.
	type updateOutcome struct {
		rideID   int64
		reopened bool
		err      error
	}
	outcomes := make(chan updateOutcome, len(pending))
	var wg sync.WaitGroup
	for _, p := range pending {
		wg.Add(1)
		go func(p rideSync) {
			defer wg.Done()
			err := e.store.UpdateRideState(ctx, p.ride.ID, p.update)
			outcomes <- updateOutcome{rideID: p.ride.ID, reopened: p.reopened, err: err}
		}(p)
	}
	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		if outcome.err != nil {
			log.Printf("Error updating ride %d: %v", outcome.rideID, outcome.err)
			result.RideErrors++
			continue
		}
		result.RidesUpdated++
		if outcome.reopened && e.notifier != nil {
			e.notifier.Dispatch(outcome.rideID)
		}
	}

	// One history batch per park. A sample is recorded only for open
	// rides whose wait was actually present in the source, explicit 0
	// included.
	var history []model.WaitTimeHistory
	for _, p := range pending {
		if !p.recordWait {
			continue
		}
		history = append(history, model.WaitTimeHistory{
			RideID:      p.ride.ID,
			ParkID:      park.ID,
			WaitMinutes: p.waitMinutes,
			RecordedAt:  now,
			HourOfDay:   now.Hour(),
			DayOfWeek:   int(now.Weekday()),
		})
	}
	if err := e.store.BulkCreateHistory(ctx, history); err != nil {
		log.Printf("Error inserting history batch for park %q: %v", park.Name, err)
		result.ParkErrors++
		return
	}
	result.HistoryRows += len(history)
}

// buildRideSync computes the update for one matched ride. The upstream
// is_open flag defaults to open when absent; only an explicit false
// closes the ride.
func buildRideSync(ride model.Ride, sourceRide queueapi.SourceRide, now time.Time) rideSync {
	wait := 0
	if sourceRide.WaitTime != nil {
		wait = *sourceRide.WaitTime
	}
	if wait < 0 {
		wait = 0
	}

	isOpen := sourceRide.IsOpen == nil || *sourceRide.IsOpen

	update := store.RideStateUpdate{
		IsOpen:      isOpen,
		LastUpdated: now,
	}
	if isOpen {
		update.WaitMinutes = wait
	}
	if sourceRide.ReturnStart != "" {
		update.LightningLaneTimes = []model.LightningLaneSlot{
			{Time: sourceRide.ReturnStart, Available: true},
		}
	}

	return rideSync{
		ride:        ride,
		update:      update,
		recordWait:  isOpen && sourceRide.WaitTime != nil,
		waitMinutes: wait,
		reopened:    isOpen && !ride.IsOpen,
	}
}

// flattenRides merges land-grouped and top-level rides into one list.
func flattenRides(queue *queueapi.ParkQueue) []queueapi.SourceRide {
	var all []queueapi.SourceRide
	for _, land := range queue.Lands {
		all = append(all, land.Rides...)
	}
	all = append(all, queue.Rides...)
	return all
}

// findCompany locates the tracked operator by case-insensitive substring.
func findCompany(companies []queueapi.Company, match string) *queueapi.Company {
	needle := strings.ToLower(match)
	for i := range companies {
		if strings.Contains(strings.ToLower(companies[i].Name), needle) {
			return &companies[i]
		}
	}
	return nil
}
