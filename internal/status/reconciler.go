package status

import (
	"context"
	"fmt"
	"log"
	"time"

	"park-waits-backend/config"
	"park-waits-backend/internal/model"
	"park-waits-backend/internal/parse"
	"park-waits-backend/internal/store"
)

// Result summarizes one reconciliation pass. RidesClosed counts actual
// writes, so a converged second pass reports zero.
type Result struct {
	ParksClosed int
	ParksOpen   int
	RidesClosed int
	HoursSynced int
	Errors      int
}

// Reconciler forces rides closed when their park is closed or has no
// hours data for today. It is a safety pass independent of the sync
// engine's optimistic default-open handling, and is idempotent: rides
// already closed with zero wait are not rewritten.
type Reconciler struct {
	cfg   *config.Config
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

// NewReconciler creates a status reconciler. Park hours are evaluated in
// the configured park timezone.
func NewReconciler(cfg *config.Config, st store.Store) *Reconciler {
	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		log.Printf("Warning: invalid timezone %q: %v. Falling back to UTC.", cfg.Sync.Timezone, err)
		loc = time.UTC
	}
	return &Reconciler{cfg: cfg, store: st, loc: loc, now: time.Now}
}

// SetNow overrides the clock. Used by tests to pin the evaluation time.
func (r *Reconciler) SetNow(now func() time.Time) {
	r.now = now
}

// Run starts the reconciliation loop until the context is cancelled.
// It runs on its own, typically shorter, schedule than the sync engine
// so closures near park open/close boundaries are picked up quickly.
func (r *Reconciler) Run(ctx context.Context) {
	log.Println("Starting status reconciler...")

	r.ReconcileOnce(ctx)

	timer := time.NewTimer(r.cfg.Sync.ReconcileInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Status reconciler shutting down.")
			return
		case <-timer.C:
			r.ReconcileOnce(ctx)
			timer.Reset(r.cfg.Sync.ReconcileInterval)
		}
	}
}

// ReconcileOnce performs one full park/ride scan.
func (r *Reconciler) ReconcileOnce(ctx context.Context) Result {
	var result Result

	now := r.now().In(r.loc)
	today := now.Format("2006-01-02")

	parks, err := r.store.ListParks(ctx)
	if err != nil {
		log.Printf("Reconcile pass aborted: %v", err)
		result.Errors++
		return result
	}
	hoursByPark, err := r.store.ParkHoursOn(ctx, today)
	if err != nil {
		log.Printf("Reconcile pass aborted: %v", err)
		result.Errors++
		return result
	}
	rides, err := r.store.ListRides(ctx)
	if err != nil {
		log.Printf("Reconcile pass aborted: %v", err)
		result.Errors++
		return result
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	for _, park := range parks {
		hours, hasHours := hoursByPark[park.ID]

		display := "Closed"
		if hasHours && !hours.IsClosed {
			display = fmt.Sprintf("%s - %s", hours.OpenTime, hours.CloseTime)
		}
		if park.OperatingHours != display {
			if err := r.store.UpdateParkOperatingHours(ctx, park.ID, display); err != nil {
				log.Printf("Error updating hours display for park %d: %v", park.ID, err)
				result.Errors++
			} else {
				result.HoursSynced++
			}
		}

		if !parkClosedNow(hours, hasHours, nowMinutes) {
			result.ParksOpen++
			continue
		}
		result.ParksClosed++

		for _, ride := range rides {
			if ride.ParkID != park.ID {
				continue
			}
			// Skip rides already converged to avoid redundant writes.
			if !ride.IsOpen && ride.CurrentWaitMinutes != nil && *ride.CurrentWaitMinutes == 0 {
				continue
			}
			if err := r.store.CloseRide(ctx, ride.ID); err != nil {
				log.Printf("Error closing ride %d: %v", ride.ID, err)
				result.Errors++
				continue
			}
			result.RidesClosed++
		}
	}

	if result.RidesClosed > 0 || result.Errors > 0 {
		log.Printf("Reconcile pass finished: %d parks closed, %d rides forced closed, %d errors.",
			result.ParksClosed, result.RidesClosed, result.Errors)
	}
	return result
}

// parkClosedNow decides whether a park is closed at the given minute of
// the day. No hours row or an explicit closure flag closes the park; an
// operating window closes it outside [open, close) — open inclusive,
// close exclusive. A window with missing or unparseable bounds does not
// close the park on its own.
func parkClosedNow(hours model.ParkHours, hasHours bool, nowMinutes int) bool {
	if !hasHours {
		return true
	}
	if hours.IsClosed {
		return true
	}
	if hours.OpenTime == "" || hours.CloseTime == "" {
		return false
	}

	openMin, err := parse.ClockMinutes(hours.OpenTime)
	if err != nil {
		log.Printf("Warning: unparseable open time %q for park %d", hours.OpenTime, hours.ParkID)
		return false
	}
	closeMin, err := parse.ClockMinutes(hours.CloseTime)
	if err != nil {
		log.Printf("Warning: unparseable close time %q for park %d", hours.CloseTime, hours.ParkID)
		return false
	}

	return nowMinutes < openMin || nowMinutes >= closeMin
}
