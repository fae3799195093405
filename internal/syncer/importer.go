package syncer

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"park-waits-backend/internal/match"
	"park-waits-backend/internal/model"
	"park-waits-backend/internal/queueapi"
)

// ImportResult summarizes one import pass.
type ImportResult struct {
	RidesCreated  int
	RidesExisting int
	RidesExcluded int
	ParksSkipped  int
	FatalErr      error
}

// ImportRides creates Ride rows for source rides not yet tracked. This
// is the only path that creates rides; the sync path never does. Rides
// whose names mark them as walk-throughs, meet-and-greets, or galleries
// are excluded outright since they never publish wait times.
func (e *Engine) ImportRides(ctx context.Context) ImportResult {
	log.Println("Executing ride import...")
	var result ImportResult

	companies, err := e.source.FetchCompanies(ctx)
	if err != nil {
		result.FatalErr = fmt.Errorf("source fetch failed: %w", err)
		return result
	}
	company := findCompany(companies, e.cfg.Sync.CompanyMatch)
	if company == nil {
		result.FatalErr = fmt.Errorf("no company matching %q in source data", e.cfg.Sync.CompanyMatch)
		return result
	}

	parks, err := e.store.ListParks(ctx)
	if err != nil {
		result.FatalErr = fmt.Errorf("failed to preload parks: %w", err)
		return result
	}
	rides, err := e.store.ListRides(ctx)
	if err != nil {
		result.FatalErr = fmt.Errorf("failed to preload rides: %w", err)
		return result
	}

	now := time.Now().In(e.loc)
	for _, sourcePark := range company.Parks {
		park := match.Park(sourcePark.Name, parks)
		if park == nil {
			result.ParksSkipped++
			continue
		}

		queue, err := e.source.FetchParkQueue(ctx, sourcePark.ID)
		if err != nil {
			log.Printf("Error fetching queue for park %q during import: %v", sourcePark.Name, err)
			result.ParksSkipped++
			continue
		}

		var toCreate []model.Ride
		addRide := func(sourceRide queueapi.SourceRide, land string) {
			if match.Excluded(sourceRide.Name) {
				result.RidesExcluded++
				return
			}
			if match.Ride(sourceRide.Name, park.ID, rides) != nil {
				result.RidesExisting++
				return
			}
			toCreate = append(toCreate, newRide(sourceRide, park.ID, land, now))
		}

		for _, land := range queue.Lands {
			for _, sourceRide := range land.Rides {
				addRide(sourceRide, land.Name)
			}
		}
		for _, sourceRide := range queue.Rides {
			addRide(sourceRide, "")
		}

		if len(toCreate) == 0 {
			continue
		}
		if err := e.store.CreateRides(ctx, toCreate); err != nil {
			log.Printf("Error creating %d rides for park %q: %v", len(toCreate), park.Name, err)
			continue
		}
		log.Printf("Imported %d new rides for park %q.", len(toCreate), park.Name)
		result.RidesCreated += len(toCreate)
	}

	return result
}

func newRide(sourceRide queueapi.SourceRide, parkID int64, land string, now time.Time) model.Ride {
	ride := model.Ride{
		ParkID:           parkID,
		Name:             sourceRide.Name,
		Land:             land,
		Type:             classifyRide(sourceRide.Name),
		IsOpen:           sourceRide.IsOpen == nil || *sourceRide.IsOpen,
		HasLightningLane: sourceRide.ReturnStart != "",
		LastUpdated:      now,
	}
	if sourceRide.Meta != nil && sourceRide.Meta.MinHeightCM > 0 {
		ride.HeightRequirement = formatHeight(sourceRide.Meta.MinHeightCM)
	}
	return ride
}

// classifyRide maps a ride name onto the type enum by keyword. The feed
// carries no category field, so this stays a best-effort heuristic;
// admins can correct the type afterwards.
func classifyRide(name string) model.RideType {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "coaster", "mountain", "tower of terror", "rock 'n'"):
		return model.RideTypeThrill
	case containsAny(n, "rapids", "falls", "splash", "flume", "jet ski"):
		return model.RideTypeWater
	case containsAny(n, "show", "theater", "theatre", "musical", "sing-along", "philharmagic"):
		return model.RideTypeShow
	case containsAny(n, "spin", "carousel", "orbiter", "teacup", "aladdin", "dumbo"):
		return model.RideTypeSpinner
	case containsAny(n, "mansion", "pirates", "small world", "ratatouille", "mermaid"):
		return model.RideTypeDarkRide
	default:
		return model.RideTypeFamily
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// formatHeight renders a minimum height in the familiar inches-first
// display form, e.g. `44" (112 cm)`.
func formatHeight(cm int) string {
	inches := int(math.Round(float64(cm) / 2.54))
	return fmt.Sprintf("%d\" (%d cm)", inches, cm)
}
