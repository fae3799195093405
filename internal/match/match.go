package match

import (
	"strings"

	"park-waits-backend/internal/model"
)

// parkAlias maps a substring of the normalized third-party park name to
// the internal park it must resolve to, identified by a substring of the
// internal normalized name or an exact slug.
type parkAlias struct {
	sourceContains string
	nameContains   string
	slug           string
}

// Alias rules for the four core parks. The third-party feed uses longer
// display names ("Magic Kingdom Park", "Disney's Hollywood Studios") than
// the internal records, so exact equality alone is not enough.
var parkAliases = []parkAlias{
	{sourceContains: "magic", nameContains: "magickingdom", slug: "magic-kingdom"},
	{sourceContains: "epcot", nameContains: "epcot", slug: "epcot"},
	{sourceContains: "hollywood", nameContains: "hollywoodstudios", slug: "hollywood-studios"},
	{sourceContains: "animal", nameContains: "animalkingdom", slug: "animal-kingdom"},
}

// excludedRideSubstrings marks attraction names that never publish wait
// times (walk-throughs, meet and greets, galleries). Rides matching any
// entry are skipped entirely on import.
var excludedRideSubstrings = []string{
	"meet",
	"walkthrough",
	"walkthru",
	"gallery",
	"exhibit",
	"playground",
}

// Normalize lowers a name and strips whitespace, apostrophes, and
// hyphens so that cosmetic differences between the feed and internal
// records do not break matching.
func Normalize(name string) string {
	s := strings.ToLower(name)
	replacer := strings.NewReplacer(
		" ", "",
		"\t", "",
		"'", "",
		"’", "",
		"-", "",
	)
	return replacer.Replace(s)
}

// Park resolves a third-party park name to an internal park record.
// Resolution is deterministic: exact normalized equality first, then the
// fixed alias table. A nil result means the park is not tracked and the
// caller must skip it.
func Park(sourceName string, parks []model.Park) *model.Park {
	normalized := Normalize(sourceName)

	for i := range parks {
		if Normalize(parks[i].Name) == normalized {
			return &parks[i]
		}
	}

	for _, alias := range parkAliases {
		if !strings.Contains(normalized, alias.sourceContains) {
			continue
		}
		for i := range parks {
			if strings.Contains(Normalize(parks[i].Name), alias.nameContains) || parks[i].Slug == alias.slug {
				return &parks[i]
			}
		}
	}

	return nil
}

// Ride resolves a third-party ride name within a matched park. The feed
// and internal records share exact ride names, so the match is plain
// equality scoped to the park. A nil result means the ride is not
// tracked and the sync path must skip it.
func Ride(sourceName string, parkID int64, rides []model.Ride) *model.Ride {
	for i := range rides {
		if rides[i].ParkID == parkID && rides[i].Name == sourceName {
			return &rides[i]
		}
	}
	return nil
}

// Excluded reports whether a ride name belongs to an attraction type
// that never publishes wait times. Such rides are never created and
// never synced.
func Excluded(rideName string) bool {
	normalized := Normalize(rideName)
	for _, sub := range excludedRideSubstrings {
		if strings.Contains(normalized, sub) {
			return true
		}
	}
	return false
}
