package queueapi

// Company is one park operator in the queue-time feed.
type Company struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Parks []SourcePark `json:"parks"`
}

// SourcePark is a park as listed by the upstream feed.
type SourcePark struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ParkQueue is the per-park detail document: rides grouped by land.
// Some parks also report rides at the top level, outside any land.
type ParkQueue struct {
	Lands []Land       `json:"lands"`
	Rides []SourceRide `json:"rides"`
}

// Land groups rides within a park area.
type Land struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Rides []SourceRide `json:"rides"`
}

// SourceRide is one attraction's live state from the feed.
// WaitTime and IsOpen are pointers because the upstream omits them for
// some attractions; absence of IsOpen means open.
type SourceRide struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	WaitTime    *int      `json:"wait_time"`
	IsOpen      *bool     `json:"is_open"`
	ReturnStart string    `json:"return_start"`
	ReturnEnd   string    `json:"return_end"`
	Meta        *RideMeta `json:"meta"`
}

// RideMeta carries optional per-ride metadata.
type RideMeta struct {
	MinHeightCM int `json:"min_height_cm"`
}
