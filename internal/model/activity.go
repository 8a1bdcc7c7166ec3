package model

import "time"

// Venue is the auditorium or room where activities take place.
type Venue struct {
	ID   uint64 // venues.id
	Name string // venues.name
}

// Activity is a scheduled event slot with a hard seat limit.  Activities
// are provisioned upstream and are read-only to this service; only
// applications against them are mutated here.
//
// Date carries the calendar day (midnight UTC) while StartsAt/EndsAt are
// the full start and end timestamps.  The admission conflict rule
// compares Date plus the StartsAt/EndsAt boundaries for equality.
type Activity struct {
	ID        uint64    // activities.id
	VenueID   uint64    // activities.venue_id
	Name      string    // activities.name
	Capacity  int       // activities.capacity (>= 1)
	Date      time.Time // activities.date
	StartsAt  time.Time // activities.starts_at
	EndsAt    time.Time // activities.ends_at
	CreatedAt time.Time // activities.created_at
	UpdatedAt time.Time // activities.updated_at

	VenueName string // joined venues.name, empty when not loaded
}

// VenueActivities groups a venue with its activities on a given day.
// Returned by the by-date browse endpoint.
type VenueActivities struct {
	Venue      Venue
	Activities []Activity
}
