package model

import "time"

// Application is the join row created when a user registers for an
// activity.  (user_id, activity_id) is unique; rows are deleted on
// explicit cancellation only.
type Application struct {
	ID         uint64    // applications.id
	UserID     uint64    // applications.user_id
	ActivityID uint64    // applications.activity_id
	CreatedAt  time.Time // applications.created_at
}

// ApplicationDetail is an application joined with its activity schedule.
// The admission controller uses the schedule fields for the time-conflict
// rule, and the listing endpoint returns them to the client.
type ApplicationDetail struct {
	ID           uint64    `json:"id"`
	ActivityID   uint64    `json:"activity_id"`
	ActivityName string    `json:"activity_name"`
	Capacity     int       `json:"capacity"`
	Date         time.Time `json:"date"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}
