package model

import "time"

// Roles assigned to accounts.  Participants enroll and reserve; admins
// additionally get the administrative booking views.
const (
	RoleParticipant = "PARTICIPANT"
	RoleAdmin       = "ADMIN"
)

// User represents an account able to authenticate against the API.
// Enrollments, applications and bookings all hang off the user ID.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (stored lower-cased)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role (PARTICIPANT or ADMIN)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
