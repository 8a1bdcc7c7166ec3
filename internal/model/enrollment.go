package model

import "time"

// Enrollment holds the personal data a user submits before buying a
// ticket.  Each user has at most one enrollment (unique user_id) and
// each enrollment owns exactly one address and one ticket lineage.
type Enrollment struct {
	ID        uint64    // enrollments.id
	UserID    uint64    // enrollments.user_id (unique)
	Name      string    // enrollments.name
	Document  string    // enrollments.document (national ID)
	Phone     string    // enrollments.phone
	Birthday  time.Time // enrollments.birthday
	CreatedAt time.Time // enrollments.created_at
	UpdatedAt time.Time // enrollments.updated_at

	Address *Address // joined addresses row, nil when not loaded
}

// Address is the postal address attached to an enrollment.  One row per
// enrollment (unique enrollment_id); submitted and updated together with
// the enrollment itself.
type Address struct {
	ID           uint64 // addresses.id
	EnrollmentID uint64 // addresses.enrollment_id (unique)
	Street       string // addresses.street
	Number       string // addresses.number
	District     string // addresses.district
	City         string // addresses.city
	State        string // addresses.state
	PostalCode   string // addresses.postal_code
}
