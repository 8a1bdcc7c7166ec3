package model

// Ticket status values.  A ticket starts RESERVED and becomes PAID once
// payment is confirmed upstream; only PAID tickets pass eligibility.
const (
	TicketReserved = "RESERVED"
	TicketPaid     = "PAID"
)

// TicketType describes what a ticket grants.  Remote tickets exclude all
// on-site features; IncludesHotel gates the room booking flow.
type TicketType struct {
	ID            uint64 // ticket_types.id
	Name          string // ticket_types.name
	PriceCents    uint32 // ticket_types.price_cents
	IsRemote      bool   // ticket_types.is_remote
	IncludesHotel bool   // ticket_types.includes_hotel
}

// Ticket belongs to exactly one enrollment.  The Type field is always
// populated by the repository (the eligibility rules need it).
type Ticket struct {
	ID           uint64     // tickets.id
	EnrollmentID uint64     // tickets.enrollment_id (unique)
	TicketTypeID uint64     // tickets.ticket_type_id
	Status       string     // tickets.status (RESERVED or PAID)
	Type         TicketType // joined ticket_types row
}
