package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/confera/registration-api/internal/model"
)

// TicketRepo reads tickets and their types.  Tickets are provisioned
// and paid upstream; this service only consumes them for eligibility.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a repo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// TicketByEnrollment loads the ticket owned by an enrollment together
// with its type.  Returns nil, nil when the enrollment has no ticket.
func (r *TicketRepo) TicketByEnrollment(ctx context.Context, enrollmentID uint64) (*model.Ticket, error) {
	const q = `SELECT t.id, t.enrollment_id, t.ticket_type_id, t.status,
	                  tt.id, tt.name, tt.price_cents, tt.is_remote, tt.includes_hotel
	           FROM tickets t
	           JOIN ticket_types tt ON tt.id = t.ticket_type_id
	           WHERE t.enrollment_id = ?`
	var t model.Ticket
	err := r.db.QueryRowContext(ctx, q, enrollmentID).Scan(
		&t.ID, &t.EnrollmentID, &t.TicketTypeID, &t.Status,
		&t.Type.ID, &t.Type.Name, &t.Type.PriceCents, &t.Type.IsRemote, &t.Type.IncludesHotel,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
