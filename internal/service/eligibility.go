package service

import (
	"context"

	"github.com/confera/registration-api/internal/model"
)

// EnrollmentSource loads the enrollment attached to a user.  A nil
// enrollment with nil error means the user never submitted one.
type EnrollmentSource interface {
	EnrollmentByUser(ctx context.Context, userID uint64) (*model.Enrollment, error)
}

// TicketSource loads the ticket owned by an enrollment, with its type
// populated.  A nil ticket with nil error means no ticket exists yet.
type TicketSource interface {
	TicketByEnrollment(ctx context.Context, enrollmentID uint64) (*model.Ticket, error)
}

// Eligibility decides whether a user may use the reservation features at
// all.  Every admission and booking operation runs this check first.
// The check is a pure read; it never mutates state.
type Eligibility struct {
	enrollments EnrollmentSource
	tickets     TicketSource
}

// NewEligibility constructs the checker from its two data sources.
func NewEligibility(enrollments EnrollmentSource, tickets TicketSource) *Eligibility {
	if enrollments == nil || tickets == nil {
		panic("nil store passed to NewEligibility")
	}
	return &Eligibility{enrollments: enrollments, tickets: tickets}
}

// Check returns nil when the user holds an enrollment and a paid,
// non-remote ticket.  With requireHotel set, the ticket type must also
// include hotel access.  Every other state is ErrUnauthorized.
func (e *Eligibility) Check(ctx context.Context, userID uint64, requireHotel bool) error {
	enrollment, err := e.enrollments.EnrollmentByUser(ctx, userID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return ErrUnauthorized
	}
	ticket, err := e.tickets.TicketByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return err
	}
	if ticket == nil || ticket.Status != model.TicketPaid || ticket.Type.IsRemote {
		return ErrUnauthorized
	}
	if requireHotel && !ticket.Type.IncludesHotel {
		return ErrUnauthorized
	}
	return nil
}
