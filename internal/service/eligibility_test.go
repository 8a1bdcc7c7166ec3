package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confera/registration-api/internal/model"
)

type fakeEnrollments struct {
	byUser map[uint64]*model.Enrollment
}

func (f *fakeEnrollments) EnrollmentByUser(_ context.Context, userID uint64) (*model.Enrollment, error) {
	return f.byUser[userID], nil
}

type fakeTickets struct {
	byEnrollment map[uint64]*model.Ticket
}

func (f *fakeTickets) TicketByEnrollment(_ context.Context, enrollmentID uint64) (*model.Ticket, error) {
	return f.byEnrollment[enrollmentID], nil
}

// eligibilityWith builds a checker where each given user holds an
// enrollment (id == user id) and the described ticket.
func eligibilityWith(status string, isRemote, includesHotel bool, users ...uint64) *Eligibility {
	enrollments := &fakeEnrollments{byUser: map[uint64]*model.Enrollment{}}
	tickets := &fakeTickets{byEnrollment: map[uint64]*model.Ticket{}}
	for _, u := range users {
		enrollments.byUser[u] = &model.Enrollment{ID: u, UserID: u}
		tickets.byEnrollment[u] = &model.Ticket{
			ID:           u,
			EnrollmentID: u,
			Status:       status,
			Type:         model.TicketType{IsRemote: isRemote, IncludesHotel: includesHotel},
		}
	}
	return NewEligibility(enrollments, tickets)
}

// paidEligibility is the happy path: paid, on-site, hotel included.
func paidEligibility(users ...uint64) *Eligibility {
	return eligibilityWith(model.TicketPaid, false, true, users...)
}

func TestCheckWithoutEnrollment(t *testing.T) {
	e := paidEligibility() // nobody enrolled
	err := e.Check(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckWithoutTicket(t *testing.T) {
	enrollments := &fakeEnrollments{byUser: map[uint64]*model.Enrollment{
		1: {ID: 1, UserID: 1},
	}}
	tickets := &fakeTickets{byEnrollment: map[uint64]*model.Ticket{}}
	e := NewEligibility(enrollments, tickets)

	err := e.Check(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckUnpaidTicket(t *testing.T) {
	e := eligibilityWith(model.TicketReserved, false, true, 1)
	err := e.Check(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckRemoteTicket(t *testing.T) {
	// A paid remote ticket still grants nothing on-site.
	e := eligibilityWith(model.TicketPaid, true, false, 1)
	err := e.Check(context.Background(), 1, false)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckPaidOnSiteTicket(t *testing.T) {
	e := eligibilityWith(model.TicketPaid, false, false, 1)
	require.NoError(t, e.Check(context.Background(), 1, false))
}

func TestCheckHotelRequirement(t *testing.T) {
	withoutHotel := eligibilityWith(model.TicketPaid, false, false, 1)
	assert.ErrorIs(t, withoutHotel.Check(context.Background(), 1, true), ErrUnauthorized)

	withHotel := paidEligibility(1)
	assert.NoError(t, withHotel.Check(context.Background(), 1, true))
}
