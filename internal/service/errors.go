// Package service implements the reservation engine: eligibility
// checking, activity admission control and room booking.  Controllers
// here hold the business rules and run every capacity-sensitive
// mutation inside a store transaction; persistence is reached only
// through the store interfaces declared in this package, so tests can
// substitute in-memory transactional fakes.
package service

import "errors"

// The engine surfaces exactly three error kinds.  Handlers match them
// with errors.Is and translate to transport status codes; everything
// else is an internal failure.

// ErrUnauthorized covers a failed eligibility check, an exhausted
// capacity, a time conflict, and a cancel target the caller does not
// hold.  Handlers translate it into HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned when a referenced activity, hotel or room
// does not exist.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrBadRequest is returned for malformed or missing identifier input,
// such as an application lookup for an activity the user never applied
// to.  Handlers translate it into HTTP 400.
var ErrBadRequest = errors.New("bad request")
