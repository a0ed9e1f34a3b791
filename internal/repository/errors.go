// Package repository defines the MySQL and in-memory stores for
// reservations and notification preferences, along with the sentinel
// errors shared across them.  Higher layers use these values to tell a
// missing record from a failing backend.
package repository

import "errors"

// ErrNotFound is returned when a lookup by primary key matches no row.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// reservation owned by another guest.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
