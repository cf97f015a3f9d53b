// Package repository implements the persistence layer over MySQL.  It
// defines the infrastructure sentinel errors shared across repositories;
// domain failures (seat taken, quota exceeded, absorbing ticket states
// and so on) live in the model package so the issuer and lifecycle
// services can return them without importing this package.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by a different organizer, such as updating or deleting
// someone else's event. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")
