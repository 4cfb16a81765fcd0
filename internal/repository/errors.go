// Package repository contains data access for users, parking lots and
// bookings, separated from HTTP handlers. This file defines the sentinel
// errors shared by all stores so that handlers can map failures to HTTP
// status codes without inspecting driver-specific errors.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches the given id or email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering with an email that is already
// taken. Handlers translate this into a field-level validation error.
var ErrEmailExists = errors.New("email already exists")

// ErrParkingNotFound is returned when no parking lot matches the given id.
var ErrParkingNotFound = errors.New("parking not found")

// ErrBookingNotFound is returned when no booking matches the given id.
var ErrBookingNotFound = errors.New("booking not found")
