// Package policy holds the authorization rules as pure predicates over a
// resolved principal and a target resource. Handlers never test is_admin or
// ownership inline; every allow/deny decision lives here.
package policy

import "github.com/sanyovichhh/parkmate-backend/internal/model"

// CanAccessUser reports whether the principal may read or delete the user
// account with the given id: admins and the account owner only.
func CanAccessUser(principal *model.User, targetID int64) bool {
	if principal == nil {
		return false
	}
	return principal.IsAdmin || principal.ID == targetID
}

// CanAccessBooking reports whether the principal may read, update or delete
// the booking: admins and the booking owner only.
func CanAccessBooking(principal *model.User, b *model.Booking) bool {
	if principal == nil || b == nil {
		return false
	}
	return principal.IsAdmin || principal.ID == b.UserID
}

// SeesAllBookings reports whether a booking listing is unscoped for the
// principal. Non-admins only ever see their own bookings.
func SeesAllBookings(principal *model.User) bool {
	return principal != nil && principal.IsAdmin
}
