package model

import "time"

// Booking represents a time-bounded reservation of a parking lot by a user.
// The booking is owned by the referencing user and by the referenced
// parking: deleting either cascades to the booking. StartTime must be
// strictly before EndTime; both are stored in UTC.
//
// Fields:
//  BookingID – primary key, assigned as max(booking_id)+1 on creation.
//  ParkingID – references parking.parking_id (must exist at creation).
//  UserID    – references users.id (the owner).
//  StartTime – beginning of the reserved window.
//  EndTime   – end of the reserved window.
type Booking struct {
	BookingID int64     // booking.booking_id
	ParkingID int64     // booking.parking_id
	UserID    int64     // booking.user_id
	StartTime time.Time // booking.start_time
	EndTime   time.Time // booking.end_time
}

// BookingDetail is a booking joined with its owner and parking lot. API
// responses embed the full user and parking objects, so list and detail
// queries return this shape directly.
type BookingDetail struct {
	Booking Booking
	User    User
	Parking Parking
}
