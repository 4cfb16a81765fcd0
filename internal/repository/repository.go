package repository

import (
	"context"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
)

// UserStore persists user accounts. Handlers depend on this interface
// rather than the MySQL implementation so business rules stay decoupled
// from the storage engine.
type UserStore interface {
	// Create inserts a new user and returns the assigned id. The
	// PasswordHash field must already be set by the caller. Returns
	// ErrEmailExists when the normalized email is taken.
	Create(ctx context.Context, u *model.User) (int64, error)
	// GetByEmail fetches a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID fetches a user by primary key.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// Delete removes a user and cascades to the user's bookings.
	Delete(ctx context.Context, id int64) error
}

// ParkingStore persists parking lots.
type ParkingStore interface {
	// Create inserts a new lot, assigning ParkingID = max(parking_id)+1
	// (1 on an empty table) and populating it on p.
	Create(ctx context.Context, p *model.Parking) error
	// GetByID fetches a lot by its externally visible id.
	GetByID(ctx context.Context, id int64) (*model.Parking, error)
	// List returns all lots ordered by id.
	List(ctx context.Context) ([]*model.Parking, error)
	// Update writes the full row for p.ParkingID. Callers merge partial
	// updates into a fetched record before calling.
	Update(ctx context.Context, p *model.Parking) error
	// Delete removes a lot and cascades to its bookings.
	Delete(ctx context.Context, id int64) error
}

// BookingStore persists bookings.
type BookingStore interface {
	// Create inserts a new booking, assigning BookingID like ParkingStore
	// assigns parking ids. Referential checks are the caller's concern.
	Create(ctx context.Context, b *model.Booking) error
	// GetByID fetches a bare booking row.
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	// GetDetail fetches a booking joined with its owner and parking lot.
	GetDetail(ctx context.Context, id int64) (*model.BookingDetail, error)
	// ListAll returns every booking with owner and lot, ordered by id.
	ListAll(ctx context.Context) ([]*model.BookingDetail, error)
	// ListByUser returns the bookings owned by userID, ordered by id.
	ListByUser(ctx context.Context, userID int64) ([]*model.BookingDetail, error)
	// Update writes the full row for b.BookingID.
	Update(ctx context.Context, b *model.Booking) error
	// Delete removes a single booking.
	Delete(ctx context.Context, id int64) error
}
