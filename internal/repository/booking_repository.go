package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
)

// BookingRepo is the MySQL implementation of BookingStore. Booking ids are
// assigned max+1 under the same FOR UPDATE discipline as parking ids.
// Detail queries join the owner and parking rows so handlers can embed the
// full objects without issuing follow-up lookups per booking.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given connection pool.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingDetailSelect = `
	SELECT b.booking_id, b.parking_id, b.user_id, b.start_time, b.end_time,
	       u.id, u.email, u.first_name, u.last_name, u.password_hash, u.is_admin, u.date_joined,
	       p.parking_id, p.amount_of_spots, p.address, p.comment, p.price
	FROM booking b
	JOIN users u ON u.id = b.user_id
	JOIN parking p ON p.parking_id = b.parking_id`

// Create inserts the booking and populates the assigned BookingID on b.
// Times are stored as given; callers are expected to pass UTC.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var next int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(booking_id), 0) + 1 FROM booking FOR UPDATE`).Scan(&next); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO booking (booking_id, parking_id, user_id, start_time, end_time) VALUES (?, ?, ?, ?, ?)`,
		next, b.ParkingID, b.UserID, b.StartTime, b.EndTime); err != nil {
		return err
	}
	b.BookingID = next
	return nil
}

// GetByID fetches a bare booking row without joins. Used for policy checks
// before mutating operations.
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	const q = `SELECT booking_id, parking_id, user_id, start_time, end_time
	           FROM booking WHERE booking_id = ? LIMIT 1`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.BookingID, &b.ParkingID, &b.UserID, &b.StartTime, &b.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetDetail fetches a booking joined with its owner and parking lot.
func (r *BookingRepo) GetDetail(ctx context.Context, id int64) (*model.BookingDetail, error) {
	row := r.db.QueryRowContext(ctx, bookingDetailSelect+` WHERE b.booking_id = ? LIMIT 1`, id)
	d, err := scanBookingDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListAll returns every booking with owner and lot, ordered by id.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.BookingDetail, error) {
	return r.list(ctx, bookingDetailSelect+` ORDER BY b.booking_id`)
}

// ListByUser returns the bookings owned by userID, ordered by id.
func (r *BookingRepo) ListByUser(ctx context.Context, userID int64) ([]*model.BookingDetail, error) {
	return r.list(ctx, bookingDetailSelect+` WHERE b.user_id = ? ORDER BY b.booking_id`, userID)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...any) ([]*model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.BookingDetail
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingDetail(row rowScanner) (*model.BookingDetail, error) {
	var d model.BookingDetail
	err := row.Scan(
		&d.Booking.BookingID, &d.Booking.ParkingID, &d.Booking.UserID, &d.Booking.StartTime, &d.Booking.EndTime,
		&d.User.ID, &d.User.Email, &d.User.FirstName, &d.User.LastName, &d.User.PasswordHash, &d.User.IsAdmin, &d.User.DateJoined,
		&d.Parking.ParkingID, &d.Parking.AmountOfSpots, &d.Parking.Address, &d.Parking.Comment, &d.Parking.Price,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Update writes the full row for b.BookingID.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE booking SET parking_id = ?, user_id = ?, start_time = ?, end_time = ?
	           WHERE booking_id = ?`
	_, err := r.db.ExecContext(ctx, q, b.ParkingID, b.UserID, b.StartTime, b.EndTime, b.BookingID)
	return err
}

// Delete removes a single booking.
func (r *BookingRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM booking WHERE booking_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
