package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
)

// ParkingRepo is the MySQL implementation of ParkingStore. The parking_id
// primary key is externally visible and assigned as max+1 at creation, so
// inserts run in a transaction that locks the current maximum with
// SELECT ... FOR UPDATE. Concurrent creators serialize on that lock and can
// no longer observe the same maximum, which closes the duplicate-id race.
type ParkingRepo struct {
	db *sql.DB
}

// NewParkingRepo returns a ParkingRepo bound to the given connection pool.
func NewParkingRepo(db *sql.DB) *ParkingRepo { return &ParkingRepo{db: db} }

// Create inserts the lot and populates the assigned ParkingID on p.
func (r *ParkingRepo) Create(ctx context.Context, p *model.Parking) error {
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
		`SELECT COALESCE(MAX(parking_id), 0) + 1 FROM parking FOR UPDATE`).Scan(&next); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO parking (parking_id, amount_of_spots, address, comment, price) VALUES (?, ?, ?, ?, ?)`,
		next, p.AmountOfSpots, p.Address, p.Comment, p.Price); err != nil {
		return err
	}
	p.ParkingID = next
	return nil
}

// GetByID fetches a lot by its externally visible id.
func (r *ParkingRepo) GetByID(ctx context.Context, id int64) (*model.Parking, error) {
	const q = `SELECT parking_id, amount_of_spots, address, comment, price
	           FROM parking WHERE parking_id = ? LIMIT 1`
	var p model.Parking
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ParkingID, &p.AmountOfSpots, &p.Address, &p.Comment, &p.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParkingNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all lots ordered by id (insertion order, since ids only grow).
func (r *ParkingRepo) List(ctx context.Context) ([]*model.Parking, error) {
	const q = `SELECT parking_id, amount_of_spots, address, comment, price
	           FROM parking ORDER BY parking_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Parking
	for rows.Next() {
		p := new(model.Parking)
		if err := rows.Scan(&p.ParkingID, &p.AmountOfSpots, &p.Address, &p.Comment, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the full row for p.ParkingID. Existence is the caller's
// concern; a zero-row update on an unchanged record is not an error.
func (r *ParkingRepo) Update(ctx context.Context, p *model.Parking) error {
	const q = `UPDATE parking SET amount_of_spots = ?, address = ?, comment = ?, price = ?
	           WHERE parking_id = ?`
	_, err := r.db.ExecContext(ctx, q, p.AmountOfSpots, p.Address, p.Comment, p.Price, p.ParkingID)
	return err
}

// Delete removes the lot and all bookings that reference it, in one
// transaction.
func (r *ParkingRepo) Delete(ctx context.Context, id int64) error {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM booking WHERE parking_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM parking WHERE parking_id = ?`, id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrParkingNotFound
		return err
	}
	return nil
}
