package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
)

// UserRepo is the MySQL implementation of UserStore.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given connection pool.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// NormalizeEmail lowercases and trims an email address. Every lookup and
// insert goes through this so the unique index never sees case variants.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts the user and populates ID and DateJoined on u.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (int64, error) {
	u.Email = NormalizeEmail(u.Email)
	const qInsert = `INSERT INTO users (email, first_name, last_name, password_hash, is_admin)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsAdmin)
	if err != nil {
		// MySQL error 1062 = duplicate entry on the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id
	// Follow-up SELECT to populate the DB-assigned registration timestamp.
	const qSelect = `SELECT date_joined FROM users WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, qSelect, id).Scan(&u.DateJoined); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, first_name, last_name, password_hash, is_admin, date_joined
	           FROM users WHERE email = ? LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, NormalizeEmail(email)))
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT id, email, first_name, last_name, password_hash, is_admin, date_joined
	           FROM users WHERE id = ? LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsAdmin, &u.DateJoined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes the user and all bookings owned by them. Both deletes run
// in one transaction so a failure never leaves orphaned bookings behind.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM booking WHERE user_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrUserNotFound
		return err
	}
	return nil
}
