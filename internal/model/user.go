package model

import "time"

// User represents an account row in the `users` table. The password is
// stored only as a bcrypt hash and must never leave the repository layer
// in API responses; handlers build separate response types with JSON tags.
//
// Fields:
//  ID           – primary key (DB auto-increment).
//  Email        – unique address, stored lowercased and trimmed.
//  FirstName    – given name.
//  LastName     – family name.
//  PasswordHash – bcrypt hash of the password.
//  IsAdmin      – grants access to every user and booking.
//  DateJoined   – timestamp of registration.
type User struct {
	ID           int64     // users.id
	Email        string    // users.email
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash
	IsAdmin      bool      // users.is_admin
	DateJoined   time.Time // users.date_joined
}
