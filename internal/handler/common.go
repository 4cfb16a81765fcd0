// Package handler implements the HTTP endpoints of the parking-reservation
// API. Each handler parses the request, consults the policy package for
// authorization, validates input, calls a store and maps the outcome to an
// HTTP status: 200 success, 201 created, 400 validation error, 401
// unauthenticated, 403 forbidden, 404 not found.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanyovichhh/parkmate-backend/internal/middleware"
	"github.com/sanyovichhh/parkmate-backend/internal/model"
)

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// requirePrincipal resolves the acting principal or writes the 401 response.
// Callers must return the error when the returned user is nil. A request
// with credentials that failed to verify is distinguished from a request
// with none at all.
func requirePrincipal(c echo.Context) (*model.User, error) {
	u, invalid := middleware.PrincipalFrom(c)
	if u != nil {
		return u, nil
	}
	if invalid {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid user authentication"})
	}
	return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "User authentication required"})
}

// ----- response shapes -----

type userDTO struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsAdmin    bool      `json:"is_admin"`
	DateJoined time.Time `json:"date_joined"`
}

type parkingDTO struct {
	ParkingID     int64   `json:"parking_id"`
	AmountOfSpots int     `json:"amount_of_spots"`
	Address       string  `json:"address"`
	Comment       *string `json:"comment"`
	Price         int     `json:"price"`
}

// bookingDTO embeds the full owner and parking objects, matching the shape
// bookings have always been returned in.
type bookingDTO struct {
	BookingID int64      `json:"booking_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Parking   parkingDTO `json:"parking"`
	User      userDTO    `json:"user"`
}

func newUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsAdmin:    u.IsAdmin,
		DateJoined: u.DateJoined,
	}
}

func newParkingDTO(p *model.Parking) parkingDTO {
	return parkingDTO{
		ParkingID:     p.ParkingID,
		AmountOfSpots: p.AmountOfSpots,
		Address:       p.Address,
		Comment:       p.Comment,
		Price:         p.Price,
	}
}

func newBookingDTO(d *model.BookingDetail) bookingDTO {
	return bookingDTO{
		BookingID: d.Booking.BookingID,
		StartTime: d.Booking.StartTime,
		EndTime:   d.Booking.EndTime,
		Parking:   newParkingDTO(&d.Parking),
		User:      newUserDTO(&d.User),
	}
}
