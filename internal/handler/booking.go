package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
	"github.com/sanyovichhh/parkmate-backend/internal/policy"
	"github.com/sanyovichhh/parkmate-backend/internal/queue"
	"github.com/sanyovichhh/parkmate-backend/internal/repository"
)

// BookingHandler serves booking CRUD. Every endpoint requires a resolved
// principal; listing is scoped by the policy package (admins see all,
// everyone else only their own) and single-item access is admin-or-owner.
// Events is optional: when set, created and deleted bookings are announced
// on the broker best-effort.
type BookingHandler struct {
	Bookings repository.BookingStore
	Parkings repository.ParkingStore
	Users    repository.UserStore
	Events   queue.Publisher
}

func NewBookingHandler(bookings repository.BookingStore, parkings repository.ParkingStore, users repository.UserStore, events queue.Publisher) *BookingHandler {
	if bookings == nil || parkings == nil || users == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Parkings: parkings, Users: users, Events: events}
}

// bookingReq binds create and update bodies. user_id is deliberately not
// bound: the owner of a booking is always the resolved principal.
type bookingReq struct {
	ParkingID *int64     `json:"parking_id"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// List handles GET /bookings.
func (h *BookingHandler) List(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if principal == nil {
		return err
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	var items []*model.BookingDetail
	if policy.SeesAllBookings(principal) {
		items, err = h.Bookings.ListAll(ctx)
	} else {
		items, err = h.Bookings.ListByUser(ctx, principal.ID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bookingDTO, 0, len(items))
	for _, d := range items {
		out = append(out, newBookingDTO(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /bookings. The booking's owner is forced to the
// principal regardless of anything in the body; the referenced parking lot
// must exist and the window must be strictly ordered.
func (h *BookingHandler) Create(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if principal == nil {
		return err
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	fe := fieldErrors{}
	if req.ParkingID == nil {
		fe.add("parking_id", msgRequired)
	}
	if req.StartTime == nil {
		fe.add("start_time", msgRequired)
	}
	if req.EndTime == nil {
		fe.add("end_time", msgRequired)
	}
	if !fe.ok() {
		return c.JSON(http.StatusBadRequest, fe)
	}
	if !req.StartTime.Before(*req.EndTime) {
		fe.add("end_time", "End time must be after start time")
		return c.JSON(http.StatusBadRequest, fe)
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	lot, err := h.Parkings.GetByID(ctx, *req.ParkingID)
	if err != nil {
		if errors.Is(err, repository.ErrParkingNotFound) {
			fe.add("parking_id", "Parking does not exist")
			return c.JSON(http.StatusBadRequest, fe)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	b := &model.Booking{
		ParkingID: lot.ParkingID,
		UserID:    principal.ID,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	h.announce(queue.EventBookingCreated, b, principal, lot)
	return c.JSON(http.StatusCreated, newBookingDTO(&model.BookingDetail{
		Booking: *b,
		User:    *principal,
		Parking: *lot,
	}))
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if principal == nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	d, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.CanAccessBooking(principal, &d.Booking) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to access this booking"})
	}
	return c.JSON(http.StatusOK, newBookingDTO(d))
}

// Update handles PUT /bookings/:id/update. Partial update: absent fields
// keep their stored values; the merged window must still be strictly
// ordered and a changed parking_id must reference an existing lot. The
// owner never changes on update.
func (h *BookingHandler) Update(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if principal == nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.CanAccessBooking(principal, b) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to update this booking"})
	}

	if req.ParkingID != nil {
		b.ParkingID = *req.ParkingID
	}
	if req.StartTime != nil {
		b.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		b.EndTime = req.EndTime.UTC()
	}

	fe := fieldErrors{}
	if !b.StartTime.Before(b.EndTime) {
		fe.add("end_time", "End time must be after start time")
		return c.JSON(http.StatusBadRequest, fe)
	}
	if _, err := h.Parkings.GetByID(ctx, b.ParkingID); err != nil {
		if errors.Is(err, repository.ErrParkingNotFound) {
			fe.add("parking_id", "Parking does not exist")
			return c.JSON(http.StatusBadRequest, fe)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Bookings.Update(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	d, err := h.Bookings.GetDetail(ctx, b.BookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newBookingDTO(d))
}

// Delete handles DELETE /bookings/:id/delete.
func (h *BookingHandler) Delete(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if principal == nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	d, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !policy.CanAccessBooking(principal, &d.Booking) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to delete this booking"})
	}
	if err := h.Bookings.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	h.announce(queue.EventBookingDeleted, &d.Booking, &d.User, &d.Parking)
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted successfully"})
}

// announce publishes a booking event in the background. Publication is
// best-effort and must never slow down or fail the originating request,
// hence the detached context with its own deadline.
func (h *BookingHandler) announce(event string, b *model.Booking, owner *model.User, lot *model.Parking) {
	if h.Events == nil {
		return
	}
	ev := queue.BookingEvent{
		Event:      event,
		BookingID:  b.BookingID,
		UserID:     owner.ID,
		UserEmail:  owner.Email,
		ParkingID:  lot.ParkingID,
		Address:    lot.Address,
		StartTime:  b.StartTime.UTC().Format(time.RFC3339),
		EndTime:    b.EndTime.UTC().Format(time.RFC3339),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Events.PublishBookingEvent(ctx, ev)
	}()
}
