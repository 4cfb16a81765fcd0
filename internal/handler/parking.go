package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
	"github.com/sanyovichhh/parkmate-backend/internal/repository"
)

// ParkingHandler serves CRUD on parking lots. These endpoints carry no
// authorization checks: lot data is public and administration of it is
// not restricted by the API contract.
type ParkingHandler struct {
	Parkings repository.ParkingStore
}

func NewParkingHandler(parkings repository.ParkingStore) *ParkingHandler {
	return &ParkingHandler{Parkings: parkings}
}

// parkingReq binds create and update bodies. Pointer fields distinguish
// "absent" from zero values so PUT can apply partial updates.
type parkingReq struct {
	AmountOfSpots *int    `json:"amount_of_spots"`
	Address       *string `json:"address"`
	Comment       *string `json:"comment"`
	Price         *int    `json:"price"`
}

// List handles GET /parking.
func (h *ParkingHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	lots, err := h.Parkings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]parkingDTO, 0, len(lots))
	for _, p := range lots {
		out = append(out, newParkingDTO(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /parking. The parking_id is always assigned by the
// store (max existing + 1, starting at 1); any id supplied in the body is
// ignored. All fields except comment are required.
func (h *ParkingHandler) Create(c echo.Context) error {
	var req parkingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	fe := fieldErrors{}
	if req.AmountOfSpots == nil {
		fe.add("amount_of_spots", msgRequired)
	}
	if req.Address == nil || *req.Address == "" {
		fe.add("address", msgRequired)
	}
	if req.Price == nil {
		fe.add("price", msgRequired)
	}
	if !fe.ok() {
		return c.JSON(http.StatusBadRequest, fe)
	}

	p := &model.Parking{
		AmountOfSpots: *req.AmountOfSpots,
		Address:       *req.Address,
		Comment:       req.Comment,
		Price:         *req.Price,
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Parkings.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create parking failed"})
	}
	return c.JSON(http.StatusCreated, newParkingDTO(p))
}

// Get handles GET /parking/:id.
func (h *ParkingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	p, err := h.Parkings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrParkingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "parking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newParkingDTO(p))
}

// Update handles PUT /parking/:id/update. Partial update: only the fields
// present in the body are changed.
func (h *ParkingHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req parkingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	p, err := h.Parkings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrParkingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "parking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.AmountOfSpots != nil {
		p.AmountOfSpots = *req.AmountOfSpots
	}
	if req.Address != nil {
		if *req.Address == "" {
			fe := fieldErrors{}
			fe.add("address", msgRequired)
			return c.JSON(http.StatusBadRequest, fe)
		}
		p.Address = *req.Address
	}
	if req.Comment != nil {
		p.Comment = req.Comment
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if err := h.Parkings.Update(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, newParkingDTO(p))
}

// Delete handles DELETE /parking/:id/delete. Bookings referencing the lot
// are removed with it (cascaded in the store).
func (h *ParkingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Parkings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrParkingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "parking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Parking deleted successfully"})
}
