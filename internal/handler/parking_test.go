package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/sanyovichhh/parkmate-backend/internal/model"
)

func TestParkingCreate_AssignsSequentialIDs(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)

	first := doJSON(t, e, http.MethodPost, "/api/parkmate/parking/", map[string]any{
		"amount_of_spots": 40,
		"address":         "1 Main St",
		"price":           10,
	}, nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
	}
	var p1 struct {
		ParkingID int64 `json:"parking_id"`
	}
	decodeBody(t, first, &p1)
	if p1.ParkingID != 1 {
		t.Errorf("first parking id on empty store must be 1, got %d", p1.ParkingID)
	}

	second := doJSON(t, e, http.MethodPost, "/api/parkmate/parking/", map[string]any{
		"amount_of_spots": 12,
		"address":         "2 Side St",
		"price":           5,
	}, nil)
	var p2 struct {
		ParkingID int64 `json:"parking_id"`
	}
	decodeBody(t, second, &p2)
	if p2.ParkingID != 2 {
		t.Errorf("expected next id 2, got %d", p2.ParkingID)
	}
}

func TestParkingCreate_MissingFields(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)

	rec := doJSON(t, e, http.MethodPost, "/api/parkmate/parking/", map[string]any{
		"comment": "no required fields",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var fe map[string][]string
	decodeBody(t, rec, &fe)
	for _, field := range []string{"amount_of_spots", "address", "price"} {
		if len(fe[field]) == 0 {
			t.Errorf("expected error for %s, got %v", field, fe)
		}
	}
	if len(fe["comment"]) != 0 {
		t.Errorf("comment is optional, got %v", fe["comment"])
	}
}

func TestParkingGet_NotFound(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)

	rec := doJSON(t, e, http.MethodGet, "/api/parkmate/parking/999/", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestParkingList_InsertionOrder(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)
	seedParking(db, 10, "A", 1)
	seedParking(db, 20, "B", 2)
	seedParking(db, 30, "C", 3)

	rec := doJSON(t, e, http.MethodGet, "/api/parkmate/parking/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out []struct {
		ParkingID int64  `json:"parking_id"`
		Address   string `json:"address"`
	}
	decodeBody(t, rec, &out)
	if len(out) != 3 {
		t.Fatalf("expected 3 lots, got %d", len(out))
	}
	for i, want := range []string{"A", "B", "C"} {
		if out[i].Address != want {
			t.Errorf("position %d: expected %q, got %q", i, want, out[i].Address)
		}
	}
}

func TestParkingUpdate_Partial(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)
	p := seedParking(db, 40, "1 Main St", 10)

	rec := doJSON(t, e, http.MethodPut, "/api/parkmate/parking/1/update/", map[string]any{
		"price": 25,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Address string `json:"address"`
		Spots   int    `json:"amount_of_spots"`
		Price   int    `json:"price"`
	}
	decodeBody(t, rec, &out)
	if out.Price != 25 {
		t.Errorf("expected updated price 25, got %d", out.Price)
	}
	if out.Address != p.Address || out.Spots != p.AmountOfSpots {
		t.Errorf("untouched fields must be preserved, got %+v", out)
	}
}

func TestParkingUpdate_BlankAddress(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)
	seedParking(db, 40, "1 Main St", 10)

	rec := doJSON(t, e, http.MethodPut, "/api/parkmate/parking/1/update/", map[string]any{
		"address": "",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var fe map[string][]string
	decodeBody(t, rec, &fe)
	if len(fe["address"]) == 0 {
		t.Errorf("expected address field error, got %v", fe)
	}
	if db.parkings[1].Address != "1 Main St" {
		t.Errorf("stored address must be unchanged, got %q", db.parkings[1].Address)
	}
}

func TestParkingUpdate_NotFound(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)

	rec := doJSON(t, e, http.MethodPut, "/api/parkmate/parking/7/update/", map[string]any{"price": 1}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestParkingDelete_CascadesToBookings(t *testing.T) {
	db := newMemDB()
	e := newTestServer(db)
	db.putUser(&model.User{ID: 1, Email: "u@example.com"})
	p := seedParking(db, 10, "A", 1)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	seedBooking(db, 1, p.ParkingID, 1, start, start.Add(2*time.Hour))

	rec := doJSON(t, e, http.MethodDelete, "/api/parkmate/parking/1/delete/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(db.bookings) != 0 {
		t.Errorf("bookings referencing the lot must be deleted, %d left", len(db.bookings))
	}

	again := doJSON(t, e, http.MethodDelete, "/api/parkmate/parking/1/delete/", nil, nil)
	if again.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", again.Code)
	}
}
