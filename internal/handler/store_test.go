package handler_test

// In-memory implementations of the store interfaces plus a test server
// harness. The fakes keep the same observable semantics as the MySQL
// repositories: max+1 id assignment, sentinel errors and cascade deletes.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanyovichhh/parkmate-backend/internal/config"
	"github.com/sanyovichhh/parkmate-backend/internal/handler"
	"github.com/sanyovichhh/parkmate-backend/internal/middleware"
	"github.com/sanyovichhh/parkmate-backend/internal/model"
	"github.com/sanyovichhh/parkmate-backend/internal/repository"
	"github.com/sanyovichhh/parkmate-backend/internal/router"
	"github.com/sanyovichhh/parkmate-backend/internal/utils"
)

const testSecret = "test-secret"

type memDB struct {
	users      map[int64]*model.User
	parkings   map[int64]*model.Parking
	bookings   map[int64]*model.Booking
	nextUserID int64
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[int64]*model.User{},
		parkings: map[int64]*model.Parking{},
		bookings: map[int64]*model.Booking{},
	}
}

// putUser inserts a user with a fixed id, for seeding specific principals.
func (db *memDB) putUser(u *model.User) *model.User {
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}
	db.users[u.ID] = u
	if u.ID > db.nextUserID {
		db.nextUserID = u.ID
	}
	return u
}

type memUsers struct{ db *memDB }

func (s *memUsers) Create(_ context.Context, u *model.User) (int64, error) {
	u.Email = repository.NormalizeEmail(u.Email)
	for _, ex := range s.db.users {
		if ex.Email == u.Email {
			return 0, repository.ErrEmailExists
		}
	}
	s.db.nextUserID++
	u.ID = s.db.nextUserID
	u.DateJoined = time.Now().UTC()
	s.db.users[u.ID] = u
	return u.ID, nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = repository.NormalizeEmail(email)
	for _, u := range s.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := s.db.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for bid, b := range s.db.bookings {
		if b.UserID == id {
			delete(s.db.bookings, bid)
		}
	}
	delete(s.db.users, id)
	return nil
}

type memParkings struct{ db *memDB }

func (s *memParkings) Create(_ context.Context, p *model.Parking) error {
	var max int64
	for id := range s.db.parkings {
		if id > max {
			max = id
		}
	}
	p.ParkingID = max + 1
	cp := *p
	s.db.parkings[p.ParkingID] = &cp
	return nil
}

func (s *memParkings) GetByID(_ context.Context, id int64) (*model.Parking, error) {
	p, ok := s.db.parkings[id]
	if !ok {
		return nil, repository.ErrParkingNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memParkings) List(_ context.Context) ([]*model.Parking, error) {
	out := make([]*model.Parking, 0, len(s.db.parkings))
	for _, p := range s.db.parkings {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParkingID < out[j].ParkingID })
	return out, nil
}

func (s *memParkings) Update(_ context.Context, p *model.Parking) error {
	cp := *p
	s.db.parkings[p.ParkingID] = &cp
	return nil
}

func (s *memParkings) Delete(_ context.Context, id int64) error {
	if _, ok := s.db.parkings[id]; !ok {
		return repository.ErrParkingNotFound
	}
	for bid, b := range s.db.bookings {
		if b.ParkingID == id {
			delete(s.db.bookings, bid)
		}
	}
	delete(s.db.parkings, id)
	return nil
}

type memBookings struct{ db *memDB }

func (s *memBookings) Create(_ context.Context, b *model.Booking) error {
	var max int64
	for id := range s.db.bookings {
		if id > max {
			max = id
		}
	}
	b.BookingID = max + 1
	cp := *b
	s.db.bookings[b.BookingID] = &cp
	return nil
}

func (s *memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	b, ok := s.db.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memBookings) detail(b *model.Booking) (*model.BookingDetail, error) {
	u, ok := s.db.users[b.UserID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	p, ok := s.db.parkings[b.ParkingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &model.BookingDetail{Booking: *b, User: *u, Parking: *p}, nil
}

func (s *memBookings) GetDetail(_ context.Context, id int64) (*model.BookingDetail, error) {
	b, ok := s.db.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return s.detail(b)
}

func (s *memBookings) listWhere(keep func(*model.Booking) bool) ([]*model.BookingDetail, error) {
	var rows []*model.Booking
	for _, b := range s.db.bookings {
		if keep(b) {
			rows = append(rows, b)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].BookingID < rows[j].BookingID })
	out := make([]*model.BookingDetail, 0, len(rows))
	for _, b := range rows {
		d, err := s.detail(b)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *memBookings) ListAll(_ context.Context) ([]*model.BookingDetail, error) {
	return s.listWhere(func(*model.Booking) bool { return true })
}

func (s *memBookings) ListByUser(_ context.Context, userID int64) ([]*model.BookingDetail, error) {
	return s.listWhere(func(b *model.Booking) bool { return b.UserID == userID })
}

func (s *memBookings) Update(_ context.Context, b *model.Booking) error {
	cp := *b
	s.db.bookings[b.BookingID] = &cp
	return nil
}

func (s *memBookings) Delete(_ context.Context, id int64) error {
	if _, ok := s.db.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(s.db.bookings, id)
	return nil
}

// ----- harness -----

func newTestServer(db *memDB) *echo.Echo {
	cfg := config.Config{
		JWTSecret:    testSecret,
		AccessTTLMin: 60,
		BcryptCost:   bcrypt.MinCost,
	}
	users := &memUsers{db}
	parkings := &memParkings{db}
	bookings := &memBookings{db}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	router.RegisterRoutes(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users),
		Users:     handler.NewUserHandler(users),
		Parking:   handler.NewParkingHandler(parkings),
		Bookings:  handler.NewBookingHandler(bookings, parkings, users, nil),
		Principal: middleware.ResolvePrincipal(users, cfg.JWTSecret),
	})
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return h
}

func seedParking(db *memDB, spots int, address string, price int) *model.Parking {
	var max int64
	for id := range db.parkings {
		if id > max {
			max = id
		}
	}
	p := &model.Parking{ParkingID: max + 1, AmountOfSpots: spots, Address: address, Price: price}
	db.parkings[p.ParkingID] = p
	return p
}

func seedBooking(db *memDB, id, parkingID, userID int64, start, end time.Time) *model.Booking {
	b := &model.Booking{BookingID: id, ParkingID: parkingID, UserID: userID, StartTime: start, EndTime: end}
	db.bookings[id] = b
	return b
}

func userHeader(id string) map[string]string {
	return map[string]string{"X-User-Id": id}
}
