package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/data"
)

// fakeBookingStore serves canned results for the read paths.
type fakeBookingStore struct {
	byHouse data.Bookings
	err     error
}

func (f *fakeBookingStore) InsertBooking(ctx context.Context, request *data.BookingRequest, userId string) (*data.Booking, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBookingStore) BookingOverlaps(ctx context.Context, houseId string, checkIn, checkOut time.Time) (bool, error) {
	return false, nil
}

func (f *fakeBookingStore) CancelBooking(ctx context.Context, bookingId string) error { return nil }
func (f *fakeBookingStore) DeleteBooking(ctx context.Context, bookingId string) error { return nil }

func (f *fakeBookingStore) GetBookingByID(ctx context.Context, bookingId string) (*data.Booking, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBookingStore) GetBookingsByUser(ctx context.Context, userId string) (data.Bookings, error) {
	return nil, nil
}

func (f *fakeBookingStore) GetBookingsByHouse(ctx context.Context, houseId string) (data.Bookings, error) {
	return f.byHouse, f.err
}

func (f *fakeBookingStore) HasBookingsForUser(ctx context.Context, userId string) (bool, error) {
	return false, nil
}

func newTestHandler(store data.BookingStore) *BookingHandler {
	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	return NewBookingHandler(logger, store, trace.NewNoopTracerProvider().Tracer("test"))
}

func getBookingsByHouse(handler *BookingHandler, houseId string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/house/{id}", handler.GetBookingsByHouse).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/bookings/house/"+houseId, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetBookingsByHouseStoreError(t *testing.T) {
	handler := newTestHandler(&fakeBookingStore{err: errors.New("session closed")})

	rec := getBookingsByHouse(handler, "house-1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestGetBookingsByHouseNoneFound(t *testing.T) {
	handler := newTestHandler(&fakeBookingStore{})

	rec := getBookingsByHouse(handler, "house-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetBookingsByHouseReturnsBookings(t *testing.T) {
	store := &fakeBookingStore{byHouse: data.Bookings{
		{HouseId: "house-1", ByUserId: "user-1", Status: data.StatusConfirmed},
		{HouseId: "house-1", ByUserId: "user-2", Status: data.StatusCanceled},
	}}
	handler := newTestHandler(store)

	rec := getBookingsByHouse(handler, "house-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}

	var bookings []*data.Booking
	if err := json.NewDecoder(rec.Body).Decode(&bookings); err != nil {
		t.Fatal(err)
	}
	if len(bookings) != 2 {
		t.Fatalf("got %d bookings, want 2", len(bookings))
	}
}
