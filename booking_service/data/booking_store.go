package data

import (
	"context"
	"time"
)

// BookingStore is the slice of the repository the HTTP handlers use,
// implemented by BookingRepo.
type BookingStore interface {
	InsertBooking(ctx context.Context, request *BookingRequest, userId string) (*Booking, error)
	BookingOverlaps(ctx context.Context, houseId string, checkIn, checkOut time.Time) (bool, error)
	CancelBooking(ctx context.Context, bookingId string) error
	DeleteBooking(ctx context.Context, bookingId string) error
	GetBookingByID(ctx context.Context, bookingId string) (*Booking, error)
	GetBookingsByUser(ctx context.Context, userId string) (Bookings, error)
	GetBookingsByHouse(ctx context.Context, houseId string) (Bookings, error)
	HasBookingsForUser(ctx context.Context, userId string) (bool, error)
}
