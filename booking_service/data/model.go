package data

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gocql/gocql"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/pricing"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCanceled  BookingStatus = "Canceled"
)

// cassandra
type Booking struct {
	ID       gocql.UUID    `json:"id" db:"booking_id"`
	ByUserId string        `json:"byUserId" db:"by_userid"`
	HouseId  string        `json:"houseId" db:"house_id"`
	CheckIn  time.Time     `json:"checkIn" db:"check_in"`
	CheckOut time.Time     `json:"checkOut" db:"check_out"`
	Guests   int           `json:"guests" db:"guests"`
	Status   BookingStatus `json:"status" db:"status"`
	Quote    pricing.Quote `json:"quote"`
}

// BookingRequest is the payload a guest submits. Dates are strings straight
// from the form; the quote fills in the fallback when they are absent.
type BookingRequest struct {
	HouseId      string `json:"houseId" validate:"required"`
	CheckIn      string `json:"checkIn"`
	CheckOut     string `json:"checkOut"`
	Guests       int    `json:"guests" validate:"gte=1"`
	NightlyPrice int    `json:"nightlyPrice" validate:"gt=0"`
}

type Bookings []*Booking

func (o *Booking) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *Booking) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

func (o *Bookings) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *BookingRequest) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

type ErrResp struct {
	URL        string
	StatusCode int
}

func (e ErrResp) Error() string {
	return e.URL
}
