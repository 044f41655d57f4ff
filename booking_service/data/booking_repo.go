package data

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/pricing"
)

type BookingRepo struct {
	session *gocql.Session
	logger  *log.Logger
	tracer  trace.Tracer
}

func NewBookingRepo(tracer trace.Tracer, logger *log.Logger, db string) (*BookingRepo, error) {

	// Connect to default keyspace
	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.Println(err)
		return nil, err
	}

	// Create 'booking' keyspace
	err = session.Query(
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
					WITH replication = {
						'class' : 'SimpleStrategy',
						'replication_factor' : %d
					}`, "booking", 1)).Exec()
	if err != nil {
		logger.Println(err)
	}
	session.Close()

	// Connect to booking keyspace
	cluster.Keyspace = "booking"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.Println(err)
		return nil, err
	}

	return &BookingRepo{
		session: session,
		logger:  logger,
		tracer:  tracer,
	}, nil
}

// Disconnect from database
func (br *BookingRepo) CloseSession() {
	br.session.Close()
}

// Create tables
func (br *BookingRepo) CreateTables() {

	err := br.session.Query(
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
					(by_userid text, booking_id UUID, house_id text, check_in TIMESTAMP, check_out TIMESTAMP, guests int, nights int, subtotal int, cleaning_fee int, service_fee int, total int, status text,
					PRIMARY KEY ((by_userid), booking_id))
					WITH CLUSTERING ORDER BY (booking_id ASC)`, "booking_by_user")).Exec()
	if err != nil {
		br.logger.Println(err)
	}

	err = br.session.Query(
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
					(by_userid text, booking_id UUID, house_id text, check_in TIMESTAMP, check_out TIMESTAMP, guests int, nights int, subtotal int, cleaning_fee int, service_fee int, total int, status text,
					PRIMARY KEY ((house_id), booking_id))
					WITH CLUSTERING ORDER BY (booking_id ASC)`, "booking_by_house")).Exec()
	if err != nil {
		br.logger.Println(err)
	}

}

// InsertBooking prices the stay and writes it to both tables. The writes go
// out sequentially; only the second depends on the first having produced the
// booking id.
func (br *BookingRepo) InsertBooking(ctx context.Context, request *BookingRequest, userId string) (*Booking, error) {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.InsertBooking")
	defer span.End()

	quote := pricing.Calculate(request.NightlyPrice, request.CheckIn, request.CheckOut)
	if quote.Nights <= 0 {
		span.SetStatus(codes.Error, "Cannot book a stay of zero nights.")
		return nil, errors.New("Cannot book a stay of zero nights.")
	}

	checkIn, checkOut := stayDates(request, quote.Nights)

	if time.Now().After(checkIn) {
		span.SetStatus(codes.Error, "Error creating booking. Cannot create booking in the past.")
		return nil, errors.New("Error creating booking. Cannot create booking in the past.")
	}

	overlaps, err := br.BookingOverlaps(ctx, request.HouseId, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if overlaps {
		span.SetStatus(codes.Error, "Booking already exists for the requested dates and house.")
		return nil, errors.New("Booking already exists for the requested dates and house.")
	}

	bookingId, _ := gocql.RandomUUID()

	booking := &Booking{
		ID:       bookingId,
		ByUserId: userId,
		HouseId:  request.HouseId,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   request.Guests,
		Status:   StatusConfirmed,
		Quote:    quote,
	}

	err = br.session.Query(
		`INSERT INTO booking_by_user (by_userid, booking_id, house_id, check_in, check_out, guests, nights, subtotal, cleaning_fee, service_fee, total, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ByUserId, booking.ID, booking.HouseId, booking.CheckIn, booking.CheckOut, booking.Guests,
		quote.Nights, quote.Subtotal, quote.CleaningFee, quote.ServiceFee, quote.Total, string(booking.Status)).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return nil, err
	}

	err = br.session.Query(
		`INSERT INTO booking_by_house (by_userid, booking_id, house_id, check_in, check_out, guests, nights, subtotal, cleaning_fee, service_fee, total, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ByUserId, booking.ID, booking.HouseId, booking.CheckIn, booking.CheckOut, booking.Guests,
		quote.Nights, quote.Subtotal, quote.CleaningFee, quote.ServiceFee, quote.Total, string(booking.Status)).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return nil, err
	}

	return booking, nil
}

// BookingOverlaps reports whether a confirmed booking for the house collides
// with the [checkIn, checkOut) range.
func (br *BookingRepo) BookingOverlaps(ctx context.Context, houseId string, checkIn, checkOut time.Time) (bool, error) {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.BookingOverlaps")
	defer span.End()

	bookings, err := br.GetBookingsByHouse(ctx, houseId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	for _, booking := range bookings {
		if booking.Status == StatusCanceled {
			continue
		}
		if rangesOverlap(booking.CheckIn, booking.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}

	return false, nil
}

// CancelBooking flips the status to Canceled in both tables. Allowed only
// before the stay starts.
func (br *BookingRepo) CancelBooking(ctx context.Context, bookingId string) error {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.CancelBooking")
	defer span.End()

	booking, err := br.GetBookingByID(ctx, bookingId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}

	if !time.Now().Before(booking.CheckIn) {
		span.SetStatus(codes.Error, "Can not cancel booking. You can only cancel it before it starts.")
		return errors.New("Can not cancel booking. You can only cancel it before it starts.")
	}

	err = br.session.Query(
		`UPDATE booking_by_user SET status = ? WHERE by_userid = ? AND booking_id = ?`,
		string(StatusCanceled), booking.ByUserId, booking.ID).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}
	err = br.session.Query(
		`UPDATE booking_by_house SET status = ? WHERE house_id = ? AND booking_id = ?`,
		string(StatusCanceled), booking.HouseId, booking.ID).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}

	return nil
}

// DeleteBooking removes the rows from both tables. Used to back out a
// booking whose downstream notification never made it.
func (br *BookingRepo) DeleteBooking(ctx context.Context, bookingId string) error {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.DeleteBooking")
	defer span.End()

	booking, err := br.GetBookingByID(ctx, bookingId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}

	err = br.session.Query(
		`DELETE FROM booking_by_user WHERE by_userid = ? AND booking_id = ?`,
		booking.ByUserId, booking.ID).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}
	err = br.session.Query(
		`DELETE FROM booking_by_house WHERE house_id = ? AND booking_id = ?`,
		booking.HouseId, booking.ID).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return err
	}
	return nil
}

func (br *BookingRepo) GetBookingByID(ctx context.Context, bookingId string) (*Booking, error) {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.GetBookingByID")
	defer span.End()

	parsedUUID, err := gocql.ParseUUID(bookingId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println("Error parsing UUID:", err)
		return nil, err
	}

	scanner := br.session.Query(
		`SELECT by_userid, booking_id, house_id, check_in, check_out, guests, nights, subtotal, cleaning_fee, service_fee, total, status FROM booking_by_user WHERE booking_id = ? ALLOW FILTERING`,
		parsedUUID).Iter().Scanner()

	var booking Booking
	var status string
	for scanner.Next() {
		err := scanner.Scan(
			&booking.ByUserId,
			&booking.ID,
			&booking.HouseId,
			&booking.CheckIn,
			&booking.CheckOut,
			&booking.Guests,
			&booking.Quote.Nights,
			&booking.Quote.Subtotal,
			&booking.Quote.CleaningFee,
			&booking.Quote.ServiceFee,
			&booking.Quote.Total,
			&status,
		)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		booking.Status = BookingStatus(status)
	}

	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return nil, err
	}

	return &booking, nil
}

func (br *BookingRepo) GetBookingsByUser(ctx context.Context, userId string) (Bookings, error) {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.GetBookingsByUser")
	defer span.End()

	return br.scanBookings(
		span,
		br.session.Query(`SELECT by_userid, booking_id, house_id, check_in, check_out, guests, nights, subtotal, cleaning_fee, service_fee, total, status FROM booking_by_user WHERE by_userid = ?`, userId))
}

func (br *BookingRepo) GetBookingsByHouse(ctx context.Context, houseId string) (Bookings, error) {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.GetBookingsByHouse")
	defer span.End()

	return br.scanBookings(
		span,
		br.session.Query(`SELECT by_userid, booking_id, house_id, check_in, check_out, guests, nights, subtotal, cleaning_fee, service_fee, total, status FROM booking_by_house WHERE house_id = ?`, houseId))
}

// HasBookingsForUser guards account deletion: a user with any booking on
// record cannot be removed.
func (br *BookingRepo) HasBookingsForUser(ctx context.Context, userId string) (bool, error) {
	ctx, span := br.tracer.Start(ctx, "BookingRepo.HasBookingsForUser")
	defer span.End()

	scanner := br.session.Query(
		`SELECT COUNT(*) FROM booking_by_user WHERE by_userid = ?`, userId).
		Iter().Scanner()

	var count int
	if scanner.Next() {
		err := scanner.Scan(&count)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			br.logger.Println(err)
			return false, err
		}
	}

	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return false, err
	}
	return count > 0, nil
}

func (br *BookingRepo) scanBookings(span trace.Span, query *gocql.Query) (Bookings, error) {
	scanner := query.Iter().Scanner()

	var bookings Bookings
	for scanner.Next() {
		var b Booking
		var status string
		err := scanner.Scan(
			&b.ByUserId,
			&b.ID,
			&b.HouseId,
			&b.CheckIn,
			&b.CheckOut,
			&b.Guests,
			&b.Quote.Nights,
			&b.Quote.Subtotal,
			&b.Quote.CleaningFee,
			&b.Quote.ServiceFee,
			&b.Quote.Total,
			&status,
		)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			br.logger.Println(err)
			return nil, err
		}
		b.Status = BookingStatus(status)
		bookings = append(bookings, &b)
	}
	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		br.logger.Println(err)
		return nil, err
	}
	return bookings, nil
}

// Half-open ranges: a guest may check in the day another checks out.
func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// stayDates resolves the stored stay window. When the request carried no
// dates the quote fell back to the default nights; the stay then starts
// tomorrow and runs for that many nights.
func stayDates(request *BookingRequest, nights int) (time.Time, time.Time) {
	checkIn, errIn := time.Parse("2006-01-02", request.CheckIn)
	checkOut, errOut := time.Parse("2006-01-02", request.CheckOut)
	if errIn != nil || errOut != nil {
		checkIn = time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
		checkOut = checkIn.AddDate(0, 0, nights)
	}
	return checkIn, checkOut
}
