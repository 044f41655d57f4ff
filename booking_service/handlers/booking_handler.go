package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/authorization"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/data"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/pricing"
)

type KeyBooking struct{}

var (
	listingServiceHost      = os.Getenv("LISTING_SERVICE_HOST")
	listingServicePort      = os.Getenv("LISTING_SERVICE_PORT")
	notificationServiceHost = os.Getenv("NOTIFICATION_SERVICE_HOST")
	notificationServicePort = os.Getenv("NOTIFICATION_SERVICE_PORT")
)

type BookingHandler struct {
	logger      *log.Logger
	bookingRepo data.BookingStore
	tracer      trace.Tracer
	validate    *validator.Validate
	cb          *gobreaker.CircuitBreaker
	cb2         *gobreaker.CircuitBreaker
}

func NewBookingHandler(l *log.Logger, r data.BookingStore, t trace.Tracer) *BookingHandler {
	return &BookingHandler{
		logger:      l,
		bookingRepo: r,
		tracer:      t,
		validate:    validator.New(),
		cb:          CircuitBreaker("bookingService"),
		cb2:         CircuitBreaker("bookingService2"),
	}
}

// HouseDetails is the slice of the listing payload the booking flow needs.
type HouseDetails struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BasePrice int    `json:"basePrice"`
	OwnerId   string `json:"ownerId"`
}

// GetQuote prices a stay without creating anything. Missing or malformed
// dates still produce a quote, priced at the default number of nights.
func (s *BookingHandler) GetQuote(rw http.ResponseWriter, h *http.Request) {
	_, span := s.tracer.Start(h.Context(), "BookingHandler.GetQuote")
	defer span.End()

	var requestBody struct {
		NightlyPrice int    `json:"nightlyPrice"`
		CheckIn      string `json:"checkIn"`
		CheckOut     string `json:"checkOut"`
	}

	err := json.NewDecoder(h.Body).Decode(&requestBody)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to decode JSON", http.StatusBadRequest)
		s.logger.Println("Error decoding JSON:", err)
		return
	}

	if requestBody.NightlyPrice <= 0 {
		span.SetStatus(codes.Error, "Nightly price must be positive")
		http.Error(rw, "Nightly price must be positive", http.StatusBadRequest)
		return
	}

	quote := pricing.Calculate(requestBody.NightlyPrice, requestBody.CheckIn, requestBody.CheckOut)

	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(quote); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Error encoding JSON response:", err)
		rw.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *BookingHandler) CreateBooking(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "BookingHandler.CreateBooking")
	defer span.End()

	request := h.Context().Value(KeyBooking{}).(*data.BookingRequest)

	if err := s.validate.Struct(request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("Invalid booking request: ", err)
		rw.WriteHeader(http.StatusBadRequest)
		rw.Write([]byte("Invalid booking request."))
		return
	}

	userId, err := authorization.ExtractUserId(h)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("Unauthorized booking attempt: ", err)
		rw.WriteHeader(http.StatusUnauthorized)
		rw.Write([]byte("Unauthorized"))
		return
	}

	createdBooking, err := s.bookingRepo.InsertBooking(ctx, request, userId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == "Booking already exists for the requested dates and house." {
			s.logger.Print("No one else can book the house for the requested dates.")
			rw.WriteHeader(http.StatusMethodNotAllowed)
			rw.Write([]byte("No one else can book the house for the requested dates"))
		} else if err.Error() == "Error creating booking. Cannot create booking in the past." {
			s.logger.Print("Error creating booking. Cannot create booking in the past.")
			rw.WriteHeader(http.StatusBadRequest)
			rw.Write([]byte("Error creating booking. Cannot create booking in the past."))
		} else if err.Error() == "Cannot book a stay of zero nights." {
			s.logger.Print("Cannot book a stay of zero nights.")
			rw.WriteHeader(http.StatusBadRequest)
			rw.Write([]byte("Cannot book a stay of zero nights."))
		} else {
			s.logger.Print("Database exception: ", err)
			rw.WriteHeader(http.StatusBadRequest)
			rw.Write([]byte("Error creating booking."))
		}
		return
	}

	createdBookingID := createdBooking.ID.String()
	s.logger.Print("Booking created successfully: ", createdBooking)

	houseDetails, breakerErr := s.fetchHouseDetails(ctx, span, createdBooking.HouseId)
	if breakerErr != nil {
		span.SetStatus(codes.Error, breakerErr.Error())
		log.Printf("Circuit breaker error: %v", breakerErr)

		http.Error(rw, "Error getting listing service", http.StatusServiceUnavailable)

		err := s.bookingRepo.DeleteBooking(ctx, createdBookingID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			log.Printf("Error deleting booking after circuit breaker error: %v", err)
		}
		return
	}

	description := fmt.Sprintf("Guest booked house %s from %s to %s",
		houseDetails.Name,
		createdBooking.CheckIn.Format("2006-01-02"),
		createdBooking.CheckOut.Format("2006-01-02"))
	breakerErr = s.notifyHost(ctx, span, createdBooking.ByUserId, houseDetails.OwnerId, description)
	if breakerErr != nil {
		span.SetStatus(codes.Error, breakerErr.Error())
		log.Printf("Circuit breaker error: %v", breakerErr)

		http.Error(rw, "Error getting notification service", http.StatusServiceUnavailable)

		err := s.bookingRepo.DeleteBooking(ctx, createdBookingID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			log.Printf("Error deleting booking after circuit breaker error: %v", err)
		}
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(http.StatusCreated)
	err = createdBooking.ToJSON(rw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Unable to convert to json:", err)
	}
}

func (s *BookingHandler) CancelBooking(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "BookingHandler.CancelBooking")
	defer span.End()

	vars := mux.Vars(h)
	bookingID := vars["id"]

	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("Error retrieving booking: ", err)
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write([]byte("Error retrieving booking."))
		return
	}

	houseDetails, breakerErr := s.fetchHouseDetails(ctx, span, booking.HouseId)
	if breakerErr != nil {
		span.SetStatus(codes.Error, breakerErr.Error())
		log.Printf("Circuit breaker error: %v", breakerErr)
		http.Error(rw, "Error getting listing service", http.StatusServiceUnavailable)
		return
	}

	err = s.bookingRepo.CancelBooking(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == "Can not cancel booking. You can only cancel it before it starts." {
			s.logger.Print("Can not cancel booking. You can only cancel it before it starts.")
			rw.WriteHeader(http.StatusBadRequest)
			rw.Write([]byte("Can not cancel booking. You can only cancel it before it starts."))
		} else {
			s.logger.Print("Error cancelling booking: ", err)
			rw.WriteHeader(http.StatusInternalServerError)
			rw.Write([]byte("Error cancelling booking."))
		}
		return
	}

	description := fmt.Sprintf("Guest canceled booking for house %s from %s to %s",
		houseDetails.Name,
		booking.CheckIn.Format("2006-01-02"),
		booking.CheckOut.Format("2006-01-02"))
	breakerErr = s.notifyHost(ctx, span, booking.ByUserId, houseDetails.OwnerId, description)
	if breakerErr != nil {
		span.SetStatus(codes.Error, breakerErr.Error())
		log.Printf("Circuit breaker error: %v", breakerErr)
		http.Error(rw, "Error getting notification service", http.StatusServiceUnavailable)
		return
	}

	rw.WriteHeader(http.StatusOK)
	s.logger.Print("Booking cancelled succesfully")
}

func (s *BookingHandler) GetBookingsByUser(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "BookingHandler.GetBookingsByUser")
	defer span.End()

	userId, err := authorization.ExtractUserId(h)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println("Unauthorized:", err)
		http.Error(rw, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bookingsByUser, err := s.bookingRepo.GetBookingsByUser(ctx, userId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("Database exception: ", err)
		http.Error(rw, "Error getting bookings", http.StatusInternalServerError)
		return
	}

	if bookingsByUser == nil {
		span.SetStatus(codes.Error, "Bookings not found")
		http.Error(rw, "Bookings not found", http.StatusNotFound)
		return
	}

	err = bookingsByUser.ToJSON(rw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to convert to json", http.StatusInternalServerError)
		s.logger.Println("Unable to convert to json:", err)
		return
	}
}

func (s *BookingHandler) GetBookingsByHouse(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "BookingHandler.GetBookingsByHouse")
	defer span.End()

	vars := mux.Vars(h)
	id := vars["id"]

	bookingsByHouse, err := s.bookingRepo.GetBookingsByHouse(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("Database exception: ", err)
		http.Error(rw, "Error getting bookings", http.StatusInternalServerError)
		return
	}

	if bookingsByHouse == nil {
		span.SetStatus(codes.Error, "Bookings not found")
		http.Error(rw, "Bookings not found", http.StatusNotFound)
		return
	}

	err = bookingsByHouse.ToJSON(rw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to convert to json", http.StatusInternalServerError)
		s.logger.Println("Unable to convert to json:", err)
		return
	}
}

// CheckAvailability answers whether a house is free for a date range.
// 200 means free, 400 means an overlapping booking exists.
func (s *BookingHandler) CheckAvailability(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "BookingHandler.CheckAvailability")
	defer span.End()

	var requestBody struct {
		HouseId  string `json:"houseId"`
		CheckIn  string `json:"checkIn"`
		CheckOut string `json:"checkOut"`
	}

	err := json.NewDecoder(h.Body).Decode(&requestBody)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to decode JSON", http.StatusBadRequest)
		s.logger.Println("Error decoding JSON:", err)
		return
	}

	checkIn, errIn := time.Parse("2006-01-02", requestBody.CheckIn)
	checkOut, errOut := time.Parse("2006-01-02", requestBody.CheckOut)
	if errIn != nil || errOut != nil {
		span.SetStatus(codes.Error, "Invalid date format in JSON")
		http.Error(rw, "Invalid date format in JSON", http.StatusBadRequest)
		return
	}

	exists, err := s.bookingRepo.BookingOverlaps(ctx, requestBody.HouseId, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Error checking availability", http.StatusInternalServerError)
		s.logger.Println("Error checking availability:", err)
		return
	}

	if exists {
		rw.WriteHeader(http.StatusBadRequest)
	} else {
		rw.WriteHeader(http.StatusOK)
	}
}

// CheckUserBookings reports whether the user has any bookings on record.
// The user service calls this before deleting an account.
func (s *BookingHandler) CheckUserBookings(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "BookingHandler.CheckUserBookings")
	defer span.End()

	vars := mux.Vars(h)
	userID := vars["id"]

	hasBookings, err := s.bookingRepo.HasBookingsForUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Error checking user bookings:", err)
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(hasBookings); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Println("Error encoding JSON response:", err)
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}
}

// Circuit breaker call to the listing service
func (s *BookingHandler) fetchHouseDetails(ctx context.Context, span trace.Span, houseId string) (*HouseDetails, error) {
	result, breakerErr := s.cb.Execute(func() (interface{}, error) {

		houseDetailsEndpoint := fmt.Sprintf("http://%s:%s/%s", listingServiceHost, listingServicePort, houseId)
		houseDetailsRequest, _ := http.NewRequest("GET", houseDetailsEndpoint, nil)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(houseDetailsRequest.Header))
		houseDetailsResponse, err := http.DefaultClient.Do(houseDetailsRequest)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("Error fetching house details: %v", err)
		}
		defer houseDetailsResponse.Body.Close()

		if houseDetailsResponse.StatusCode != http.StatusOK {
			span.SetStatus(codes.Error, "Error fetching house details")
			return nil, data.ErrResp{URL: houseDetailsEndpoint, StatusCode: houseDetailsResponse.StatusCode}
		}

		var houseDetails HouseDetails
		if err := json.NewDecoder(houseDetailsResponse.Body).Decode(&houseDetails); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("Error decoding house details JSON: %v", err)
		}

		return &houseDetails, nil
	})
	if breakerErr != nil {
		return nil, breakerErr
	}
	return result.(*HouseDetails), nil
}

// Circuit breaker call to the notification service
func (s *BookingHandler) notifyHost(ctx context.Context, span trace.Span, byGuestId, forHostId, description string) error {
	_, breakerErr := s.cb2.Execute(func() (interface{}, error) {

		requestBody := map[string]interface{}{
			"ByGuestId":   byGuestId,
			"ForHostId":   forHostId,
			"Description": description,
		}

		body, err := json.Marshal(requestBody)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("Error marshaling requestBody details JSON: %v", err)
		}

		notificationServiceEndpoint := fmt.Sprintf("http://%s:%s/", notificationServiceHost, notificationServicePort)
		notificationServiceRequest, _ := http.NewRequest("POST", notificationServiceEndpoint, bytes.NewReader(body))
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(notificationServiceRequest.Header))
		response, err := http.DefaultClient.Do(notificationServiceRequest)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("Error fetching notification service: %v", err)
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
			buf := new(strings.Builder)
			_, _ = io.Copy(buf, response.Body)
			return nil, fmt.Errorf("NotificationServiceError: %s", buf.String())
		}

		return response, nil
	})
	return breakerErr
}

func (s *BookingHandler) MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(rw, h)
	})
}

func (s *BookingHandler) MiddlewareBookingDeserialization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		request := &data.BookingRequest{}
		err := request.FromJSON(h.Body)
		if err != nil {
			http.Error(rw, "Unable to decode json", http.StatusBadRequest)
			s.logger.Println(err)
			return
		}
		ctx := context.WithValue(h.Context(), KeyBooking{}, request)
		h = h.WithContext(ctx)
		next.ServeHTTP(rw, h)
	})
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit Breaker '%s' changed from '%s' to '%s'\n", name, from, to)
			},

			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				errResp, ok := err.(data.ErrResp)
				return ok && errResp.StatusCode >= 400 && errResp.StatusCode < 500
			},
		},
	)
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
