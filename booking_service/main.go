package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/data"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/handlers"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	port := os.Getenv("BOOKING_SERVICE_PORT")

	timeoutContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	//Initialize the logger we are going to use, with prefix and datetime for every log
	logger := log.New(os.Stdout, "[booking-api] ", log.LstdFlags)
	storeLogger := log.New(os.Stdout, "[booking-store] ", log.LstdFlags)

	exp, err := newExporter(os.Getenv("JAEGER_ADDRESS"))
	if err != nil {
		logger.Fatal("JaegerTraceProvider failed to Initialize", err)
	}
	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(timeoutContext) }()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tracer := tp.Tracer("booking_service")

	store, err := data.NewBookingRepo(tracer, storeLogger, os.Getenv("CASS_DB"))
	if err != nil {
		logger.Fatal(err)
	}
	defer store.CloseSession()
	store.CreateTables()

	bookingHandler := handlers.NewBookingHandler(logger, store, tracer)

	//Initialize the router and add a middleware for all the requests
	router := mux.NewRouter()
	router.Use(bookingHandler.MiddlewareContentTypeSet)
	router.Use(handlers.ExtractTraceInfoMiddleware)

	createBooking := router.Methods(http.MethodPost).Subrouter()
	createBooking.HandleFunc("/bookings", bookingHandler.CreateBooking)
	createBooking.Use(bookingHandler.MiddlewareBookingDeserialization)

	getQuote := router.Methods(http.MethodPost).Subrouter()
	getQuote.HandleFunc("/bookings/quote", bookingHandler.GetQuote)

	checkAvailability := router.Methods(http.MethodPost).Subrouter()
	checkAvailability.HandleFunc("/bookings/check", bookingHandler.CheckAvailability)

	getRouter := router.Methods(http.MethodGet).Subrouter()
	getRouter.HandleFunc("/bookings", bookingHandler.GetBookingsByUser)
	getRouter.HandleFunc("/bookings/house/{id}", bookingHandler.GetBookingsByHouse)
	getRouter.HandleFunc("/bookings/user/{id}/exists", bookingHandler.CheckUserBookings)

	cancelBooking := router.Methods(http.MethodPatch).Subrouter()
	cancelBooking.HandleFunc("/bookings/cancel/{id}", bookingHandler.CancelBooking)

	cors := gorillaHandlers.CORS(gorillaHandlers.AllowedOrigins([]string{"*"}))

	//Initialize the server
	server := http.Server{
		Addr:         ":" + port,
		Handler:      cors(router),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	logger.Println("Server listening on port", port)

	go func() {
		err := server.ListenAndServe()
		if err != nil {
			logger.Fatal(err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	signal.Notify(sigCh, os.Kill)

	sig := <-sigCh
	logger.Println("Received terminate, graceful shutdown", sig)

	if server.Shutdown(timeoutContext) != nil {
		logger.Fatal("Cannot gracefully shutdown...")
	}
	logger.Println("Server stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("booking_service"),
		),
	)
	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
