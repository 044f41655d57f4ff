package startup

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	"github.com/cristalhq/jwt/v4"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/cache"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/data"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/handlers"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/startup/config"
)

type Server struct {
	config *config.Config
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) Start() {

	timeoutContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := log.New(os.Stdout, "[listing-api] ", log.LstdFlags)
	storeLogger := log.New(os.Stdout, "[listing-store] ", log.LstdFlags)
	cacheLogger := log.New(os.Stdout, "[listing-cache] ", log.LstdFlags)

	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("listing_service")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	store, err := data.NewHouseMongoDBStore(timeoutContext, storeLogger, tracer, server.config.ListingDBHost, server.config.ListingDBPort)
	if err != nil {
		logger.Fatal(err)
	}
	defer store.DisconnectMongo(timeoutContext)
	store.Ping()

	sessions, err := cache.New(cacheLogger, tracer, server.config.DraftCacheHost, server.config.DraftCachePort)
	if err != nil {
		logger.Fatal(err)
	}
	sessions.Ping()

	publisher := data.NewDraftPublisher(store, storeLogger, tracer)

	houseHandler := handlers.NewHouseHandler(logger, store, tracer)
	draftHandler := handlers.NewDraftHandler(logger, sessions, publisher, tracer)

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)
	router.Use(handlers.ExtractTraceInfoMiddleware)

	casbinMiddleware, err := InitializeCasbinMiddleware("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}
	router.Use(casbinMiddleware)

	getHouses := router.Methods(http.MethodGet).Subrouter()
	getHouses.HandleFunc("/", houseHandler.GetAll)
	getHouseById := router.Methods(http.MethodGet).Subrouter()
	getHouseById.HandleFunc("/{id}", houseHandler.GetByID)
	getHousesByOwner := router.Methods(http.MethodGet).Subrouter()
	getHousesByOwner.HandleFunc("/owner/{ownerID}", houseHandler.GetHousesByOwner)
	deleteHousesByOwner := router.Methods(http.MethodDelete).Subrouter()
	deleteHousesByOwner.HandleFunc("/delete_houses/{ownerID}", houseHandler.DeleteHousesByOwner)

	startDraft := router.Methods(http.MethodPost).Subrouter()
	startDraft.HandleFunc("/drafts", draftHandler.StartDraft)
	getDraft := router.Methods(http.MethodGet).Subrouter()
	getDraft.HandleFunc("/drafts/{id}", draftHandler.GetDraft)
	selectStep := router.Methods(http.MethodPatch).Subrouter()
	selectStep.HandleFunc("/drafts/{id}/select/{step}", draftHandler.SelectStep)
	nextStep := router.Methods(http.MethodPost).Subrouter()
	nextStep.HandleFunc("/drafts/{id}/next", draftHandler.NextStep)
	nextStep.Use(draftHandler.MiddlewareUpdateDeserialization)
	submitDraft := router.Methods(http.MethodPost).Subrouter()
	submitDraft.HandleFunc("/drafts/{id}/submit", draftHandler.SubmitDraft)
	discardDraft := router.Methods(http.MethodDelete).Subrouter()
	discardDraft.HandleFunc("/drafts/{id}", draftHandler.DiscardDraft)

	cors := gorillaHandlers.CORS(gorillaHandlers.AllowedOrigins([]string{"*"}))

	srv := &http.Server{
		Addr:         ":" + server.config.Port,
		Handler:      cors(router),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	logger.Println("Server listening on port", server.config.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	sig := <-c
	logger.Println("Received terminate, graceful shutdown", sig)

	if srv.Shutdown(timeoutContext) != nil {
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
			semconv.ServiceNameKey.String("listing_service"),
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

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(rw, h)
	})
}

var jwtKey = []byte(os.Getenv("SECRET_KEY"))

var verifier, _ = jwt.NewVerifierHS(jwt.HS256, jwtKey)

func parseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	return token, nil
}

func extractUserType(r *http.Request) (string, error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return "Unauthenticated", nil
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 {
		return "", errors.New("invalid token format")
	}

	tokenString := bearerToken[1]
	token, err := parseToken(tokenString)
	if err != nil {
		return "", err
	}

	claims := extractClaims(token)
	return claims["userType"], nil
}

func extractClaims(token *jwt.Token) map[string]string {
	var claims map[string]string

	err := jwt.ParseClaims(token.Bytes(), verifier, &claims)
	if err != nil {
		log.Println(err)
	}

	return claims
}

func InitializeCasbinMiddleware(modelPath, policyPath string) (func(http.Handler) http.Handler, error) {
	e, err := casbin.NewEnforcerSafe(modelPath, policyPath)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole, err := extractUserType(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				log.Println("Enforce error:", err)
				http.Error(w, "Unauthorized user", http.StatusUnauthorized)
				return
			}

			if res {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		}

		return http.HandlerFunc(fn)
	}, nil
}
