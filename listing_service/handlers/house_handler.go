package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/data"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/search"
)

type HouseHandler struct {
	logger *log.Logger
	store  data.HouseStore
	tracer trace.Tracer
}

func NewHouseHandler(l *log.Logger, s data.HouseStore, t trace.Tracer) *HouseHandler {
	return &HouseHandler{
		logger: l,
		store:  s,
		tracer: t,
	}
}

// GetAll serves the guest listings fetch. The filter selections arrive in
// the same URL query parameters the client mirrors its state into, so the
// fetched houses always reflect the active filters.
func (s *HouseHandler) GetAll(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "HouseHandler.GetAll")
	defer span.End()

	filters := search.ParseFilterSet(h.URL.Query())

	houses, err := s.store.SearchHouses(ctx, filters)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("Database exception: ", err)
		http.Error(rw, "Error getting houses", http.StatusInternalServerError)
		return
	}

	if houses == nil {
		houses = data.Houses{}
	}

	err = houses.ToJSON(rw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to convert to json", http.StatusInternalServerError)
		s.logger.Println("Unable to convert to json:", err)
		return
	}
}

func (s *HouseHandler) GetByID(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "HouseHandler.GetByID")
	defer span.End()

	vars := mux.Vars(h)
	id := vars["id"]

	house, err := s.store.GetHouse(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("House not found: ", err)
		http.Error(rw, "House not found", http.StatusNotFound)
		return
	}

	err = house.ToJSON(rw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to convert to json", http.StatusInternalServerError)
		s.logger.Println("Unable to convert to json:", err)
		return
	}
}

func (s *HouseHandler) GetHousesByOwner(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "HouseHandler.GetHousesByOwner")
	defer span.End()

	vars := mux.Vars(h)
	ownerId := vars["ownerID"]

	houses, err := s.store.GetHousesByOwner(ctx, ownerId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Print("Database exception: ", err)
		http.Error(rw, "Error getting houses", http.StatusInternalServerError)
		return
	}

	if houses == nil {
		houses = data.Houses{}
	}

	err = houses.ToJSON(rw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(rw, "Unable to convert to json", http.StatusInternalServerError)
		s.logger.Println("Unable to convert to json:", err)
		return
	}
}

func (s *HouseHandler) DeleteHousesByOwner(rw http.ResponseWriter, h *http.Request) {
	ctx, span := s.tracer.Start(h.Context(), "HouseHandler.DeleteHousesByOwner")
	defer span.End()

	vars := mux.Vars(h)
	ownerId := vars["ownerID"]

	err := s.store.DeleteHousesByOwner(ctx, ownerId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == "No houses deleted" {
			rw.WriteHeader(http.StatusNotFound)
			rw.Write([]byte("No houses found for owner"))
			return
		}
		s.logger.Print("Database exception: ", err)
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write([]byte("Error deleting houses."))
		return
	}

	rw.WriteHeader(http.StatusOK)
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
