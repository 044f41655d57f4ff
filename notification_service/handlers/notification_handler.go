package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/notification_service/domain"
	application "github.com/MatainjaTechnologies/natuurhuisje-sub000/notification_service/service"
)

type NotificationHandler struct {
	service *application.NotificationService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewNotificationHandler(service *application.NotificationService, tracer trace.Tracer, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *NotificationHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/", handler.GetAllNotifications).Methods("GET")
	router.HandleFunc("/", handler.CreateNotification).Methods("POST")
	router.HandleFunc("/unread/{hostId}", handler.CountUnread).Methods("GET")
	router.HandleFunc("/{id}/read", handler.MarkRead).Methods("PATCH")
	router.HandleFunc("/{id}", handler.GetNotificationByHostId).Methods("GET")
}

func (handler *NotificationHandler) CreateNotification(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.CreateNotification")
	defer span.End()

	var notification domain.Notification
	err := json.NewDecoder(req.Body).Decode(&notification)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Errorf("Error decoding notification: %v", err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	notification.CreatedAt = time.Now()

	err = handler.service.CreateNotification(ctx, &notification)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == "Database error" {
			http.Error(writer, err.Error(), http.StatusInternalServerError)
		} else {
			http.Error(writer, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *NotificationHandler) GetAllNotifications(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.GetAllNotifications")
	defer span.End()

	notifications, err := handler.service.GetAllNotifications(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	jsonResponse(notifications, writer)
}

func (handler *NotificationHandler) GetNotificationByHostId(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.GetNotificationByHostId")
	defer span.End()

	vars := mux.Vars(req)
	id, ok := vars["id"]
	if !ok {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}

	notifications, err := handler.service.GetNotificationByHostId(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusNotFound)
		return
	}
	jsonResponse(notifications, writer)
}

func (handler *NotificationHandler) MarkRead(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.MarkRead")
	defer span.End()

	vars := mux.Vars(req)
	id := vars["id"]

	err := handler.service.MarkRead(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == "Notification not found" {
			http.Error(writer, err.Error(), http.StatusNotFound)
		} else {
			http.Error(writer, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *NotificationHandler) CountUnread(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "NotificationHandler.CountUnread")
	defer span.End()

	vars := mux.Vars(req)
	hostId := vars["hostId"]

	count, err := handler.service.CountUnread(ctx, hostId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	jsonResponse(map[string]int64{"unread": count}, writer)
}

func jsonResponse(v interface{}, writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(v); err != nil {
		logrus.Errorf("error encoding response: %v", err)
	}
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
