package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/notification_service/domain"
)

var (
	userServiceHost = os.Getenv("USER_SERVICE_HOST")
	userServicePort = os.Getenv("USER_SERVICE_PORT")
)

type NotificationService struct {
	store  domain.NotificationStore
	tracer trace.Tracer
	logger *logrus.Logger
	cb     *gobreaker.CircuitBreaker
}

func NewNotificationService(store domain.NotificationStore, tracer trace.Tracer, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		tracer: tracer,
		logger: logger,
		cb:     CircuitBreaker("notificationService"),
	}
}

func (service *NotificationService) GetNotificationByHostId(ctx context.Context, hostId string) ([]*domain.Notification, error) {
	return service.store.GetNotificationsByHostId(ctx, hostId)
}

func (service *NotificationService) GetAllNotifications(ctx context.Context) ([]*domain.Notification, error) {
	return service.store.GetAllNotifications(ctx)
}

func (service *NotificationService) MarkRead(ctx context.Context, id string) error {
	return service.store.MarkRead(ctx, id)
}

func (service *NotificationService) CountUnread(ctx context.Context, hostId string) (int64, error) {
	return service.store.CountUnread(ctx, hostId)
}

// CreateNotification checks the addressed host actually exists before
// storing anything. New notifications start unread.
func (service *NotificationService) CreateNotification(ctx context.Context, notification *domain.Notification) error {

	result, breakerErr := service.cb.Execute(func() (interface{}, error) {
		return service.getUserDetails(ctx, notification.ForHostId)
	})
	if breakerErr != nil {
		service.logger.Errorf("Error fetching host %s: %v", notification.ForHostId, breakerErr)
		return breakerErr
	}

	userDetails, ok := result.(*UserDetails)
	if !ok {
		return fmt.Errorf("Internal server error: Unexpected result type")
	}

	notificationInfo := domain.Notification{
		ID:          notification.ID,
		ByGuestId:   notification.ByGuestId,
		ForHostId:   userDetails.ID,
		Description: notification.Description,
		Read:        false,
		CreatedAt:   time.Now(),
	}

	_, err := service.store.CreateNotification(ctx, &notificationInfo)
	if err != nil {
		return err
	}

	service.logger.Infof("Notification created for host %s: %s", notificationInfo.ForHostId, notificationInfo.Description)
	return nil
}

func (service *NotificationService) getUserDetails(ctx context.Context, userID string) (*UserDetails, error) {
	userDetailsEndpoint := fmt.Sprintf("http://%s:%s/%s", userServiceHost, userServicePort, userID)
	request, _ := http.NewRequest("GET", userDetailsEndpoint, nil)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("UserServiceError: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, domain.ErrResp{URL: userDetailsEndpoint, StatusCode: response.StatusCode}
	}

	var userDetails UserDetails
	if err := json.NewDecoder(response.Body).Decode(&userDetails); err != nil {
		return nil, err
	}

	return &userDetails, nil
}

type UserDetails struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Residence string `json:"residence"`
	Email     string `json:"email"`
	UserType  string `json:"userType"`
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
				logrus.Infof("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
			},

			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				errResp, ok := err.(domain.ErrResp)
				return ok && errResp.StatusCode >= 400 && errResp.StatusCode < 500
			},
		},
	)
}
