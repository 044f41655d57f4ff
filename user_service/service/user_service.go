package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/domain"
)

var (
	bookingServiceHost = os.Getenv("BOOKING_SERVICE_HOST")
	bookingServicePort = os.Getenv("BOOKING_SERVICE_PORT")
	listingServiceHost = os.Getenv("LISTING_SERVICE_HOST")
	listingServicePort = os.Getenv("LISTING_SERVICE_PORT")
)

var ErrAccountHasBookings = errors.New("Cannot delete account with bookings on record.")

type UserService struct {
	store     domain.UserStore
	favorites domain.FavoriteStore
	validate  *validator.Validate
	cb        *gobreaker.CircuitBreaker
	cb2       *gobreaker.CircuitBreaker
}

func NewUserService(store domain.UserStore, favorites domain.FavoriteStore) *UserService {
	return &UserService{
		store:     store,
		favorites: favorites,
		validate:  validator.New(),
		cb:        newCircuitBreaker("userService"),
		cb2:       newCircuitBreaker("userService2"),
	}
}

func (service *UserService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return service.store.Get(ctx, id)
}

func (service *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return service.store.GetAll(ctx)
}

func (service *UserService) GetOneUser(ctx context.Context, username string) (*domain.User, error) {
	retUser, err := service.store.GetOneUser(ctx, username)
	if err != nil {
		log.Println(err)
		return nil, fmt.Errorf("User not found")
	}
	return retUser, nil
}

func (service *UserService) DoesEmailExist(ctx context.Context, email string) (string, error) {
	user, err := service.store.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	return user.ID.Hex(), nil
}

func (service *UserService) Register(ctx context.Context, user *domain.User) (*domain.User, error) {

	if err := service.validate.Struct(user); err != nil {
		return nil, err
	}

	userInfo := domain.User{
		ID:        user.ID,
		UserType:  user.UserType,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Residence: user.Residence,
		Email:     user.Email,
		Username:  user.Username,
	}

	return service.store.Register(ctx, &userInfo)
}

func (service *UserService) UpdateUser(ctx context.Context, updateUser *domain.User) (*domain.User, error) {

	if err := service.validate.Struct(updateUser); err != nil {
		return nil, err
	}

	return service.store.UpdateUser(ctx, updateUser)
}

func (service *UserService) ChangeUsername(ctx context.Context, username domain.UsernameChange) (string, int, error) {

	currentUsername := username.OldUsername

	user, err := service.store.GetOneUser(ctx, currentUsername)
	if err != nil {
		log.Println(err)
		return "GetUserErr", http.StatusInternalServerError, err
	}

	user.Username = username.NewUsername

	err = service.store.UpdateUserUsername(ctx, user)
	if err != nil {
		return "baseErr", http.StatusInternalServerError, err
	}

	return "OK", http.StatusOK, nil
}

func (service *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	return service.store.GetProfile(ctx, userID)
}

func (service *UserService) SaveProfile(ctx context.Context, profile *domain.Profile) error {
	if err := service.validate.Struct(profile); err != nil {
		return err
	}
	return service.store.UpsertProfile(ctx, profile)
}

func (service *UserService) AddFavorite(ctx context.Context, userId, houseId string) (*domain.Favorite, error) {
	return service.favorites.AddFavorite(ctx, userId, houseId)
}

func (service *UserService) RemoveFavorite(ctx context.Context, userId, houseId string) error {
	return service.favorites.RemoveFavorite(ctx, userId, houseId)
}

func (service *UserService) GetFavorites(ctx context.Context, userId string) ([]*domain.Favorite, error) {
	return service.favorites.GetFavoritesByUser(ctx, userId)
}

func (service *UserService) IsFavorite(ctx context.Context, userId, houseId string) (bool, error) {
	return service.favorites.IsFavorite(ctx, userId, houseId)
}

// DeleteAccount removes the user, their favorites and, for hosts, their
// houses. It refuses while the booking service reports bookings on record.
func (service *UserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {

	user, err := service.store.Get(ctx, userID)
	if err != nil {
		return err
	}

	hasBookings, err := service.checkUserBookings(ctx, userID.Hex())
	if err != nil {
		return err
	}
	if hasBookings {
		return ErrAccountHasBookings
	}

	if user.UserType == domain.Host {
		if err := service.deleteUserHouses(ctx, userID.Hex()); err != nil {
			return err
		}
	}

	if err := service.favorites.DeleteFavoritesByUser(ctx, userID.Hex()); err != nil {
		log.Println("Error deleting favorites for user:", err)
	}

	return service.store.DeleteAccount(ctx, userID)
}

// Circuit breaker call to the booking service
func (service *UserService) checkUserBookings(ctx context.Context, userId string) (bool, error) {
	result, breakerErr := service.cb.Execute(func() (interface{}, error) {

		endpoint := fmt.Sprintf("http://%s:%s/bookings/user/%s/exists", bookingServiceHost, bookingServicePort, userId)
		request, _ := http.NewRequest("GET", endpoint, nil)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))
		response, err := http.DefaultClient.Do(request)
		if err != nil {
			return nil, fmt.Errorf("Error fetching booking service: %v", err)
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("Error checking bookings. Status code: %d", response.StatusCode)
		}

		var hasBookings bool
		if err := json.NewDecoder(response.Body).Decode(&hasBookings); err != nil {
			return nil, fmt.Errorf("Error decoding booking check response: %v", err)
		}
		return hasBookings, nil
	})
	if breakerErr != nil {
		return false, breakerErr
	}
	return result.(bool), nil
}

// Circuit breaker call to the listing service
func (service *UserService) deleteUserHouses(ctx context.Context, ownerId string) error {
	_, breakerErr := service.cb2.Execute(func() (interface{}, error) {

		endpoint := fmt.Sprintf("http://%s:%s/delete_houses/%s", listingServiceHost, listingServicePort, ownerId)
		request, _ := http.NewRequest("DELETE", endpoint, nil)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))
		response, err := http.DefaultClient.Do(request)
		if err != nil {
			return nil, fmt.Errorf("Error fetching listing service: %v", err)
		}
		defer response.Body.Close()

		// A host without houses is not an error.
		if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusNotFound {
			return nil, fmt.Errorf("Error deleting houses. Status code: %d", response.StatusCode)
		}
		return nil, nil
	})
	return breakerErr
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
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
		},
	)
}
