package application

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/domain"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]*domain.User{}}
}

func (f *fakeUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

func (f *fakeUserStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	var all []*domain.User
	for _, u := range f.users {
		all = append(all, u)
	}
	return all, nil
}

func (f *fakeUserStore) GetOneUser(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) UpdateUserUsername(ctx context.Context, user *domain.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	if _, ok := f.users[userID]; !ok {
		return errors.New("No user deleted")
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeUserStore) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	user, err := f.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.DefaultProfile(user), nil
}

func (f *fakeUserStore) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	return nil
}

type fakeFavoriteStore struct {
	byUser map[string][]string
}

func newFakeFavoriteStore() *fakeFavoriteStore {
	return &fakeFavoriteStore{byUser: map[string][]string{}}
}

func (f *fakeFavoriteStore) AddFavorite(ctx context.Context, userId, houseId string) (*domain.Favorite, error) {
	for _, h := range f.byUser[userId] {
		if h == houseId {
			return &domain.Favorite{UserId: userId, HouseId: houseId}, nil
		}
	}
	f.byUser[userId] = append(f.byUser[userId], houseId)
	return &domain.Favorite{UserId: userId, HouseId: houseId}, nil
}

func (f *fakeFavoriteStore) RemoveFavorite(ctx context.Context, userId, houseId string) error {
	kept := f.byUser[userId][:0]
	for _, h := range f.byUser[userId] {
		if h != houseId {
			kept = append(kept, h)
		}
	}
	f.byUser[userId] = kept
	return nil
}

func (f *fakeFavoriteStore) GetFavoritesByUser(ctx context.Context, userId string) ([]*domain.Favorite, error) {
	var favorites []*domain.Favorite
	for _, h := range f.byUser[userId] {
		favorites = append(favorites, &domain.Favorite{UserId: userId, HouseId: h})
	}
	return favorites, nil
}

func (f *fakeFavoriteStore) IsFavorite(ctx context.Context, userId, houseId string) (bool, error) {
	for _, h := range f.byUser[userId] {
		if h == houseId {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFavoriteStore) DeleteFavoritesByUser(ctx context.Context, userId string) error {
	delete(f.byUser, userId)
	return nil
}

func pointBookingServiceAt(t *testing.T, srv *httptest.Server) {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	oldHost, oldPort := bookingServiceHost, bookingServicePort
	bookingServiceHost, bookingServicePort = host, port
	t.Cleanup(func() {
		bookingServiceHost, bookingServicePort = oldHost, oldPort
	})
}

func TestRegisterValidation(t *testing.T) {
	service := NewUserService(newFakeUserStore(), newFakeFavoriteStore())

	_, err := service.Register(context.Background(), &domain.User{
		Email:    "not-an-email",
		Username: "janedoe",
		UserType: domain.Guest,
	})
	if err == nil {
		t.Error("expected invalid email to be rejected")
	}

	_, err = service.Register(context.Background(), &domain.User{
		Email:    "jane@example.com",
		Username: "janedoe",
		UserType: "Admin",
	})
	if err == nil {
		t.Error("expected unknown user type to be rejected")
	}

	saved, err := service.Register(context.Background(), &domain.User{
		Email:    "jane@example.com",
		Username: "janedoe",
		UserType: domain.Guest,
	})
	if err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}
	if saved.ID.IsZero() {
		t.Error("saved user has no id")
	}
}

func TestIsFavoriteTracksToggle(t *testing.T) {
	service := NewUserService(newFakeUserStore(), newFakeFavoriteStore())

	favorite, err := service.IsFavorite(context.Background(), "user-1", "house-1")
	if err != nil {
		t.Fatal(err)
	}
	if favorite {
		t.Error("house should not start as a favorite")
	}

	if _, err := service.AddFavorite(context.Background(), "user-1", "house-1"); err != nil {
		t.Fatal(err)
	}
	favorite, err = service.IsFavorite(context.Background(), "user-1", "house-1")
	if err != nil {
		t.Fatal(err)
	}
	if !favorite {
		t.Error("house should be a favorite after saving it")
	}

	if err := service.RemoveFavorite(context.Background(), "user-1", "house-1"); err != nil {
		t.Fatal(err)
	}
	favorite, err = service.IsFavorite(context.Background(), "user-1", "house-1")
	if err != nil {
		t.Fatal(err)
	}
	if favorite {
		t.Error("house should no longer be a favorite after removal")
	}
}

func TestDeleteAccountRefusedWithBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("true"))
	}))
	defer srv.Close()
	pointBookingServiceAt(t, srv)

	store := newFakeUserStore()
	service := NewUserService(store, newFakeFavoriteStore())

	user, err := service.Register(context.Background(), &domain.User{
		Email:    "jane@example.com",
		Username: "janedoe",
		UserType: domain.Guest,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = service.DeleteAccount(context.Background(), user.ID)
	if err != ErrAccountHasBookings {
		t.Fatalf("got %v, want ErrAccountHasBookings", err)
	}
	if _, err := store.Get(context.Background(), user.ID); err != nil {
		t.Error("user should still exist after refused deletion")
	}
}

func TestDeleteAccountRemovesUserAndFavorites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("false"))
	}))
	defer srv.Close()
	pointBookingServiceAt(t, srv)

	store := newFakeUserStore()
	favorites := newFakeFavoriteStore()
	service := NewUserService(store, favorites)

	user, err := service.Register(context.Background(), &domain.User{
		Email:    "jane@example.com",
		Username: "janedoe",
		UserType: domain.Guest,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := service.AddFavorite(context.Background(), user.ID.Hex(), "house-1"); err != nil {
		t.Fatal(err)
	}

	if err := service.DeleteAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(context.Background(), user.ID); err == nil {
		t.Error("user should be gone")
	}
	if favs, _ := service.GetFavorites(context.Background(), user.ID.Hex()); len(favs) != 0 {
		t.Errorf("favorites should be gone, got %d", len(favs))
	}
}

func TestDefaultProfileForUserWithoutOne(t *testing.T) {
	store := newFakeUserStore()
	service := NewUserService(store, newFakeFavoriteStore())

	user, err := service.Register(context.Background(), &domain.User{
		Email:    "jane@example.com",
		Username: "janedoe",
		UserType: domain.Guest,
	})
	if err != nil {
		t.Fatal(err)
	}

	profile, err := service.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("missing profile should fall back to default, got %v", err)
	}
	if profile.DisplayName != "janedoe" {
		t.Errorf("default display name = %q, want username", profile.DisplayName)
	}
	if profile.Locale != "en" {
		t.Errorf("default locale = %q, want en", profile.Locale)
	}
}
