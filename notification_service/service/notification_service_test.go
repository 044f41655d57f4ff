package application

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/notification_service/domain"
)

type fakeNotificationStore struct {
	created []*domain.Notification
}

func (f *fakeNotificationStore) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotificationStore) GetAllNotifications(ctx context.Context) ([]*domain.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationStore) GetNotificationsByHostId(ctx context.Context, hostId string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range f.created {
		if n.ForHostId == hostId {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id string) error {
	for _, n := range f.created {
		if n.ID.Hex() == id {
			n.Read = true
			return nil
		}
	}
	return errors.New("Notification not found")
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, hostId string) (int64, error) {
	var count int64
	for _, n := range f.created {
		if n.ForHostId == hostId && !n.Read {
			count++
		}
	}
	return count, nil
}

func pointUserServiceAt(t *testing.T, srv *httptest.Server) {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	oldHost, oldPort := userServiceHost, userServicePort
	userServiceHost, userServicePort = host, port
	t.Cleanup(func() {
		userServiceHost, userServicePort = oldHost, oldPort
	})
}

func newTestService(store domain.NotificationStore) *NotificationService {
	logger := logrus.New()
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	return NewNotificationService(store, tracer, logger)
}

func TestCreateNotificationStartsUnread(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(UserDetails{ID: "host-1", Username: "host", UserType: "Host"})
	}))
	defer srv.Close()
	pointUserServiceAt(t, srv)

	store := &fakeNotificationStore{}
	service := newTestService(store)

	err := service.CreateNotification(context.Background(), &domain.Notification{
		ByGuestId:   "guest-1",
		ForHostId:   "host-1",
		Description: "Guest booked house Forest Cabin",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("got %d notifications, want 1", len(store.created))
	}
	if store.created[0].Read {
		t.Error("new notification should start unread")
	}
	if store.created[0].CreatedAt.IsZero() {
		t.Error("created notification has no timestamp")
	}
}

func TestCreateNotificationUnknownHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	pointUserServiceAt(t, srv)

	store := &fakeNotificationStore{}
	service := newTestService(store)

	err := service.CreateNotification(context.Background(), &domain.Notification{
		ByGuestId: "guest-1",
		ForHostId: "nobody",
	})
	if err == nil {
		t.Fatal("expected error for unknown host")
	}
	if len(store.created) != 0 {
		t.Error("nothing should be stored when the host does not exist")
	}
}

func TestUnreadCountDropsAfterMarkRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(UserDetails{ID: "host-1"})
	}))
	defer srv.Close()
	pointUserServiceAt(t, srv)

	store := &fakeNotificationStore{}
	service := newTestService(store)

	for i := 0; i < 2; i++ {
		if err := service.CreateNotification(context.Background(), &domain.Notification{
			ByGuestId: "guest-1",
			ForHostId: "host-1",
		}); err != nil {
			t.Fatal(err)
		}
	}

	count, err := service.CountUnread(context.Background(), "host-1")
	if err != nil || count != 2 {
		t.Fatalf("unread = %d, %v; want 2", count, err)
	}

	if err := service.MarkRead(context.Background(), store.created[0].ID.Hex()); err != nil {
		t.Fatal(err)
	}

	count, err = service.CountUnread(context.Background(), "host-1")
	if err != nil || count != 1 {
		t.Fatalf("unread after mark = %d, %v; want 1", count, err)
	}
}
