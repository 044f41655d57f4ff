package domain

import "context"

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *Notification) (*Notification, error)
	GetAllNotifications(ctx context.Context) ([]*Notification, error)
	GetNotificationsByHostId(ctx context.Context, hostId string) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, hostId string) (int64, error)
}
