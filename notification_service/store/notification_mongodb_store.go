package store

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/notification_service/domain"
)

const (
	DATABASE   = "notification"
	COLLECTION = "notifications"
)

type NotificationMongoDBStore struct {
	notifications *mongo.Collection
	tracer        trace.Tracer
	logger        *logrus.Logger
}

func NewNotificationMongoDBStore(client *mongo.Client, tracer trace.Tracer, logger *logrus.Logger) domain.NotificationStore {
	notifications := client.Database(DATABASE).Collection(COLLECTION)
	return &NotificationMongoDBStore{
		notifications: notifications,
		tracer:        tracer,
		logger:        logger,
	}
}

func (store *NotificationMongoDBStore) CreateNotification(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.CreateNotification")
	defer span.End()

	notification.ID = primitive.NewObjectID()
	result, err := store.notifications.InsertOne(ctx, notification)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Errorf("Error inserting notification: %v", err)
		return nil, err
	}
	notification.ID = result.InsertedID.(primitive.ObjectID)
	return notification, nil
}

func (store *NotificationMongoDBStore) GetAllNotifications(ctx context.Context) ([]*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.GetAllNotifications")
	defer span.End()

	filter := bson.D{{}}
	return store.filter(ctx, filter)
}

func (store *NotificationMongoDBStore) GetNotificationsByHostId(ctx context.Context, hostId string) ([]*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.GetNotificationsByHostId")
	defer span.End()

	filter := bson.M{"forHostId": hostId}
	return store.filter(ctx, filter)
}

func (store *NotificationMongoDBStore) MarkRead(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.MarkRead")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	result, err := store.notifications.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Errorf("Error marking notification read: %v", err)
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("Notification not found")
	}
	return nil
}

func (store *NotificationMongoDBStore) CountUnread(ctx context.Context, hostId string) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.CountUnread")
	defer span.End()

	count, err := store.notifications.CountDocuments(ctx, bson.M{"forHostId": hostId, "read": false})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return count, nil
}

func (store *NotificationMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.Notification, error) {
	cursor, err := store.notifications.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decode(ctx, cursor)
}

func decode(ctx context.Context, cursor *mongo.Cursor) (notifications []*domain.Notification, err error) {
	for cursor.Next(ctx) {
		var notification domain.Notification
		err = cursor.Decode(&notification)
		if err != nil {
			return
		}
		notifications = append(notifications, &notification)
	}
	err = cursor.Err()
	return
}
