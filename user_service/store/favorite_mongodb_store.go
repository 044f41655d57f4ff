package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/domain"
)

const FAVORITES_COLLECTION = "favorites"

type FavoriteMongoDBStore struct {
	favorites *mongo.Collection
	tracer    trace.Tracer
}

func NewFavoriteMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.FavoriteStore {
	favorites := client.Database(DATABASE).Collection(FAVORITES_COLLECTION)
	return &FavoriteMongoDBStore{
		favorites: favorites,
		tracer:    tracer,
	}
}

// AddFavorite is idempotent. Saving an already saved house returns the
// existing entry.
func (store *FavoriteMongoDBStore) AddFavorite(ctx context.Context, userId, houseId string) (*domain.Favorite, error) {
	ctx, span := store.tracer.Start(ctx, "FavoriteStore.AddFavorite")
	defer span.End()

	var existing domain.Favorite
	err := store.favorites.FindOne(ctx, bson.M{"userId": userId, "houseId": houseId}).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	favorite := &domain.Favorite{
		ID:      primitive.NewObjectID(),
		UserId:  userId,
		HouseId: houseId,
		AddedAt: time.Now(),
	}
	_, err = store.favorites.InsertOne(ctx, favorite)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return favorite, nil
}

func (store *FavoriteMongoDBStore) RemoveFavorite(ctx context.Context, userId, houseId string) error {
	ctx, span := store.tracer.Start(ctx, "FavoriteStore.RemoveFavorite")
	defer span.End()

	_, err := store.favorites.DeleteOne(ctx, bson.M{"userId": userId, "houseId": houseId})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (store *FavoriteMongoDBStore) GetFavoritesByUser(ctx context.Context, userId string) ([]*domain.Favorite, error) {
	ctx, span := store.tracer.Start(ctx, "FavoriteStore.GetFavoritesByUser")
	defer span.End()

	cursor, err := store.favorites.Find(ctx, bson.M{"userId": userId})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer cursor.Close(ctx)

	var favorites []*domain.Favorite
	for cursor.Next(ctx) {
		var favorite domain.Favorite
		if err := cursor.Decode(&favorite); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		favorites = append(favorites, &favorite)
	}
	if err := cursor.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return favorites, nil
}

func (store *FavoriteMongoDBStore) IsFavorite(ctx context.Context, userId, houseId string) (bool, error) {
	ctx, span := store.tracer.Start(ctx, "FavoriteStore.IsFavorite")
	defer span.End()

	count, err := store.favorites.CountDocuments(ctx, bson.M{"userId": userId, "houseId": houseId})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return count > 0, nil
}

func (store *FavoriteMongoDBStore) DeleteFavoritesByUser(ctx context.Context, userId string) error {
	ctx, span := store.tracer.Start(ctx, "FavoriteStore.DeleteFavoritesByUser")
	defer span.End()

	_, err := store.favorites.DeleteMany(ctx, bson.M{"userId": userId})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
