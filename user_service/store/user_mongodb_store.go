package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/domain"
)

const (
	DATABASE            = "user"
	COLLECTION          = "users"
	PROFILES_COLLECTION = "profiles"
)

type UserMongoDBStore struct {
	users    *mongo.Collection
	profiles *mongo.Collection
	tracer   trace.Tracer
}

func NewUserMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	db := client.Database(DATABASE)
	return &UserMongoDBStore{
		users:    db.Collection(COLLECTION),
		profiles: db.Collection(PROFILES_COLLECTION),
		tracer:   tracer,
	}
}

func (store *UserMongoDBStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Register")
	defer span.End()

	user.ID = primitive.NewObjectID()
	result, err := store.users.InsertOne(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (store *UserMongoDBStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetAll")
	defer span.End()

	filter := bson.D{{}}
	return store.filter(ctx, filter)
}

func (store *UserMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *UserMongoDBStore) GetOneUser(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetOneUser")
	defer span.End()

	filter := bson.M{"username": username}
	return store.filterOne(ctx, filter)
}

func (store *UserMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByEmail")
	defer span.End()

	filter := bson.M{"email": email}
	return store.filterOne(ctx, filter)
}

func (store *UserMongoDBStore) UpdateUserUsername(ctx context.Context, user *domain.User) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdateUserUsername")
	defer span.End()

	_, err := store.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": user})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (store *UserMongoDBStore) UpdateUser(ctx context.Context, updateUser *domain.User) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdateUser")
	defer span.End()

	updateData := bson.M{
		"firstName": updateUser.Firstname,
		"lastName":  updateUser.Lastname,
		"residence": updateUser.Residence,
		"email":     updateUser.Email,
	}

	filter := bson.M{"_id": updateUser.ID}
	update := bson.M{"$set": updateData}

	result, err := store.users.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if result.MatchedCount == 0 {
		return nil, errors.New("No user updated")
	}

	return updateUser, nil
}

func (store *UserMongoDBStore) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.DeleteAccount")
	defer span.End()

	filter := bson.M{"_id": userID}
	result, err := store.users.DeleteOne(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if result.DeletedCount == 0 {
		return errors.New("No user deleted")
	}

	// The profile goes with the account. A user without one is fine.
	_, err = store.profiles.DeleteOne(ctx, bson.M{"userId": userID.Hex()})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// GetProfile returns the stored profile, or the default one when the user
// never saved any.
func (store *UserMongoDBStore) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetProfile")
	defer span.End()

	var profile domain.Profile
	err := store.profiles.FindOne(ctx, bson.M{"userId": userID.Hex()}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		user, err := store.Get(ctx, userID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		return domain.DefaultProfile(user), nil
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &profile, nil
}

func (store *UserMongoDBStore) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpsertProfile")
	defer span.End()

	filter := bson.M{"userId": profile.UserId}
	update := bson.M{"$set": profile}
	opts := options.Update().SetUpsert(true)

	_, err := store.profiles.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (store *UserMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.User, error) {
	cursor, err := store.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decode(ctx, cursor)
}

func (store *UserMongoDBStore) filterOne(ctx context.Context, filter interface{}) (user *domain.User, err error) {
	result := store.users.FindOne(ctx, filter)
	err = result.Decode(&user)
	return
}

func decode(ctx context.Context, cursor *mongo.Cursor) (users []*domain.User, err error) {
	for cursor.Next(ctx) {
		var user domain.User
		err = cursor.Decode(&user)
		if err != nil {
			return
		}
		users = append(users, &user)
	}
	err = cursor.Err()
	return
}
