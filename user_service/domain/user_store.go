package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	GetOneUser(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
	UpdateUserUsername(ctx context.Context, user *User) error
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
}

type FavoriteStore interface {
	AddFavorite(ctx context.Context, userId, houseId string) (*Favorite, error)
	RemoveFavorite(ctx context.Context, userId, houseId string) error
	GetFavoritesByUser(ctx context.Context, userId string) ([]*Favorite, error)
	IsFavorite(ctx context.Context, userId, houseId string) (bool, error)
	DeleteFavoritesByUser(ctx context.Context, userId string) error
}
