package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Firstname string             `bson:"firstName,omitempty" json:"firstName,omitempty" validate:"omitempty,alpha,min=3,max=20"`
	Lastname  string             `bson:"lastName,omitempty" json:"lastName,omitempty" validate:"omitempty,alpha,min=3,max=20"`
	Residence string             `bson:"residence,omitempty" json:"residence,omitempty" validate:"omitempty,min=3,max=35"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Username  string             `bson:"username" json:"username" validate:"required,min=3,max=30"`
	UserType  UserType           `bson:"userType" json:"userType" validate:"required,oneof=Guest Host"`
}

type UserType string

const (
	Guest = "Guest"
	Host  = "Host"
)

// Profile is the public face of an account. It lives in its own collection
// and may be absent for users who never filled one in.
type Profile struct {
	UserId      string `bson:"userId" json:"userId"`
	DisplayName string `bson:"displayName" json:"displayName" validate:"required,min=2,max=40"`
	About       string `bson:"about,omitempty" json:"about,omitempty" validate:"omitempty,max=500"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,e164"`
	AvatarURL   string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty" validate:"omitempty,url"`
	Locale      string `bson:"locale,omitempty" json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// DefaultProfile is what callers get for a user who never saved a profile.
func DefaultProfile(user *User) *Profile {
	return &Profile{
		UserId:      user.ID.Hex(),
		DisplayName: user.Username,
		Locale:      "en",
	}
}

type Favorite struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	UserId  string             `bson:"userId" json:"userId"`
	HouseId string             `bson:"houseId" json:"houseId"`
	AddedAt time.Time          `bson:"addedAt" json:"addedAt"`
}

type UsernameChange struct {
	OldUsername string `json:"old_username"`
	NewUsername string `json:"new_username"`
}
