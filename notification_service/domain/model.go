package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ByGuestId   string             `bson:"byGuestId,omitempty" json:"byGuestId"`
	ForHostId   string             `bson:"forHostId,omitempty" json:"forHostId"`
	Description string             `bson:"description,omitempty" json:"description"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type ErrResp struct {
	URL        string
	StatusCode int
}

func (e ErrResp) Error() string {
	return fmt.Sprintf("error [status code %d] for request: %s", e.StatusCode, e.URL)
}
