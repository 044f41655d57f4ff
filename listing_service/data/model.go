package data

import (
	"encoding/json"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// House is the primary listing record. Its satellites (images, person
// pricing, amenities, sustainability answers, rules, extra costs) live in
// separate collections, scoped by the house id.
type House struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name,omitempty" json:"name"`
	PropertyType       string             `bson:"propertyType,omitempty" json:"propertyType"`
	Description        string             `bson:"description,omitempty" json:"description"`
	Surroundings       string             `bson:"surroundings,omitempty" json:"surroundings"`
	Location           Location           `bson:"location,omitempty" json:"location"`
	BasePrice          int                `bson:"basePrice,omitempty" json:"basePrice"`
	IncludedFacilities []string           `bson:"includedFacilities,omitempty" json:"includedFacilities,omitempty"`
	DepositPolicy      string             `bson:"depositPolicy,omitempty" json:"depositPolicy,omitempty"`
	DepositAmount      int                `bson:"depositAmount,omitempty" json:"depositAmount,omitempty"`
	MinNights          int                `bson:"minNights,omitempty" json:"minNights"`
	Bedrooms           int                `bson:"bedrooms,omitempty" json:"bedrooms"`
	MaxGuests          int                `bson:"maxGuests,omitempty" json:"maxGuests"`
	Rating             float64            `bson:"rating,omitempty" json:"rating"`
	OwnerId            string             `bson:"ownerId,omitempty" json:"ownerId"`
}

type Location struct {
	Country string `bson:"country,omitempty" json:"country"`
	Region  string `bson:"region,omitempty" json:"region"`
	City    string `bson:"city,omitempty" json:"city"`
	Street  string `bson:"street,omitempty" json:"street"`
	Number  int    `bson:"number,omitempty" json:"number"`
	Zip     string `bson:"zip,omitempty" json:"zip"`
}

type HouseImage struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseId string             `bson:"houseId" json:"houseId"`
	URL     string             `bson:"url" json:"url"`
	Order   int                `bson:"order" json:"order"`
}

// PersonPricing holds the tiered rates per stay type and the surcharge for
// every guest above base occupancy.
type PersonPricing struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseId          string             `bson:"houseId" json:"houseId"`
	WeekdayPrice     int                `bson:"weekdayPrice" json:"weekdayPrice"`
	WeekendPrice     int                `bson:"weekendPrice" json:"weekendPrice"`
	WeekPrice        int                `bson:"weekPrice" json:"weekPrice"`
	LongWeekendPrice int                `bson:"longWeekendPrice" json:"longWeekendPrice"`
	PerExtraPerson   int                `bson:"perExtraPerson" json:"perExtraPerson"`
}

type HouseAmenity struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseId string             `bson:"houseId" json:"houseId"`
	Tag     string             `bson:"tag" json:"tag"`
}

type SustainabilityAnswer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseId    string             `bson:"houseId" json:"houseId"`
	QuestionId string             `bson:"questionId" json:"questionId"`
	Answer     string             `bson:"answer" json:"answer"`
}

type HouseRules struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseId         string             `bson:"houseId" json:"houseId"`
	MaxBabies       int                `bson:"maxBabies" json:"maxBabies"`
	MaxPets         int                `bson:"maxPets" json:"maxPets"`
	MinChildAge     int                `bson:"minChildAge" json:"minChildAge"`
	MinBookingAge   int                `bson:"minBookingAge" json:"minBookingAge"`
	SmokingAllowed  bool               `bson:"smokingAllowed" json:"smokingAllowed"`
	PartiesAllowed  bool               `bson:"partiesAllowed" json:"partiesAllowed"`
	QuietHoursStart string             `bson:"quietHoursStart" json:"quietHoursStart"`
	QuietHoursEnd   string             `bson:"quietHoursEnd" json:"quietHoursEnd"`
}

// CustomRule is host free text, one row per rule.
type CustomRule struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseId string             `bson:"houseId" json:"houseId"`
	Text    string             `bson:"text" json:"text"`
}

type ExtraCost struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HouseId  string             `bson:"houseId" json:"houseId"`
	Name     string             `bson:"name" json:"name"`
	Amount   int                `bson:"amount" json:"amount"`
	PerNight bool               `bson:"perNight" json:"perNight"`
}

type Houses []*House

func (o *House) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}

func (o *House) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(o)
}

func (o *Houses) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}
