package wizard

import (
	"encoding/json"
	"io"
)

// ListingDraft is the single record every wizard step writes into. A step
// update replaces only the fields it carries; there is no per-step ownership
// enforcement, any step can touch any field.
type ListingDraft struct {
	// general
	Name         string `json:"name,omitempty"`
	PropertyType string `json:"propertyType,omitempty"`

	// location
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
	Street  string `json:"street,omitempty"`
	Number  int    `json:"number,omitempty"`
	Zip     string `json:"zip,omitempty"`

	// photos
	ImageURLs []string `json:"imageUrls,omitempty"`

	// pricing
	BasePrice          int         `json:"basePrice,omitempty"`
	IncludedFacilities []string    `json:"includedFacilities,omitempty"`
	DepositPolicy      string      `json:"depositPolicy,omitempty"`
	DepositAmount      int         `json:"depositAmount,omitempty"`
	WeekdayPrice       int         `json:"weekdayPrice,omitempty"`
	WeekendPrice       int         `json:"weekendPrice,omitempty"`
	WeekPrice          int         `json:"weekPrice,omitempty"`
	LongWeekendPrice   int         `json:"longWeekendPrice,omitempty"`
	PerExtraPerson     int         `json:"perExtraPerson,omitempty"`
	ExtraCosts         []ExtraCost `json:"extraCosts,omitempty"`

	// availability
	MinNights int `json:"minNights,omitempty"`

	// bedrooms / stay_details
	Bedrooms  int `json:"bedrooms,omitempty"`
	MaxGuests int `json:"maxGuests,omitempty"`

	// description
	Description  string `json:"description,omitempty"`
	Surroundings string `json:"surroundings,omitempty"`

	// stay_details
	Amenities []string `json:"amenities,omitempty"`

	// sustainability, keyed by question id, values "yes"/"no"
	Sustainability map[string]string `json:"sustainability,omitempty"`

	// house_rules
	HouseRules *DraftHouseRules `json:"houseRules,omitempty"`
}

type ExtraCost struct {
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	PerNight bool   `json:"perNight"`
}

type DraftHouseRules struct {
	MaxBabies       int      `json:"maxBabies"`
	MaxPets         int      `json:"maxPets"`
	MinChildAge     int      `json:"minChildAge"`
	MinBookingAge   int      `json:"minBookingAge"`
	SmokingAllowed  bool     `json:"smokingAllowed"`
	PartiesAllowed  bool     `json:"partiesAllowed"`
	QuietHoursStart string   `json:"quietHoursStart"`
	QuietHoursEnd   string   `json:"quietHoursEnd"`
	CustomRules     []string `json:"customRules"`
}

// DraftUpdate carries the fields one step submits. Nil members were not part
// of the update and leave the draft untouched (shallow merge).
type DraftUpdate struct {
	Name         *string `json:"name,omitempty"`
	PropertyType *string `json:"propertyType,omitempty"`

	Country *string `json:"country,omitempty"`
	Region  *string `json:"region,omitempty"`
	City    *string `json:"city,omitempty"`
	Street  *string `json:"street,omitempty"`
	Number  *int    `json:"number,omitempty"`
	Zip     *string `json:"zip,omitempty"`

	ImageURLs []string `json:"imageUrls,omitempty"`

	BasePrice          *int        `json:"basePrice,omitempty"`
	IncludedFacilities []string    `json:"includedFacilities,omitempty"`
	DepositPolicy      *string     `json:"depositPolicy,omitempty"`
	DepositAmount      *int        `json:"depositAmount,omitempty"`
	WeekdayPrice       *int        `json:"weekdayPrice,omitempty"`
	WeekendPrice       *int        `json:"weekendPrice,omitempty"`
	WeekPrice          *int        `json:"weekPrice,omitempty"`
	LongWeekendPrice   *int        `json:"longWeekendPrice,omitempty"`
	PerExtraPerson     *int        `json:"perExtraPerson,omitempty"`
	ExtraCosts         []ExtraCost `json:"extraCosts,omitempty"`

	MinNights *int `json:"minNights,omitempty"`

	Bedrooms  *int `json:"bedrooms,omitempty"`
	MaxGuests *int `json:"maxGuests,omitempty"`

	Description  *string `json:"description,omitempty"`
	Surroundings *string `json:"surroundings,omitempty"`

	Amenities []string `json:"amenities,omitempty"`

	Sustainability map[string]string `json:"sustainability,omitempty"`

	HouseRules *DraftHouseRules `json:"houseRules,omitempty"`
}

func (u *DraftUpdate) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(u)
}

func (o *ListingDraft) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(o)
}
