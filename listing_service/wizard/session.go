package wizard

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"
)

// Session is one host's in-progress authoring flow. The draft is a snapshot
// that only Apply may replace; Version counts applied updates. Completed is
// advisory, nothing blocks a host from jumping between steps.
type Session struct {
	ID        string          `json:"id"`
	OwnerId   string          `json:"ownerId"`
	Current   Step            `json:"currentStep"`
	Completed map[string]bool `json:"completed"`
	Version   int             `json:"version"`
	Draft     ListingDraft    `json:"draft"`
}

func NewSession(ownerId string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		OwnerId:   ownerId,
		Current:   StepGeneral,
		Completed: map[string]bool{},
	}
}

// Select jumps to any step unconditionally. It never touches the completed
// set and performs no guard against skipping ahead.
func (s *Session) Select(step Step) {
	s.Current = step
}

// Apply shallow-merges an update into the draft and bumps the version. Only
// fields present in the update change.
func (s *Session) Apply(u *DraftUpdate) {
	d := &s.Draft

	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.PropertyType != nil {
		d.PropertyType = *u.PropertyType
	}
	if u.Country != nil {
		d.Country = *u.Country
	}
	if u.Region != nil {
		d.Region = *u.Region
	}
	if u.City != nil {
		d.City = *u.City
	}
	if u.Street != nil {
		d.Street = *u.Street
	}
	if u.Number != nil {
		d.Number = *u.Number
	}
	if u.Zip != nil {
		d.Zip = *u.Zip
	}
	if u.ImageURLs != nil {
		d.ImageURLs = u.ImageURLs
	}
	if u.BasePrice != nil {
		d.BasePrice = *u.BasePrice
	}
	if u.IncludedFacilities != nil {
		d.IncludedFacilities = u.IncludedFacilities
	}
	if u.DepositPolicy != nil {
		d.DepositPolicy = *u.DepositPolicy
	}
	if u.DepositAmount != nil {
		d.DepositAmount = *u.DepositAmount
	}
	if u.WeekdayPrice != nil {
		d.WeekdayPrice = *u.WeekdayPrice
	}
	if u.WeekendPrice != nil {
		d.WeekendPrice = *u.WeekendPrice
	}
	if u.WeekPrice != nil {
		d.WeekPrice = *u.WeekPrice
	}
	if u.LongWeekendPrice != nil {
		d.LongWeekendPrice = *u.LongWeekendPrice
	}
	if u.PerExtraPerson != nil {
		d.PerExtraPerson = *u.PerExtraPerson
	}
	if u.ExtraCosts != nil {
		d.ExtraCosts = u.ExtraCosts
	}
	if u.MinNights != nil {
		d.MinNights = *u.MinNights
	}
	if u.Bedrooms != nil {
		d.Bedrooms = *u.Bedrooms
	}
	if u.MaxGuests != nil {
		d.MaxGuests = *u.MaxGuests
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.Surroundings != nil {
		d.Surroundings = *u.Surroundings
	}
	if u.Amenities != nil {
		d.Amenities = u.Amenities
	}
	if u.Sustainability != nil {
		if d.Sustainability == nil {
			d.Sustainability = map[string]string{}
		}
		for q, a := range u.Sustainability {
			d.Sustainability[q] = a
		}
	}
	if u.HouseRules != nil {
		d.HouseRules = u.HouseRules
	}

	s.Version++
}

// Next applies the step's fields, marks the current step complete and moves
// to the following step in the fixed order. No field completeness check ever
// blocks the transition, and completing a step never un-completes another.
func (s *Session) Next(u *DraftUpdate) Step {
	if u != nil {
		s.Apply(u)
	}
	s.Completed[s.Current.String()] = true
	s.Current = s.Current.Next()
	return s.Current
}

// IsComplete reports the advisory completion flag for a step.
func (s *Session) IsComplete(step Step) bool {
	return s.Completed[step.String()]
}

func (s *Session) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(s)
}

func (s *Session) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(s)
}
