package wizard

import (
	"encoding/json"
	"fmt"
)

// Step identifies one screen of the listing authoring flow. Steps advance in
// the fixed order below; the ids are the wire/JSON names.
type Step int

const (
	StepGeneral Step = iota
	StepLocation
	StepPhotos
	StepPricing
	StepAvailability
	StepCalendar
	StepBedrooms
	StepDescription
	StepStayDetails
	StepSustainability
	StepHouseRules
)

var stepIds = [...]string{
	StepGeneral:        "general",
	StepLocation:       "location",
	StepPhotos:         "photos",
	StepPricing:        "pricing",
	StepAvailability:   "availability",
	StepCalendar:       "calendar",
	StepBedrooms:       "bedrooms",
	StepDescription:    "description",
	StepStayDetails:    "stay_details",
	StepSustainability: "sustainability",
	StepHouseRules:     "house_rules",
}

func (s Step) String() string {
	if s < StepGeneral || s > StepHouseRules {
		return "unknown"
	}
	return stepIds[s]
}

// Next returns the step that follows s. The last step has no successor and
// returns itself; submission is a side effect of the last step, not a state.
func (s Step) Next() Step {
	if s >= StepHouseRules {
		return StepHouseRules
	}
	return s + 1
}

func (s Step) IsLast() bool {
	return s == StepHouseRules
}

// ParseStep maps a step id back to its Step. Unknown ids are rejected so an
// illegal step can never enter a session.
func ParseStep(id string) (Step, bool) {
	for i, name := range stepIds {
		if name == id {
			return Step(i), true
		}
	}
	return StepGeneral, false
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Step) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	step, ok := ParseStep(id)
	if !ok {
		return fmt.Errorf("unknown step id %q", id)
	}
	*s = step
	return nil
}

// Steps lists every step id in authoring order.
func Steps() []string {
	out := make([]string, len(stepIds))
	copy(out, stepIds[:])
	return out
}
