package wizard

import (
	"testing"
)

func TestNextFollowsFixedOrder(t *testing.T) {
	session := NewSession("owner-1")

	want := []Step{
		StepLocation, StepPhotos, StepPricing, StepAvailability, StepCalendar,
		StepBedrooms, StepDescription, StepStayDetails, StepSustainability, StepHouseRules,
	}

	for i, expected := range want {
		got := session.Next(nil)
		if got != expected {
			t.Fatalf("transition %d: got step %s, want %s", i, got, expected)
		}
	}
}

func TestNextAdvancesRegardlessOfEmptyFields(t *testing.T) {
	session := NewSession("owner-1")

	// an update carrying nothing still advances
	got := session.Next(&DraftUpdate{})
	if got != StepLocation {
		t.Fatalf("got step %s, want %s", got, StepLocation)
	}
	if !session.IsComplete(StepGeneral) {
		t.Fatal("general step should be marked complete after Next")
	}
}

func TestNextAtLastStepStaysOnLastStep(t *testing.T) {
	session := NewSession("owner-1")
	session.Select(StepHouseRules)

	got := session.Next(nil)
	if got != StepHouseRules {
		t.Fatalf("got step %s, want %s", got, StepHouseRules)
	}
}

func TestCompletingNeverUnmarksOtherSteps(t *testing.T) {
	session := NewSession("owner-1")

	session.Next(nil) // completes general
	session.Next(nil) // completes location

	session.Select(StepSustainability)
	session.Next(nil) // completes sustainability

	for _, step := range []Step{StepGeneral, StepLocation, StepSustainability} {
		if !session.IsComplete(step) {
			t.Fatalf("step %s lost its completed flag", step)
		}
	}
}

func TestSelectDoesNotAlterCompletedSet(t *testing.T) {
	session := NewSession("owner-1")
	session.Next(nil) // completes general

	session.Select(StepHouseRules)
	session.Select(StepGeneral)
	session.Select(StepCalendar)

	if !session.IsComplete(StepGeneral) {
		t.Fatal("general should stay complete after navigation")
	}
	if session.IsComplete(StepHouseRules) || session.IsComplete(StepCalendar) {
		t.Fatal("visiting a step must not mark it complete")
	}
	if session.Current != StepCalendar {
		t.Fatalf("got current step %s, want %s", session.Current, StepCalendar)
	}
}

func TestApplyShallowMerge(t *testing.T) {
	session := NewSession("owner-1")

	name := "Boswachterij Cabin"
	session.Apply(&DraftUpdate{Name: &name})

	price := 120
	session.Apply(&DraftUpdate{BasePrice: &price})

	if session.Draft.Name != name {
		t.Fatalf("name overwritten by unrelated update: %q", session.Draft.Name)
	}
	if session.Draft.BasePrice != price {
		t.Fatalf("got base price %d, want %d", session.Draft.BasePrice, price)
	}
	if session.Version != 2 {
		t.Fatalf("got version %d, want 2", session.Version)
	}
}

func TestParseStepRejectsUnknownIds(t *testing.T) {
	if _, ok := ParseStep("payment"); ok {
		t.Fatal("unknown step id accepted")
	}
	step, ok := ParseStep("stay_details")
	if !ok || step != StepStayDetails {
		t.Fatalf("got %v (%v), want stay_details", step, ok)
	}
}
