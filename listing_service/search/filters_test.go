package search

import (
	"net/url"
	"testing"
)

func TestToggleRoundTripRestoresQuery(t *testing.T) {
	original := url.Values{}
	original.Set("types", "cabin,treehouse")
	original.Set("maxPrice", "150")

	fs := ParseFilterSet(original)
	before := fs.Values().Encode()

	fs.ToggleAmenity("sauna")
	fs.ToggleAmenity("sauna")

	after := fs.Values().Encode()
	if after != before {
		t.Fatalf("toggle round trip changed the query: %q -> %q", before, after)
	}
}

func TestToggleAddsAndRemoves(t *testing.T) {
	fs := NewFilterSet()

	fs.ToggleType("cabin")
	if !fs.Types["cabin"] {
		t.Fatal("toggle should add an absent token")
	}

	fs.ToggleType("cabin")
	if fs.Types["cabin"] {
		t.Fatal("toggle should remove a present token")
	}
	if got := fs.Values().Get("types"); got != "" {
		t.Fatalf("empty set should leave no parameter, got %q", got)
	}
}

func TestParseValuesRoundTrip(t *testing.T) {
	values := url.Values{}
	values.Set("types", "cabin,yurt")
	values.Set("amenities", "fireplace,sauna")
	values.Set("maxPrice", "200")
	values.Set("minRating", "4.5")

	fs := ParseFilterSet(values)

	if !fs.Types["cabin"] || !fs.Types["yurt"] {
		t.Fatalf("types not parsed: %v", fs.Types)
	}
	if !fs.Amenities["fireplace"] || !fs.Amenities["sauna"] {
		t.Fatalf("amenities not parsed: %v", fs.Amenities)
	}
	if fs.MaxPrice != 200 {
		t.Fatalf("got max price %d, want 200", fs.MaxPrice)
	}
	if fs.MinRating != 4.5 {
		t.Fatalf("got min rating %v, want 4.5", fs.MinRating)
	}

	encoded := fs.Values()
	if encoded.Get("types") != "cabin,yurt" {
		t.Fatalf("types re-encode: got %q", encoded.Get("types"))
	}
	if encoded.Get("amenities") != "fireplace,sauna" {
		t.Fatalf("amenities re-encode: got %q", encoded.Get("amenities"))
	}
}

func TestClearRemovesEveryParameter(t *testing.T) {
	values := url.Values{}
	values.Set("types", "cabin")
	values.Set("minRating", "4")

	fs := ParseFilterSet(values)
	fs.Clear()

	if !fs.IsEmpty() {
		t.Fatal("filter set should be empty after Clear")
	}
	if len(fs.Values()) != 0 {
		t.Fatalf("cleared set should encode to nothing, got %v", fs.Values())
	}
}

func TestMalformedNumbersReadAsInactive(t *testing.T) {
	values := url.Values{}
	values.Set("maxPrice", "abc")

	fs := ParseFilterSet(values)
	if fs.MaxPrice != 0 {
		t.Fatalf("got max price %d, want 0", fs.MaxPrice)
	}
}
