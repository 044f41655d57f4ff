package data

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/search"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/wizard"
)

// fakeHouseStore records the writes it receives, failing the ones named in
// failOn.
type fakeHouseStore struct {
	failOn map[string]bool

	lastHouse      *House
	houses         int
	images         int
	pricings       int
	amenities      int
	sustainability int
	rules          int
	customRules    int
	extraCosts     int
}

func (f *fakeHouseStore) step(name string, counter *int) error {
	if f.failOn[name] {
		return errors.New(name + " write failed")
	}
	*counter++
	return nil
}

func (f *fakeHouseStore) InsertHouse(ctx context.Context, house *House) (string, error) {
	if err := f.step("house", &f.houses); err != nil {
		return "", err
	}
	f.lastHouse = house
	return "house-1", nil
}

func (f *fakeHouseStore) InsertImage(ctx context.Context, image *HouseImage) error {
	return f.step("image", &f.images)
}

func (f *fakeHouseStore) InsertPersonPricing(ctx context.Context, pricing *PersonPricing) error {
	return f.step("pricing", &f.pricings)
}

func (f *fakeHouseStore) InsertAmenity(ctx context.Context, amenity *HouseAmenity) error {
	return f.step("amenity", &f.amenities)
}

func (f *fakeHouseStore) InsertSustainabilityAnswer(ctx context.Context, answer *SustainabilityAnswer) error {
	return f.step("sustainability", &f.sustainability)
}

func (f *fakeHouseStore) InsertHouseRules(ctx context.Context, rules *HouseRules) error {
	return f.step("rules", &f.rules)
}

func (f *fakeHouseStore) InsertCustomRule(ctx context.Context, rule *CustomRule) error {
	return f.step("customRule", &f.customRules)
}

func (f *fakeHouseStore) InsertExtraCost(ctx context.Context, cost *ExtraCost) error {
	return f.step("extraCost", &f.extraCosts)
}

func (f *fakeHouseStore) GetHouse(ctx context.Context, id string) (*House, error) { return nil, nil }
func (f *fakeHouseStore) GetAllHouses(ctx context.Context) (Houses, error)        { return nil, nil }
func (f *fakeHouseStore) SearchHouses(ctx context.Context, filters *search.FilterSet) (Houses, error) {
	return nil, nil
}
func (f *fakeHouseStore) GetHousesByOwner(ctx context.Context, ownerId string) (Houses, error) {
	return nil, nil
}
func (f *fakeHouseStore) DeleteHousesByOwner(ctx context.Context, ownerId string) error { return nil }

func testDraft() *wizard.ListingDraft {
	return &wizard.ListingDraft{
		Name:         "Heide Lodge",
		PropertyType: "cabin",
		Country:      "NL",
		Region:       "Veluwe",
		BasePrice:    95,
		ImageURLs:    []string{"img-1.jpg", "img-2.jpg"},
		Amenities:    []string{"sauna", "fireplace"},
		Sustainability: map[string]string{
			"solar_panels": "yes",
		},
		HouseRules: &wizard.DraftHouseRules{
			MaxPets:     1,
			CustomRules: []string{"no campfires in summer"},
		},
		ExtraCosts: []wizard.ExtraCost{
			{Name: "cleaning", Amount: 40},
		},
	}
}

func newTestPublisher(store HouseStore) *DraftPublisher {
	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	return NewDraftPublisher(store, logger, trace.NewNoopTracerProvider().Tracer("test"))
}

func TestPublishWritesEverySatellite(t *testing.T) {
	store := &fakeHouseStore{failOn: map[string]bool{}}
	publisher := newTestPublisher(store)

	result := publisher.Publish(context.Background(), testDraft(), "owner-1")

	if !result.Success {
		t.Fatalf("publish failed: %s", result.Error)
	}
	if result.HouseId != "house-1" {
		t.Fatalf("got house id %q, want house-1", result.HouseId)
	}
	if store.houses != 1 || store.images != 2 || store.pricings != 1 ||
		store.amenities != 2 || store.sustainability != 1 ||
		store.rules != 1 || store.customRules != 1 || store.extraCosts != 1 {
		t.Fatalf("unexpected write counts: %+v", store)
	}
}

func TestPublishCarriesDepositAndFacilities(t *testing.T) {
	store := &fakeHouseStore{failOn: map[string]bool{}}
	publisher := newTestPublisher(store)

	draft := testDraft()
	draft.DepositPolicy = "on_site"
	draft.DepositAmount = 150
	draft.IncludedFacilities = []string{"linen", "firewood"}

	result := publisher.Publish(context.Background(), draft, "owner-1")

	if !result.Success {
		t.Fatalf("publish failed: %s", result.Error)
	}
	house := store.lastHouse
	if house == nil {
		t.Fatal("no house document written")
	}
	if house.DepositPolicy != "on_site" || house.DepositAmount != 150 {
		t.Fatalf("deposit lost on publish: policy %q, amount %d", house.DepositPolicy, house.DepositAmount)
	}
	if len(house.IncludedFacilities) != 2 || house.IncludedFacilities[0] != "linen" || house.IncludedFacilities[1] != "firewood" {
		t.Fatalf("included facilities lost on publish: %v", house.IncludedFacilities)
	}
}

func TestPublishPrimaryFailureWritesNoSatellites(t *testing.T) {
	store := &fakeHouseStore{failOn: map[string]bool{"house": true}}
	publisher := newTestPublisher(store)

	result := publisher.Publish(context.Background(), testDraft(), "owner-1")

	if result.Success {
		t.Fatal("publish should have failed")
	}
	if store.images != 0 || store.pricings != 0 || store.amenities != 0 ||
		store.sustainability != 0 || store.rules != 0 || store.customRules != 0 || store.extraCosts != 0 {
		t.Fatalf("satellite writes happened after primary failure: %+v", store)
	}
}

// A satellite failure stops the sequence but the primary row and the rows
// written before it remain; the publisher performs no rollback.
func TestPublishSatelliteFailureKeepsPriorWrites(t *testing.T) {
	store := &fakeHouseStore{failOn: map[string]bool{"amenity": true}}
	publisher := newTestPublisher(store)

	result := publisher.Publish(context.Background(), testDraft(), "owner-1")

	if result.Success {
		t.Fatal("publish should have failed")
	}
	if store.houses != 1 {
		t.Fatal("primary row should remain after satellite failure")
	}
	if store.images != 2 || store.pricings != 1 {
		t.Fatalf("writes before the failure should remain: %+v", store)
	}
	if store.sustainability != 0 || store.rules != 0 || store.extraCosts != 0 {
		t.Fatalf("writes after the failure should not happen: %+v", store)
	}
}
