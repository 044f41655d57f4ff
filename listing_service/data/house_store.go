package data

import (
	"context"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/search"
)

type HouseStore interface {
	InsertHouse(ctx context.Context, house *House) (string, error)
	GetHouse(ctx context.Context, id string) (*House, error)
	GetAllHouses(ctx context.Context) (Houses, error)
	SearchHouses(ctx context.Context, filters *search.FilterSet) (Houses, error)
	GetHousesByOwner(ctx context.Context, ownerId string) (Houses, error)
	DeleteHousesByOwner(ctx context.Context, ownerId string) error

	InsertImage(ctx context.Context, image *HouseImage) error
	InsertPersonPricing(ctx context.Context, pricing *PersonPricing) error
	InsertAmenity(ctx context.Context, amenity *HouseAmenity) error
	InsertSustainabilityAnswer(ctx context.Context, answer *SustainabilityAnswer) error
	InsertHouseRules(ctx context.Context, rules *HouseRules) error
	InsertCustomRule(ctx context.Context, rule *CustomRule) error
	InsertExtraCost(ctx context.Context, cost *ExtraCost) error
}
