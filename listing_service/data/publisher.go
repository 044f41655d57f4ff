package data

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/wizard"
)

// PublishResult reports the outcome of publishing a draft: the new house id
// on success, a message otherwise.
type PublishResult struct {
	Success bool   `json:"success"`
	HouseId string `json:"houseId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DraftPublisher fans a finished draft out over the house collections. The
// primary insert goes first and produces the id every satellite write is
// scoped by. Writes are sequential; the first failure stops the sequence and
// rows already written stay in place, there is no rollback.
type DraftPublisher struct {
	store  HouseStore
	logger *log.Logger
	tracer trace.Tracer
}

func NewDraftPublisher(store HouseStore, logger *log.Logger, tracer trace.Tracer) *DraftPublisher {
	return &DraftPublisher{
		store:  store,
		logger: logger,
		tracer: tracer,
	}
}

func (p *DraftPublisher) Publish(ctx context.Context, draft *wizard.ListingDraft, ownerId string) PublishResult {
	ctx, span := p.tracer.Start(ctx, "DraftPublisher.Publish")
	defer span.End()

	house := &House{
		Name:         draft.Name,
		PropertyType: draft.PropertyType,
		Description:  draft.Description,
		Surroundings: draft.Surroundings,
		Location: Location{
			Country: draft.Country,
			Region:  draft.Region,
			City:    draft.City,
			Street:  draft.Street,
			Number:  draft.Number,
			Zip:     draft.Zip,
		},
		BasePrice:          draft.BasePrice,
		IncludedFacilities: draft.IncludedFacilities,
		DepositPolicy:      draft.DepositPolicy,
		DepositAmount:      draft.DepositAmount,
		MinNights:          draft.MinNights,
		Bedrooms:           draft.Bedrooms,
		MaxGuests:          draft.MaxGuests,
		OwnerId:            ownerId,
	}

	houseId, err := p.store.InsertHouse(ctx, house)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		p.logger.Println("Error inserting house:", err)
		return PublishResult{Error: fmt.Sprintf("Error creating listing: %v", err)}
	}

	for i, url := range draft.ImageURLs {
		err = p.store.InsertImage(ctx, &HouseImage{HouseId: houseId, URL: url, Order: i})
		if err != nil {
			return p.fail(span, houseId, "images", err)
		}
	}

	err = p.store.InsertPersonPricing(ctx, &PersonPricing{
		HouseId:          houseId,
		WeekdayPrice:     draft.WeekdayPrice,
		WeekendPrice:     draft.WeekendPrice,
		WeekPrice:        draft.WeekPrice,
		LongWeekendPrice: draft.LongWeekendPrice,
		PerExtraPerson:   draft.PerExtraPerson,
	})
	if err != nil {
		return p.fail(span, houseId, "person pricing", err)
	}

	for _, tag := range draft.Amenities {
		err = p.store.InsertAmenity(ctx, &HouseAmenity{HouseId: houseId, Tag: tag})
		if err != nil {
			return p.fail(span, houseId, "amenities", err)
		}
	}

	for questionId, answer := range draft.Sustainability {
		err = p.store.InsertSustainabilityAnswer(ctx, &SustainabilityAnswer{
			HouseId:    houseId,
			QuestionId: questionId,
			Answer:     answer,
		})
		if err != nil {
			return p.fail(span, houseId, "sustainability answers", err)
		}
	}

	if draft.HouseRules != nil {
		err = p.store.InsertHouseRules(ctx, &HouseRules{
			HouseId:         houseId,
			MaxBabies:       draft.HouseRules.MaxBabies,
			MaxPets:         draft.HouseRules.MaxPets,
			MinChildAge:     draft.HouseRules.MinChildAge,
			MinBookingAge:   draft.HouseRules.MinBookingAge,
			SmokingAllowed:  draft.HouseRules.SmokingAllowed,
			PartiesAllowed:  draft.HouseRules.PartiesAllowed,
			QuietHoursStart: draft.HouseRules.QuietHoursStart,
			QuietHoursEnd:   draft.HouseRules.QuietHoursEnd,
		})
		if err != nil {
			return p.fail(span, houseId, "house rules", err)
		}

		for _, text := range draft.HouseRules.CustomRules {
			err = p.store.InsertCustomRule(ctx, &CustomRule{HouseId: houseId, Text: text})
			if err != nil {
				return p.fail(span, houseId, "custom rules", err)
			}
		}
	}

	for _, cost := range draft.ExtraCosts {
		err = p.store.InsertExtraCost(ctx, &ExtraCost{
			HouseId:  houseId,
			Name:     cost.Name,
			Amount:   cost.Amount,
			PerNight: cost.PerNight,
		})
		if err != nil {
			return p.fail(span, houseId, "extra costs", err)
		}
	}

	return PublishResult{Success: true, HouseId: houseId}
}

// fail records a satellite write failure. The house row and any satellites
// written before the failure remain in the database.
func (p *DraftPublisher) fail(span trace.Span, houseId, stage string, err error) PublishResult {
	span.SetStatus(codes.Error, err.Error())
	p.logger.Printf("Error writing %s for house %s: %v", stage, houseId, err)
	return PublishResult{Error: fmt.Sprintf("Error saving listing %s: %v", stage, err)}
}
