package data

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/search"
)

const (
	DATABASE = "listing"

	HousesCollection         = "houses"
	ImagesCollection         = "house_images"
	PersonPricingCollection  = "person_pricing"
	AmenitiesCollection      = "house_amenities"
	SustainabilityCollection = "sustainability_answers"
	RulesCollection          = "house_rules"
	CustomRulesCollection    = "custom_rules"
	ExtraCostsCollection     = "extra_costs"
)

type HouseMongoDBStore struct {
	cli    *mongo.Client
	logger *log.Logger
	tracer trace.Tracer
}

func NewHouseMongoDBStore(ctx context.Context, logger *log.Logger, tracer trace.Tracer, host, port string) (*HouseMongoDBStore, error) {
	dburi := fmt.Sprintf("mongodb://%s:%s/", host, port)

	client, err := mongo.NewClient(options.Client().ApplyURI(dburi))
	if err != nil {
		return nil, err
	}

	err = client.Connect(ctx)
	if err != nil {
		return nil, err
	}

	return &HouseMongoDBStore{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}, nil
}

// Disconnect from database
func (store *HouseMongoDBStore) DisconnectMongo(ctx context.Context) error {
	return store.cli.Disconnect(ctx)
}

// Check database connection
func (store *HouseMongoDBStore) Ping() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := store.cli.Ping(ctx, readpref.Primary())
	if err != nil {
		store.logger.Println(err)
	}
}

func (store *HouseMongoDBStore) InsertHouse(ctx context.Context, house *House) (string, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertHouse")
	defer span.End()

	house.ID = primitive.NewObjectID()
	result, err := store.collection(HousesCollection).InsertOne(ctx, house)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Println(err)
		return "", err
	}
	house.ID = result.InsertedID.(primitive.ObjectID)
	return house.ID.Hex(), nil
}

func (store *HouseMongoDBStore) GetHouse(ctx context.Context, id string) (*House, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.GetHouse")
	defer span.End()

	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := store.collection(HousesCollection).FindOne(ctx, bson.M{"_id": objectId})
	var house House
	if err := result.Decode(&house); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &house, nil
}

func (store *HouseMongoDBStore) GetAllHouses(ctx context.Context) (Houses, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.GetAllHouses")
	defer span.End()

	return store.filter(ctx, bson.D{{}})
}

// SearchHouses composes the Mongo filter from the active FilterSet. An empty
// set fetches everything, same as GetAllHouses.
func (store *HouseMongoDBStore) SearchHouses(ctx context.Context, filters *search.FilterSet) (Houses, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.SearchHouses")
	defer span.End()

	if filters == nil || filters.IsEmpty() {
		return store.filter(ctx, bson.D{{}})
	}

	query := bson.M{}

	if len(filters.Types) > 0 {
		var types []string
		for t := range filters.Types {
			types = append(types, t)
		}
		query["propertyType"] = bson.M{"$in": types}
	}
	if filters.MaxPrice > 0 {
		query["basePrice"] = bson.M{"$lte": filters.MaxPrice}
	}
	if filters.MinRating > 0 {
		query["rating"] = bson.M{"$gte": filters.MinRating}
	}

	if len(filters.Amenities) > 0 {
		houseIds, err := store.houseIdsWithAmenities(ctx, filters.Amenities)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if len(houseIds) == 0 {
			return Houses{}, nil
		}
		query["_id"] = bson.M{"$in": houseIds}
	}

	return store.filter(ctx, query)
}

// houseIdsWithAmenities resolves the amenity tokens against the satellite
// collection and returns the ids of houses carrying every requested tag.
func (store *HouseMongoDBStore) houseIdsWithAmenities(ctx context.Context, amenities map[string]bool) ([]primitive.ObjectID, error) {
	counts := map[string]int{}
	for tag := range amenities {
		cursor, err := store.collection(AmenitiesCollection).Find(ctx, bson.M{"tag": tag})
		if err != nil {
			return nil, err
		}
		for cursor.Next(ctx) {
			var amenity HouseAmenity
			if err := cursor.Decode(&amenity); err != nil {
				cursor.Close(ctx)
				return nil, err
			}
			counts[amenity.HouseId]++
		}
		if err := cursor.Err(); err != nil {
			cursor.Close(ctx)
			return nil, err
		}
		cursor.Close(ctx)
	}

	var ids []primitive.ObjectID
	for houseId, n := range counts {
		if n < len(amenities) {
			continue
		}
		objectId, err := primitive.ObjectIDFromHex(houseId)
		if err != nil {
			store.logger.Println(err)
			continue
		}
		ids = append(ids, objectId)
	}
	return ids, nil
}

func (store *HouseMongoDBStore) GetHousesByOwner(ctx context.Context, ownerId string) (Houses, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.GetHousesByOwner")
	defer span.End()

	return store.filter(ctx, bson.M{"ownerId": ownerId})
}

func (store *HouseMongoDBStore) DeleteHousesByOwner(ctx context.Context, ownerId string) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.DeleteHousesByOwner")
	defer span.End()

	result, err := store.collection(HousesCollection).DeleteMany(ctx, bson.M{"ownerId": ownerId})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("No houses deleted")
	}
	return nil
}

func (store *HouseMongoDBStore) InsertImage(ctx context.Context, image *HouseImage) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertImage")
	defer span.End()

	image.ID = primitive.NewObjectID()
	return store.insert(ctx, span, ImagesCollection, image)
}

func (store *HouseMongoDBStore) InsertPersonPricing(ctx context.Context, pricing *PersonPricing) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertPersonPricing")
	defer span.End()

	pricing.ID = primitive.NewObjectID()
	return store.insert(ctx, span, PersonPricingCollection, pricing)
}

func (store *HouseMongoDBStore) InsertAmenity(ctx context.Context, amenity *HouseAmenity) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertAmenity")
	defer span.End()

	amenity.ID = primitive.NewObjectID()
	return store.insert(ctx, span, AmenitiesCollection, amenity)
}

func (store *HouseMongoDBStore) InsertSustainabilityAnswer(ctx context.Context, answer *SustainabilityAnswer) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertSustainabilityAnswer")
	defer span.End()

	answer.ID = primitive.NewObjectID()
	return store.insert(ctx, span, SustainabilityCollection, answer)
}

func (store *HouseMongoDBStore) InsertHouseRules(ctx context.Context, rules *HouseRules) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertHouseRules")
	defer span.End()

	rules.ID = primitive.NewObjectID()
	return store.insert(ctx, span, RulesCollection, rules)
}

func (store *HouseMongoDBStore) InsertCustomRule(ctx context.Context, rule *CustomRule) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertCustomRule")
	defer span.End()

	rule.ID = primitive.NewObjectID()
	return store.insert(ctx, span, CustomRulesCollection, rule)
}

func (store *HouseMongoDBStore) InsertExtraCost(ctx context.Context, cost *ExtraCost) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.InsertExtraCost")
	defer span.End()

	cost.ID = primitive.NewObjectID()
	return store.insert(ctx, span, ExtraCostsCollection, cost)
}

func (store *HouseMongoDBStore) insert(ctx context.Context, span trace.Span, collection string, document interface{}) error {
	_, err := store.collection(collection).InsertOne(ctx, document)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		store.logger.Println(err)
		return err
	}
	return nil
}

func (store *HouseMongoDBStore) filter(ctx context.Context, filter interface{}) (Houses, error) {
	cursor, err := store.collection(HousesCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decode(ctx, cursor)
}

func (store *HouseMongoDBStore) collection(name string) *mongo.Collection {
	return store.cli.Database(DATABASE).Collection(name)
}

func decode(ctx context.Context, cursor *mongo.Cursor) (houses Houses, err error) {
	for cursor.Next(ctx) {
		var house House
		err = cursor.Decode(&house)
		if err != nil {
			return
		}
		houses = append(houses, &house)
	}
	err = cursor.Err()
	return
}
