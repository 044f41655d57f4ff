package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	bookingdata "github.com/MatainjaTechnologies/natuurhuisje-sub000/booking_service/data"
	listingdata "github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/data"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/listing_service/wizard"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/domain"
	userstore "github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/store"
)

// Catalog holds the locale fixtures the generated records draw from.
type Catalog struct {
	Locale        string   `json:"locale"`
	PropertyTypes []string `json:"propertyTypes"`
	HouseNames    []string `json:"houseNames"`
	Cities        []struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Zip     string `json:"zip"`
	} `json:"cities"`
	Streets                 []string `json:"streets"`
	Amenities               []string `json:"amenities"`
	Facilities              []string `json:"facilities"`
	Descriptions            []string `json:"descriptions"`
	Surroundings            []string `json:"surroundings"`
	SustainabilityQuestions []string `json:"sustainabilityQuestions"`
	FirstNames              []string `json:"firstNames"`
	LastNames               []string `json:"lastNames"`
	CustomRules             []string `json:"customRules"`
}

func loadCatalog(dir, locale string) (*Catalog, error) {
	path := filepath.Join(dir, locale+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return &catalog, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	var (
		catalogDir = flag.String("catalog", "seed/catalog", "directory with locale catalog files")
		locale     = flag.String("locale", "en", "catalog locale to seed from")
		hosts      = flag.Int("hosts", 4, "number of host accounts")
		guests     = flag.Int("guests", 8, "number of guest accounts")
		houses     = flag.Int("houses", 10, "number of houses")
		bookings   = flag.Int("bookings", 12, "number of bookings")
		seedVal    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		skipCass   = flag.Bool("skip-bookings", false, "skip booking seeding (no Cassandra needed)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags)
	rng := rand.New(rand.NewSource(*seedVal))
	tracer := trace.NewNoopTracerProvider().Tracer("seed")
	ctx := context.Background()

	catalog, err := loadCatalog(*catalogDir, *locale)
	if err != nil {
		logger.Fatal(err)
	}

	userClient, err := userstore.GetClient(os.Getenv("USER_DB_HOST"), os.Getenv("USER_DB_PORT"))
	if err != nil {
		logger.Fatal(err)
	}
	defer userClient.Disconnect(ctx)
	users := userstore.NewUserMongoDBStore(userClient, tracer)
	favorites := userstore.NewFavoriteMongoDBStore(userClient, tracer)

	listingStore, err := listingdata.NewHouseMongoDBStore(ctx, logger, tracer, os.Getenv("LISTING_DB_HOST"), os.Getenv("LISTING_DB_PORT"))
	if err != nil {
		logger.Fatal(err)
	}
	defer listingStore.DisconnectMongo(ctx)
	publisher := listingdata.NewDraftPublisher(listingStore, logger, tracer)

	hostIds := seedUsers(ctx, logger, rng, catalog, users, *hosts, domain.Host)
	guestIds := seedUsers(ctx, logger, rng, catalog, users, *guests, domain.Guest)
	houseIds := seedHouses(ctx, logger, rng, catalog, publisher, hostIds, *houses)
	seedFavorites(ctx, logger, rng, favorites, guestIds, houseIds)

	if *skipCass {
		logger.Println("Skipping bookings")
		return
	}

	bookingStore, err := bookingdata.NewBookingRepo(tracer, logger, os.Getenv("CASS_DB"))
	if err != nil {
		logger.Fatal(err)
	}
	defer bookingStore.CloseSession()
	bookingStore.CreateTables()

	seedBookings(ctx, logger, rng, bookingStore, guestIds, houseIds, *bookings)

	logger.Printf("Done: %d hosts, %d guests, %d houses, %d bookings requested",
		*hosts, *guests, *houses, *bookings)
}

func seedUsers(ctx context.Context, logger *log.Logger, rng *rand.Rand, catalog *Catalog, users domain.UserStore, count int, userType domain.UserType) []string {
	var ids []string
	for i := 0; i < count; i++ {
		first := pick(rng, catalog.FirstNames)
		last := pick(rng, catalog.LastNames)
		username := fmt.Sprintf("%s_%s_%d", first, last, rng.Intn(10000))
		user := &domain.User{
			Firstname: first,
			Lastname:  last,
			Email:     fmt.Sprintf("%s@example.com", username),
			Username:  username,
			UserType:  userType,
			Residence: pickCity(rng, catalog).Name,
		}
		saved, err := users.Register(ctx, user)
		if err != nil {
			logger.Printf("Error seeding user %s: %v", username, err)
			continue
		}
		ids = append(ids, saved.ID.Hex())
	}
	logger.Printf("Seeded %d %s accounts", len(ids), userType)
	return ids
}

func seedHouses(ctx context.Context, logger *log.Logger, rng *rand.Rand, catalog *Catalog, publisher *listingdata.DraftPublisher, hostIds []string, count int) []string {
	var ids []string
	if len(hostIds) == 0 {
		logger.Println("No hosts, skipping houses")
		return ids
	}
	for i := 0; i < count; i++ {
		draft := buildDraft(rng, catalog)
		owner := hostIds[rng.Intn(len(hostIds))]
		result := publisher.Publish(ctx, draft, owner)
		if !result.Success {
			logger.Printf("Error seeding house %q: %v", draft.Name, result.Error)
			continue
		}
		ids = append(ids, result.HouseId)
	}
	logger.Printf("Seeded %d houses", len(ids))
	return ids
}

func buildDraft(rng *rand.Rand, catalog *Catalog) *wizard.ListingDraft {
	city := pickCity(rng, catalog)
	basePrice := 60 + rng.Intn(120)

	sustainability := map[string]string{}
	for _, q := range catalog.SustainabilityQuestions {
		answer := "no"
		if rng.Intn(2) == 0 {
			answer = "yes"
		}
		sustainability[q] = answer
	}

	return &wizard.ListingDraft{
		Name:         pick(rng, catalog.HouseNames),
		PropertyType: pick(rng, catalog.PropertyTypes),
		Country:      city.Country,
		Region:       city.Region,
		City:         city.Name,
		Street:       pick(rng, catalog.Streets),
		Number:       1 + rng.Intn(60),
		Zip:          city.Zip,
		ImageURLs: []string{
			fmt.Sprintf("https://images.example.com/houses/%d/1.jpg", rng.Intn(100000)),
			fmt.Sprintf("https://images.example.com/houses/%d/2.jpg", rng.Intn(100000)),
		},
		BasePrice:          basePrice,
		IncludedFacilities: sample(rng, catalog.Facilities, 2),
		DepositPolicy:      "on_site",
		DepositAmount:      50 + 50*rng.Intn(4),
		WeekdayPrice:       basePrice,
		WeekendPrice:       basePrice + 20,
		WeekPrice:          basePrice*7 - 40,
		LongWeekendPrice:   basePrice*3 + 20,
		PerExtraPerson:     10 + rng.Intn(10),
		ExtraCosts: []wizard.ExtraCost{
			{Name: "tourist tax", Amount: 2, PerNight: true},
		},
		MinNights:      2 + rng.Intn(3),
		Bedrooms:       1 + rng.Intn(4),
		MaxGuests:      2 + rng.Intn(6),
		Description:    pick(rng, catalog.Descriptions),
		Surroundings:   pick(rng, catalog.Surroundings),
		Amenities:      sample(rng, catalog.Amenities, 4),
		Sustainability: sustainability,
		HouseRules: &wizard.DraftHouseRules{
			MaxBabies:       rng.Intn(3),
			MaxPets:         rng.Intn(3),
			MinChildAge:     rng.Intn(6),
			MinBookingAge:   18 + rng.Intn(8),
			SmokingAllowed:  false,
			PartiesAllowed:  false,
			QuietHoursStart: "22:00",
			QuietHoursEnd:   "07:00",
			CustomRules:     sample(rng, catalog.CustomRules, 1),
		},
	}
}

func seedFavorites(ctx context.Context, logger *log.Logger, rng *rand.Rand, favorites domain.FavoriteStore, guestIds, houseIds []string) {
	if len(houseIds) == 0 {
		return
	}
	count := 0
	for _, guest := range guestIds {
		for _, house := range sample(rng, houseIds, 1+rng.Intn(3)) {
			if _, err := favorites.AddFavorite(ctx, guest, house); err != nil {
				logger.Printf("Error seeding favorite: %v", err)
				continue
			}
			count++
		}
	}
	logger.Printf("Seeded %d favorites", count)
}

func seedBookings(ctx context.Context, logger *log.Logger, rng *rand.Rand, bookingStore *bookingdata.BookingRepo, guestIds, houseIds []string, count int) {
	if len(guestIds) == 0 || len(houseIds) == 0 {
		logger.Println("No guests or houses, skipping bookings")
		return
	}
	seeded := 0
	for i := 0; i < count; i++ {
		// spread stays out so collisions stay rare
		checkIn := time.Now().AddDate(0, 0, 7+i*10+rng.Intn(3))
		nights := 2 + rng.Intn(5)
		request := &bookingdata.BookingRequest{
			HouseId:      houseIds[rng.Intn(len(houseIds))],
			CheckIn:      checkIn.Format("2006-01-02"),
			CheckOut:     checkIn.AddDate(0, 0, nights).Format("2006-01-02"),
			Guests:       1 + rng.Intn(4),
			NightlyPrice: 60 + rng.Intn(120),
		}
		guest := guestIds[rng.Intn(len(guestIds))]
		if _, err := bookingStore.InsertBooking(ctx, request, guest); err != nil {
			logger.Printf("Error seeding booking: %v", err)
			continue
		}
		seeded++
	}
	logger.Printf("Seeded %d bookings", seeded)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func pickCity(rng *rand.Rand, catalog *Catalog) struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
} {
	return catalog.Cities[rng.Intn(len(catalog.Cities))]
}

func sample(rng *rand.Rand, values []string, n int) []string {
	if n >= len(values) {
		out := make([]string, len(values))
		copy(out, values)
		return out
	}
	idx := rng.Perm(len(values))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, values[i])
	}
	return out
}
