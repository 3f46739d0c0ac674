package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/careseeker/careseeker-backend/internal/adapters/database"
	"github.com/careseeker/careseeker-backend/internal/application/services"
	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/infrastructure/clients/postgres"
	"github.com/careseeker/careseeker-backend/pkg/config"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	careHomeRepo := database.NewCareHomeAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	careHomeService := services.NewCareHomeService(careHomeRepo, cfg.Discovery)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				care_home_facilities,
				reviews,
				care_homes,
				facilities,
				care_types
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed care types
	careTypes := []entities.CareType{
		{ID: uuid.New().String(), Name: "Residential Care", Description: "Help with day-to-day living in a homely setting", IsActive: true, SortOrder: 1, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Nursing Care", Description: "Round-the-clock care from registered nurses", IsActive: true, SortOrder: 2, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Dementia Care", Description: "Specialist support for people living with dementia", IsActive: true, SortOrder: 3, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Respite Care", Description: "Short-term stays to give regular carers a break", IsActive: true, SortOrder: 4, CreatedAt: time.Now()},
	}
	for _, ct := range careTypes {
		_, err := pgClient.DB().ExecContext(ctx,
			`INSERT INTO care_types (id, name, description, is_active, sort_order, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			ct.ID, ct.Name, ct.Description, ct.IsActive, ct.SortOrder, ct.CreatedAt)
		if err != nil {
			log.Printf("Failed to create care type %s: %v", ct.Name, err)
		}
	}

	// 2. Seed facilities (amenity lookup)
	facilities := []entities.Facility{
		{ID: uuid.New().String(), Name: "Garden", Icon: "garden", IsActive: true, SortOrder: 1, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Ensuite Rooms", Icon: "bed", IsActive: true, SortOrder: 2, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "WiFi", Icon: "wifi", IsActive: true, SortOrder: 3, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Hair Salon", Icon: "scissors", IsActive: true, SortOrder: 4, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Minibus Outings", Icon: "bus", IsActive: true, SortOrder: 5, CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Pet Friendly", Icon: "paw", IsActive: true, SortOrder: 6, CreatedAt: time.Now()},
	}
	for _, f := range facilities {
		_, err := pgClient.DB().ExecContext(ctx,
			`INSERT INTO facilities (id, name, icon, is_active, sort_order, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			f.ID, f.Name, f.Icon, f.IsActive, f.SortOrder, f.CreatedAt)
		if err != nil {
			log.Printf("Failed to create facility %s: %v", f.Name, err)
		}
	}

	// 3. Seed care homes across UK cities
	weekly := func(v float64) *float64 { return &v }
	cqc := func(v string) *string { return &v }

	homes := []*entities.CareHome{
		{
			Name:        "Willowbrook Manor",
			Description: "A purpose-built residential home set in two acres of landscaped gardens on the edge of Hampstead Heath.",
			Address:     entities.Address{Line1: "14 Heath Lane", City: "London", Region: "Greater London", Postcode: "NW3 7AB", Country: "GB"},
			Location:    &entities.Location{Latitude: 51.5556, Longitude: -0.1723},
			WeeklyPrice: weekly(1450), TotalBeds: 48, AvailableBeds: 5,
			IsVerified: true, IsFeatured: true, AcceptingNewResidents: true,
			CareTypeID:      careTypes[0].ID,
			Facilities:      []entities.Facility{facilities[0], facilities[1], facilities[2]},
			Specializations: []string{"parkinsons", "stroke-recovery"},
			CQCRating:       cqc("Outstanding"),
		},
		{
			Name:        "Rosewood Court",
			Description: "Family-run nursing home overlooking the River Irwell with dedicated dementia wings.",
			Address:     entities.Address{Line1: "3 Riverside Walk", City: "Manchester", Region: "Greater Manchester", Postcode: "M3 5GH", Country: "GB"},
			Location:    &entities.Location{Latitude: 53.4839, Longitude: -2.2521},
			WeeklyPrice: weekly(1095), TotalBeds: 62, AvailableBeds: 0,
			IsVerified: true, AcceptingNewResidents: false,
			CareTypeID:      careTypes[1].ID,
			Facilities:      []entities.Facility{facilities[0], facilities[3], facilities[4]},
			Specializations: []string{"dementia", "palliative"},
			CQCRating:       cqc("Good"),
		},
		{
			Name:        "Harbour View House",
			Description: "Coastal respite and residential care with sea-facing lounges and daily activity programmes.",
			Address:     entities.Address{Line1: "22 Marine Parade", City: "Brighton", Region: "East Sussex", Postcode: "BN2 1TL", Country: "GB"},
			Location:    &entities.Location{Latitude: 50.8198, Longitude: -0.1268},
			WeeklyPrice: weekly(925), TotalBeds: 30, AvailableBeds: 12,
			IsVerified: false, AcceptingNewResidents: true,
			CareTypeID:      careTypes[3].ID,
			Facilities:      []entities.Facility{facilities[2], facilities[5]},
			Specializations: []string{"respite"},
		},
		{
			Name:        "Elm Grove Lodge",
			Description: "Specialist dementia care in a quiet Edinburgh suburb, with secure gardens and reminiscence rooms.",
			Address:     entities.Address{Line1: "8 Elm Grove", City: "Edinburgh", Region: "Lothian", Postcode: "EH12 6JQ", Country: "GB"},
			Location:    &entities.Location{Latitude: 55.9433, Longitude: -3.2681},
			WeeklyPrice: weekly(1180), TotalBeds: 40, AvailableBeds: 3,
			IsVerified: true, AcceptingNewResidents: true,
			CareTypeID:      careTypes[2].ID,
			Facilities:      []entities.Facility{facilities[0], facilities[1], facilities[5]},
			Specializations: []string{"dementia", "alzheimers"},
			CQCRating:       cqc("Good"),
		},
	}

	for _, home := range homes {
		if err := careHomeService.Create(ctx, home); err != nil {
			log.Printf("Failed to create care home %s: %v", home.Name, err)
		}
	}

	// 4. Seed reviews; verified ones drive the displayed aggregates
	reviewer := "seed-user-1"
	reviews := []*entities.Review{
		{ID: uuid.New().String(), CareHomeID: homes[0].ID, UserID: &reviewer, Comment: "Mum has been here a year and the staff are wonderful.", Rating: 5, IsVerified: true, CreatedAt: time.Now()},
		{ID: uuid.New().String(), CareHomeID: homes[0].ID, Comment: "Lovely gardens, communication could be better.", Rating: 4, IsVerified: true, IsAnonymous: true, CreatedAt: time.Now()},
		{ID: uuid.New().String(), CareHomeID: homes[1].ID, Comment: "Compassionate nursing team through a difficult time.", Rating: 5, IsVerified: true, IsAnonymous: true, CreatedAt: time.Now()},
		{ID: uuid.New().String(), CareHomeID: homes[3].ID, Comment: "The reminiscence room made a real difference for Dad.", Rating: 4, IsVerified: true, IsAnonymous: true, CreatedAt: time.Now()},
	}
	for _, rv := range reviews {
		if err := reviewRepo.Create(ctx, rv); err != nil {
			log.Printf("Failed to create review for %s: %v", rv.CareHomeID, err)
		}
	}

	log.Printf("Seeding complete: %d care types, %d facilities, %d care homes, %d reviews",
		len(careTypes), len(facilities), len(homes), len(reviews))
}
