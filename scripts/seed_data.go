//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gaadilink/backend/internal/config"
	"github.com/gaadilink/backend/internal/database"
	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/google/uuid"
)

var (
	firstNames = []string{"Rahul", "Priya", "Amit", "Sneha", "Vikram", "Anita", "Raj", "Neha", "Suresh", "Kavita",
		"Arun", "Deepa", "Kiran", "Meera", "Sanjay", "Ritu", "Vijay", "Pooja", "Manoj", "Swati"}
	lastNames = []string{"Kumar", "Sharma", "Patel", "Singh", "Reddy", "Rao", "Gupta", "Joshi", "Nair", "Menon"}

	cities = []struct {
		Name  string
		State string
	}{
		{"Mumbai", "Maharashtra"},
		{"Pune", "Maharashtra"},
		{"Nashik", "Maharashtra"},
		{"Bangalore", "Karnataka"},
		{"Mysore", "Karnataka"},
		{"Delhi", "Delhi"},
		{"Jaipur", "Rajasthan"},
		{"Ahmedabad", "Gujarat"},
	}

	carTypeNames = []string{"Sedan", "SUV", "Hatchback", "Innova", "Tempo Traveller"}
)

func main() {
	rand.Seed(time.Now().UnixNano())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db.DB)
	requirementRepo := repository.NewRequirementRepository(db.DB)
	businessCityRepo := repository.NewBusinessCityRepository(db.DB)

	// Create car types
	log.Println("Creating car types...")
	carTypeIDs := make([]string, 0, len(carTypeNames))
	for _, name := range carTypeNames {
		id := uuid.New().String()
		_, err := db.ExecContext(ctx,
			`INSERT INTO car_types (id, name, is_active, created_at) VALUES ($1, $2, true, NOW())`,
			id, name)
		if err != nil {
			log.Fatalf("Failed to create car type %s: %v", name, err)
		}
		carTypeIDs = append(carTypeIDs, id)
	}

	// Create users with business cities
	log.Println("Creating 50 users...")
	userIDs := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		user := &models.User{
			FullName:    fmt.Sprintf("%s %s", firstNames[rand.Intn(len(firstNames))], lastNames[rand.Intn(len(lastNames))]),
			PhoneNumber: fmt.Sprintf("98%08d", rand.Intn(100000000)),
			IsVerified:  rand.Intn(100) < 60,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		userIDs = append(userIDs, user.ID)

		// 1-3 business cities per user
		for _, idx := range rand.Perm(len(cities))[:1+rand.Intn(3)] {
			bc := &models.BusinessCity{
				UserID:   user.ID,
				CityName: cities[idx].Name,
				State:    cities[idx].State,
			}
			if err := businessCityRepo.Create(ctx, bc); err != nil {
				log.Fatalf("Failed to create business city: %v", err)
			}
		}
	}

	// Create requirements
	log.Println("Creating 200 requirements...")
	for i := 0; i < 200; i++ {
		from := cities[rand.Intn(len(cities))]
		to := cities[rand.Intn(len(cities))]
		for to.Name == from.Name {
			to = cities[rand.Intn(len(cities))]
		}

		budget := float64(2000 + rand.Intn(8000))
		tripType := models.TripTypeOneway
		if rand.Intn(100) < 30 {
			tripType = models.TripTypeRound
		}

		req := &models.Requirement{
			PostedByID:   userIDs[rand.Intn(len(userIDs))],
			FromCity:     from.Name,
			ToCity:       to.Name,
			PickupDate:   time.Now().AddDate(0, 0, 1+rand.Intn(14)),
			PickupTime:   fmt.Sprintf("%02d:%02d", 6+rand.Intn(16), 15*rand.Intn(4)),
			CarType:      carTypeIDs[rand.Intn(len(carTypeIDs))],
			TripType:     tripType,
			Budget:       &budget,
			OnlyVerified: rand.Intn(100) < 20,
			Status:       models.StatusCreated,
		}
		if err := requirementRepo.Create(ctx, req); err != nil {
			log.Fatalf("Failed to create requirement: %v", err)
		}
	}

	log.Println("Seed data created successfully")
}
