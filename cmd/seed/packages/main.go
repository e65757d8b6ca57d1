package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ardikasatria/gymdesk/internal/config"
	"github.com/ardikasatria/gymdesk/internal/domain"
	"github.com/ardikasatria/gymdesk/internal/repository"
)

// Seeds the default package catalog into an empty database. Prices are
// in the smallest currency unit.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	repo := repository.NewMongoPackageRepository(db)

	packages := []domain.Package{
		{PackageName: "Daily Pass", Description: "Single day access", DurationDays: 1, Price: 35000, IsActive: true},
		{PackageName: "Weekly", Description: "7 day access", DurationDays: 7, Price: 150000, IsActive: true},
		{PackageName: "Monthly", Description: "30 day access", DurationDays: 30, Price: 350000, IsActive: true},
		{PackageName: "Quarterly", Description: "90 day access, save 10%", DurationDays: 90, Price: 945000, IsActive: true},
		{PackageName: "Semester", Description: "180 day access, save 15%", DurationDays: 180, Price: 1785000, IsActive: true},
		{PackageName: "Annual", Description: "365 day access, save 20%", DurationDays: 365, Price: 3360000, IsActive: true},
	}

	existing, err := repo.GetAll(ctx)
	if err != nil {
		log.Fatalf("Failed to list packages: %v", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, p := range existing {
		byName[p.PackageName] = true
	}

	seeded := 0
	for i := range packages {
		if byName[packages[i].PackageName] {
			log.Printf("Skipping %s (already present)", packages[i].PackageName)
			continue
		}
		if err := repo.Create(ctx, &packages[i]); err != nil {
			log.Fatalf("Failed to seed package %s: %v", packages[i].PackageName, err)
		}
		seeded++
	}

	log.Printf("✓ Seeded %d packages", seeded)
}
