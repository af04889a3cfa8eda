// Command ingredients-import loads the ingredient dictionary from a CSV
// file of "name,measurement_unit" rows. Existing pairs are left alone.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/database"
	"github.com/foodgram-project/backend/internal/service"
)

func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer f.Close()

	ingredients := service.NewIngredientService(db)
	reader := csv.NewReader(f)
	ctx := context.Background()

	var imported, skipped int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read CSV: %v", err)
		}
		if len(row) < 2 {
			log.Printf("Skipping malformed row: %v", row)
			continue
		}

		_, created, err := ingredients.GetOrCreateIngredient(ctx, row[0], row[1])
		if err != nil {
			log.Fatalf("Failed to import ingredient %q: %v", row[0], err)
		}
		if created {
			imported++
		} else {
			log.Printf("Ingredient %q already exists", row[0])
			skipped++
		}
	}

	log.Printf("Ingredients loaded: %d imported, %d already present", imported, skipped)
}
