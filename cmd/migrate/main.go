package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"visiondash/internal/model"
	"visiondash/internal/repository/sqlite"
)

// Initializes the review database schema and optionally imports a JSON
// export of past decisions, so a fresh deployment keeps its audit history.
func main() {
	dbPath := flag.String("db", "data/review.db", "Database path")
	importPath := flag.String("import", "", "JSON file of decision records to import")
	flag.Parse()

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	// Initialize database
	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Initialized review database at %s\n", *dbPath)

	decisionRepo := sqlite.NewDecisionRepository(db)

	if *importPath != "" {
		data, err := os.ReadFile(*importPath)
		if err != nil {
			log.Fatalf("Failed to read import file: %v", err)
		}

		var records []model.DecisionRecord
		if err := json.Unmarshal(data, &records); err != nil {
			log.Fatalf("Failed to parse import file: %v", err)
		}

		imported := 0
		skipped := 0
		for i := range records {
			rec := records[i]
			if rec.ItemPath == "" || rec.Kind == "" {
				log.Printf("⚠️  Skipping record %d: missing item path or decision", i)
				skipped++
				continue
			}
			if _, err := decisionRepo.Insert(&rec); err != nil {
				log.Printf("⚠️  Failed to import record for %s: %v", rec.ItemPath, err)
				skipped++
				continue
			}
			imported++
		}

		fmt.Printf("✅ Imported %d decision records\n", imported)
		if skipped > 0 {
			fmt.Printf("⚠️  Skipped %d records\n", skipped)
		}
	}

	// Show stats
	counts, err := decisionRepo.CountByKind()
	if err == nil {
		fmt.Printf("\n📊 Journal Statistics:\n")
		for kind, count := range counts {
			fmt.Printf("   - %s: %d\n", kind, count)
		}
	}
}
