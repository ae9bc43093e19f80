package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

var weightClasses = []string{"FLYWEIGHT", "BANTAMWEIGHT", "FEATHERWEIGHT", "LIGHTWEIGHT", "WELTERWEIGHT", "MIDDLEWEIGHT", "LIGHT_HEAVYWEIGHT", "HEAVYWEIGHT"}

var organizations = []string{"UFC", "PFL", "ONE"}

var methods = []fight.Method{
	fight.MethodKO,
	fight.MethodTKO,
	fight.MethodSubmission,
	fight.MethodDecision,
	fight.MethodDecision,
	fight.MethodDecision,
	fight.MethodDQ,
	fight.MethodOther,
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	const fightersPerDivision = 12
	const numFights = 5000

	var fighters []fight.Fighter
	for _, wc := range weightClasses {
		for _, org := range organizations {
			for i := 0; i < fightersPerDivision; i++ {
				fighters = append(fighters, fight.Fighter{
					ID:           uuid.NewString(),
					Name:         fmt.Sprintf("Seeded %s %s %d", org, wc, i+1),
					WeightClass:  wc,
					Organization: org,
					Champion:     i == 0,
				})
			}
		}
	}

	for _, f := range fighters {
		_, err := db.Exec(`
			INSERT OR IGNORE INTO fighters (id, name, weight_class, organization, champion, interim_champion)
			VALUES (?, ?, ?, ?, ?, ?)`, f.ID, f.Name, f.WeightClass, f.Organization, f.Champion, f.InterimChampion)
		if err != nil {
			log.Fatalf("Failed to insert fighter %s: %s", f.Name, err)
		}
	}
	log.Info("Ensured seed fighters exist.", "count", len(fighters))

	// Index fighters by division so every bout stays inside one pool.
	byDivision := make(map[string][]fight.Fighter)
	for _, f := range fighters {
		key := f.WeightClass + "|" + f.Organization
		byDivision[key] = append(byDivision[key], f)
	}
	divisions := make([]string, 0, len(byDivision))
	for key := range byDivision {
		divisions = append(divisions, key)
	}

	const batchSize = 100 // Insert 100 bout records at a time

	log.Info("Preparing to insert seed fights...", "total", numFights, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize*2)
	valueArgs := make([]interface{}, 0, batchSize*2*9) // 9 columns per record

	inserted := 0
	for i := 0; i < numFights; i++ {
		pool := byDivision[divisions[rand.Intn(len(divisions))]]
		a := pool[rand.Intn(len(pool))]
		b := pool[rand.Intn(len(pool))]
		if a.ID == b.ID {
			continue
		}

		date := time.Now().Add(-time.Duration(rand.Intn(5*365*24)) * time.Hour)
		method := methods[rand.Intn(len(methods))]
		resultA, resultB := fight.ResultWin, fight.ResultLoss
		switch {
		case rand.Intn(100) < 3:
			resultA, resultB = fight.ResultDraw, fight.ResultDraw
			method = fight.MethodDecision
		case rand.Intn(100) < 2:
			resultA, resultB = fight.ResultNoContest, fight.ResultNoContest
			method = fight.MethodOther
		case rand.Intn(2) == 0:
			resultA, resultB = resultB, resultA
		}
		titleFight := a.Champion || b.Champion

		// Two mirrored records, one per perspective.
		boutID := uuid.NewString()
		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?)", "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			boutID+":a", a.ID, b.ID, date.Unix(), resultA, method, a.WeightClass, a.Organization, titleFight,
			boutID+":b", b.ID, a.ID, date.Unix(), resultB, method, a.WeightClass, a.Organization, titleFight,
		)
		inserted++

		if inserted%batchSize == 0 || (i+1) == numFights {
			stmt := fmt.Sprintf(`
				INSERT OR IGNORE INTO fights (id, fighter_id, opponent_id, date, result, method, weight_class, organization, title_fight)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize*2)
			valueArgs = make([]interface{}, 0, batchSize*2*9)
			log.Info("Inserted batch", "completed", inserted, "total", numFights)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all seed fights.", "records", inserted*2, "duration", duration)
}
