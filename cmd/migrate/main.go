package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hichigg/betbrain/internal/models"
	"github.com/hichigg/betbrain/pkg/config"
	"github.com/hichigg/betbrain/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(&models.Pick{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_picks_sport_date ON picks(sport, date)",
		"CREATE INDEX IF NOT EXISTS idx_picks_result ON picks(result)",
		"CREATE INDEX IF NOT EXISTS idx_picks_game_id ON picks(game_id)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func dropTables(db *database.DB) error {
	if err := db.Exec("DROP TABLE IF EXISTS picks CASCADE").Error; err != nil {
		return fmt.Errorf("failed to drop picks table: %w", err)
	}
	return nil
}

func seedData(db *database.DB) error {
	confidence := 0.62
	sample := []models.Pick{
		newSeedPick("nba", "2025-01-10", "Boston Celtics", "Los Angeles Lakers", models.BetTypeSpread, "Boston Celtics -3.5", -110, 1, &confidence),
		newSeedPick("nba", "2025-01-10", "Boston Celtics", "Los Angeles Lakers", models.BetTypeOverUnder, "Over 224.5", -105, 1, nil),
		newSeedPick("nfl", "2025-01-12", "Kansas City Chiefs", "Buffalo Bills", models.BetTypeMoneyline, "Buffalo Bills", 120, 2, nil),
	}

	for i := range sample {
		if err := db.Create(&sample[i]).Error; err != nil {
			return fmt.Errorf("failed to seed pick: %w", err)
		}
	}

	logrus.Infof("Seeded %d sample picks", len(sample))
	return nil
}

func newSeedPick(sport, date, home, away, betType, pickText string, odds int, units float64, confidence *float64) models.Pick {
	p := models.NewPick()
	p.Sport = sport
	p.Date = date
	p.HomeTeam = home
	p.AwayTeam = away
	p.GameName = away + " at " + home
	p.BetType = betType
	p.Pick = pickText
	p.Odds = odds
	p.Units = units
	p.Confidence = confidence
	return p
}
