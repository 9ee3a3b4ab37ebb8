package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wbltools/true-rating/internal/models"
	"github.com/wbltools/true-rating/internal/ratings"
	"github.com/wbltools/true-rating/pkg/config"
	"github.com/wbltools/true-rating/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
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
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Player{},
		&models.ScoutingRecord{},
		&models.PerformanceSeason{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_players_role_status ON players(role, status)",
		"CREATE INDEX IF NOT EXISTS idx_perf_level_year ON performance_seasons(level, year)",
		"CREATE INDEX IF NOT EXISTS idx_scouting_captured ON scouting_records(captured_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"scouting_records",
		"performance_seasons",
		"players",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func fptr(v float64) *float64 { return &v }

func seedData(db *database.DB) error {
	captured := time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC)

	players := []models.Player{
		{ExternalID: "wbl_p001", Name: "Dalton Reyes", Role: string(ratings.RolePitcher), BirthYear: 2000, Status: string(ratings.StatusProspect)},
		{ExternalID: "wbl_p002", Name: "Marcus Okafor", Role: string(ratings.RolePitcher), BirthYear: 1993, Status: string(ratings.StatusEstablished)},
		{ExternalID: "wbl_b001", Name: "Theo Nakamura", Role: string(ratings.RoleBatter), BirthYear: 1999, Status: string(ratings.StatusProspect)},
		{ExternalID: "wbl_b002", Name: "Ramon Castillo", Role: string(ratings.RoleBatter), BirthYear: 1992, Status: string(ratings.StatusEstablished)},
	}
	if err := db.Create(&players).Error; err != nil {
		return fmt.Errorf("failed to create players: %w", err)
	}

	seasons := []models.PerformanceSeason{
		// Prospect arm working up the ladder.
		{PlayerID: players[0].ID, Year: 2019, Level: string(ratings.LevelA), IP: 110, K: 115, BB: 42, HR: 8},
		{PlayerID: players[0].ID, Year: 2020, Level: string(ratings.LevelAA), IP: 95, K: 102, BB: 31, HR: 7},
		// Established starter, MLB track record.
		{PlayerID: players[1].ID, Year: 2019, Level: string(ratings.LevelMLB), IP: 180, K: 175, BB: 48, HR: 20},
		{PlayerID: players[1].ID, Year: 2020, Level: string(ratings.LevelMLB), IP: 172, K: 168, BB: 45, HR: 18},
		// Prospect bat.
		{PlayerID: players[2].ID, Year: 2020, Level: string(ratings.LevelAA), PA: 480, K: 105, BB: 52, HR: 18, H: 125, Doubles: 28, Triples: 3},
		// Established bat.
		{PlayerID: players[3].ID, Year: 2019, Level: string(ratings.LevelMLB), PA: 610, K: 120, BB: 65, HR: 28, H: 155, Doubles: 32, Triples: 2},
		{PlayerID: players[3].ID, Year: 2020, Level: string(ratings.LevelMLB), PA: 590, K: 112, BB: 70, HR: 25, H: 150, Doubles: 30, Triples: 1},
	}
	if err := db.Create(&seasons).Error; err != nil {
		return fmt.Errorf("failed to create performance seasons: %w", err)
	}

	reports := []models.ScoutingRecord{
		{
			PlayerID: players[0].ID, CapturedAt: captured, Source: string(ratings.SourcePrimary), Age: 20,
			Stuff: fptr(65), Control: fptr(55), HRAvoid: fptr(60),
			CurrentStars: 2.0, PotentialStars: 4.5,
		},
		{
			PlayerID: players[2].ID, CapturedAt: captured, Source: string(ratings.SourcePrimary), Age: 21,
			Power: fptr(60), Eye: fptr(55), AvoidK: fptr(50), Contact: fptr(55), Gap: fptr(50), Speed: fptr(45),
			CurrentStars: 2.0, PotentialStars: 4.5,
		},
	}
	if err := db.Create(&reports).Error; err != nil {
		return fmt.Errorf("failed to create scouting records: %w", err)
	}

	logrus.Infof("Seeded %d players, %d seasons, %d scouting reports", len(players), len(seasons), len(reports))
	return nil
}
