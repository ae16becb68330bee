package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avesguide/academy_api/model"
	"github.com/avesguide/academy_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		dbPath = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
		help   = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_DATABASE")
		if databasePath == "" {
			databasePath = "academy.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	if err := db.AutoMigrate(
		&model.Course{},
		&model.Lesson{},
		&model.Activity{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.ActivityAttempt{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	courseSeeder := seeders.NewCourseSeeder(db)
	if err := courseSeeder.SeedDemoCourse(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Database seeding completed successfully!")
}

func showHelp() {
	log.Println("Usage: seed [-db path]")
	log.Println("Seeds the demo bird-watching course with all activity types.")
	log.Println("  -db    SQLite database path (default: DB_DATABASE env or academy.db)")
}
