package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/internal/repositories"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Imports a league roster spreadsheet. One sheet per team; the sheet
// name is "Team Name (ABBR)" and column A holds in-game names, one per
// row, with a header row.
//
// Usage: import_roster <guild_id> <roster.xlsx>
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) != 3 {
		log.Fatal("usage: import_roster <guild_id> <roster.xlsx>")
	}
	guildID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		log.Fatal("guild_id must be numeric:", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"), getEnv("DB_SSLMODE", "disable"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}
	if err := db.AutoMigrate(&models.Team{}, &models.RosterPlayer{}); err != nil {
		log.Fatal("failed to migrate roster tables:", err)
	}

	f, err := excelize.OpenFile(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	teamRepo := repositories.NewTeamRepository(db)
	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		name, abbrev, ok := parseSheetName(sheetName)
		if !ok {
			fmt.Printf("Skipping sheet %q: expected \"Team Name (ABBR)\"\n", sheetName)
			continue
		}

		team, err := teamRepo.UpsertTeam(guildID, name, abbrev)
		if err != nil {
			fmt.Printf("Error creating team %s: %v\n", abbrev, err)
			continue
		}
		fmt.Printf("Importing team: %s (%s)\n", name, abbrev)

		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 1 { // Skip header or empty rows
				continue
			}

			ign := strings.TrimSpace(row[0])
			if ign == "" {
				continue
			}

			if err := teamRepo.AddRosterPlayer(team.ID, ign); err != nil {
				fmt.Printf("Error adding player %q in row %d: %v\n", ign, i+1, err)
				continue
			}
			totalImported++
		}
	}

	fmt.Printf("Done. Imported %d roster players.\n", totalImported)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseSheetName splits "Team Name (ABBR)" into its parts.
func parseSheetName(sheet string) (name, abbrev string, ok bool) {
	open := strings.LastIndex(sheet, "(")
	end := strings.LastIndex(sheet, ")")
	if open < 1 || end <= open+1 {
		return "", "", false
	}

	name = strings.TrimSpace(sheet[:open])
	abbrev = strings.TrimSpace(sheet[open+1 : end])
	if name == "" || abbrev == "" {
		return "", "", false
	}
	return name, abbrev, true
}
