// Command holidays-seed wipes the database and loads demo data: the US
// federal holidays, a few spending categories, demo users and random
// expenses. Intended for local development only.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/joho/godotenv"

	"holidays/internal/auth"
	"holidays/internal/config"
	"holidays/internal/core"
	applog "holidays/internal/log"
	"holidays/internal/storage"
)

type seedUser struct {
	username string
	name     string
	age      int
	password string
}

var seedHolidays = []core.Holiday{
	{Name: "4th of July", Duration: 1, Description: "Independence Day, known colloquially as the Fourth of July, is a federal holiday in the United States which commemorates the adoption of the Declaration of Independence on July 4, 1776, establishing the United States of America."},
	{Name: "Memorial Day", Duration: 3, Description: "Memorial Day is a federal holiday in the United States for mourning the U.S. military personnel who died while serving in the United States Armed Forces. It is observed on the last Monday of May. It is the unofficial beginning of summer in the United States."},
	{Name: "Labor Day", Duration: 3, Description: "Labor Day is a federal holiday in the United States celebrated on the first Monday of September to honor and recognize the American labor movement and the works and contributions of laborers to the development and achievements in the United States."},
	{Name: "New Year's Day", Duration: 1, Description: "In the Gregorian calendar, New Year's Day is the first day of the calendar year, 1 January. Most solar calendars, such as the Gregorian and Julian calendars, begin the year regularly at or near the northern winter solstice."},
	{Name: "Christmas Day", Duration: 2, Description: "Christmas is an annual festival commemorating the birth of Jesus Christ, observed primarily on December 25 as a religious and cultural celebration among billions of people around the world."},
	{Name: "Thanksgiving", Duration: 4, Description: "Thanksgiving is a federal holiday in the United States celebrated on the fourth Thursday of November. The earliest Thanksgiving can occur is November 22; the latest is November 28."},
}

var seedCategories = []core.Category{
	{Name: "Food", Description: "Groceries, restaurants and takeout"},
	{Name: "Travel", Description: "Flights, fuel and transit"},
	{Name: "Lodging", Description: "Hotels and rentals"},
	{Name: "Entertainment", Description: "Events, attractions and gifts"},
}

var seedUsers = []seedUser{
	{username: "sren", name: "Nick", age: 32, password: "mimashi"},
	{username: "innasevas", name: "Inna", age: 35, password: "1234"},
	{username: "Bob", name: "Bobby", age: 7, password: "6666"},
}

var seedDates = []string{
	"2026-01-01", "2026-05-25", "2026-07-04", "2026-09-07", "2026-11-26", "2026-12-25",
}

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentSeed)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	if err := seed(ctx, repo, logger); err != nil {
		logger.Error("Seeding failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Done seeding", "path", cfg.SQLiteDBPath)
}

func seed(ctx context.Context, repo *storage.SQLiteRepository, logger *applog.Logger) error {
	logger.Info("Clearing db")
	// Expenses and sessions cascade from their owners, but clearing them
	// first keeps the order independent of the FK graph.
	for _, table := range []string{"expenses", "sessions", "users", "holidays", "categories"} {
		if _, err := repo.DB().ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	logger.Info("Seeding holidays")
	holidayIDs := make([]int64, 0, len(seedHolidays))
	for _, h := range seedHolidays {
		created, err := repo.CreateHoliday(ctx, h)
		if err != nil {
			return fmt.Errorf("seed holiday %q: %w", h.Name, err)
		}
		holidayIDs = append(holidayIDs, created.ID)
	}

	logger.Info("Seeding categories")
	categoryIDs := make([]int64, 0, len(seedCategories))
	for _, c := range seedCategories {
		created, err := repo.CreateCategory(ctx, c)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		categoryIDs = append(categoryIDs, created.ID)
	}

	logger.Info("Seeding users")
	userIDs := make([]int64, 0, len(seedUsers))
	for _, u := range seedUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("hash password for %q: %w", u.username, err)
		}
		created, err := repo.CreateUser(ctx, core.User{
			Username:     u.username,
			Name:         u.name,
			Age:          u.age,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.username, err)
		}
		userIDs = append(userIDs, created.ID)
	}

	logger.Info("Seeding expenses")
	for _, userID := range userIDs {
		for i := 0; i < 3+rand.Intn(4); i++ {
			_, err := repo.CreateExpense(ctx, core.Expense{
				Amount:     float64(100+rand.Intn(20000)) / 100,
				Date:       seedDates[rand.Intn(len(seedDates))],
				Note:       "seeded expense",
				UserID:     userID,
				HolidayID:  holidayIDs[rand.Intn(len(holidayIDs))],
				CategoryID: categoryIDs[rand.Intn(len(categoryIDs))],
			})
			if err != nil {
				return fmt.Errorf("seed expense for user %d: %w", userID, err)
			}
		}
	}

	return nil
}
