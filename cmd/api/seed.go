package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/repository/sqlconnect"
	"github.com/5w1tchy/library-api/internal/store/authors"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Delete every author and book, then insert sample data",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := sqlconnect.ConnectDB(ctx, cfg.DatabaseURL, sqlconnect.Pool(cfg.DB))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := authors.Reset(ctx, db); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	var books int
	for _, a := range sampleAuthors() {
		if err := authors.Create(ctx, db, &a); err != nil {
			return fmt.Errorf("seed %s %s: %w", a.FirstName, a.LastName, err)
		}
		books += len(a.Books)
		log.Debug().Str("author_id", a.ID.String()).Str("name", a.FirstName+" "+a.LastName).Msg("seeded author")
	}
	log.Info().Int("books", books).Msg("seed complete")
	return nil
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func sampleAuthors() []models.Author {
	died := func(y int, m time.Month, d int) *time.Time { t := day(y, m, d); return &t }
	return []models.Author{
		{FirstName: "Stephen", LastName: "King", DateOfBirth: day(1947, time.September, 21), Genre: "Horror", Books: []models.Book{
			{Title: "The Shining", Description: "A family heads to an isolated hotel for the winter."},
			{Title: "It", Description: "A shape-shifting evil preys on the children of Derry."},
			{Title: "Misery", Description: "A novelist is held captive by his biggest fan."},
		}},
		{FirstName: "George", LastName: "Orwell", DateOfBirth: day(1903, time.June, 25), DateOfDeath: died(1950, time.January, 21), Genre: "Dystopia", Books: []models.Book{
			{Title: "Nineteen Eighty-Four", Description: "Big Brother is watching."},
			{Title: "Animal Farm", Description: "All animals are equal, but some are more equal than others."},
		}},
		{FirstName: "Ursula", LastName: "Le Guin", DateOfBirth: day(1929, time.October, 21), DateOfDeath: died(2018, time.January, 22), Genre: "Science Fiction", Books: []models.Book{
			{Title: "The Left Hand of Darkness", Description: "An envoy visits a planet whose people have no fixed sex."},
			{Title: "A Wizard of Earthsea", Description: "A young mage must hunt the shadow he released."},
		}},
		{FirstName: "Agatha", LastName: "Christie", DateOfBirth: day(1890, time.September, 15), DateOfDeath: died(1976, time.January, 12), Genre: "Mystery", Books: []models.Book{
			{Title: "Murder on the Orient Express", Description: "A detective solves a murder on a snowbound train."},
		}},
		{FirstName: "Neil", LastName: "Gaiman", DateOfBirth: day(1960, time.November, 10), Genre: "Fantasy", Books: []models.Book{
			{Title: "American Gods", Description: "Old gods and new gods prepare for war."},
			{Title: "Coraline", Description: "A girl finds a door to a sinister copy of her home."},
		}},
		{FirstName: "Terry", LastName: "Pratchett", DateOfBirth: day(1948, time.April, 28), DateOfDeath: died(2015, time.March, 12), Genre: "Fantasy", Books: []models.Book{
			{Title: "Guards! Guards!", Description: "The Night Watch of Ankh-Morpork faces a dragon."},
		}},
		{FirstName: "Mary", LastName: "Shelley", DateOfBirth: day(1797, time.August, 30), DateOfDeath: died(1851, time.February, 1), Genre: "Horror", Books: []models.Book{
			{Title: "Frankenstein", Description: "A scientist creates life and abandons it."},
		}},
		{FirstName: "Isaac", LastName: "Asimov", DateOfBirth: day(1920, time.January, 2), DateOfDeath: died(1992, time.April, 6), Genre: "Science Fiction", Books: []models.Book{
			{Title: "Foundation", Description: "A mathematician plans for the fall of an empire."},
		}},
	}
}
