// Package main seeds a journal database with demo sessions of every type.
//
// Usage:
//
//	DB_PATH=~/CupNotes/data/journal.db go run ./cmd/seed
//	go run ./cmd/seed -sessions 20
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	"github.com/cupnotes/cupnotes-server/internal/flavor"
	"github.com/cupnotes/cupnotes-server/internal/store/sqlite"
)

var sessionCount = flag.Int("sessions", 9, "Number of sessions to create, spread over all types")

type demoCoffee struct {
	name, roaster, origin, brew string
	level                       domain.RoastLevel
}

var demoCoffees = []demoCoffee{
	{"Karogoto AA", "Tim Wendelboe", "Kenya", "V60", domain.RoastLevel("light")},
	{"Deborah Washed", "Friedhats", "Ethiopia", "Kalita", domain.RoastLevel("light")},
	{"Finca El Paraiso", "Manhattan", "Colombia", "Aeropress", domain.RoastLevel("medium-light")},
	{"Sitio Canaan", "April", "Brazil", "French press", domain.RoastLevel("medium")},
	{"La Esperanza", "Coffee Collective", "Honduras", "Chemex", domain.RoastLevel("medium")},
	{"Kiamabara", "Square Mile", "Kenya", "Cupping bowl", domain.RoastLevel("medium-dark")},
}

var sessionTypes = []domain.SessionType{
	domain.SessionTypeSingleCoffee,
	domain.SessionTypeMultiCoffee,
	domain.SessionTypeTableCupping,
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/CupNotes/data/journal.db")
	}
	fmt.Printf("Opening database at: %s\n", dbPath)

	ctx := context.Background()
	s, err := sqlite.Open(ctx, dbPath, slog.Default())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	catalog := flavor.Default()
	cups := 0
	for n := range *sessionCount {
		sessionType := sessionTypes[n%len(sessionTypes)]
		session, err := seedSession(ctx, s, catalog, sessionType)
		if err != nil {
			log.Fatalf("Failed to seed %s session: %v", sessionType, err)
		}
		cups += len(session.Cups())
		fmt.Printf("  %s  %-14s %d coffees\n", session.ID, sessionType, len(session.Coffees))
	}

	fmt.Printf("Seeded %d sessions with %d cups\n", *sessionCount, cups)
}

func seedSession(ctx context.Context, s *sqlite.Store, catalog *flavor.Catalog, sessionType domain.SessionType) (*domain.Session, error) {
	session, err := s.CreateSession(ctx, sessionType)
	if err != nil {
		return nil, err
	}

	describe(&session.Coffees[0], demoCoffees[rand.IntN(len(demoCoffees))])
	session.Mode = domain.SessionModePro
	session.Notes = "Seeded demo session"
	session.Tags = []string{"demo", string(sessionType)}
	if err := s.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	if sessionType == domain.SessionTypeMultiCoffee {
		for range 2 {
			extra := &domain.CoffeeEntry{}
			describe(extra, demoCoffees[rand.IntN(len(demoCoffees))])
			if _, err := s.AddCoffeeToSession(ctx, session.ID, extra); err != nil {
				return nil, err
			}
		}
	}

	session, err = s.GetSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	for _, cup := range session.Cups() {
		if _, err := s.UpdateCupScores(ctx, cup.ID, randomScores()); err != nil {
			return nil, err
		}
		if err := s.UpdateCupFlavors(ctx, cup.ID, randomFlavors(catalog)); err != nil {
			return nil, err
		}
	}
	return s.GetSession(ctx, session.ID)
}

func describe(c *domain.CoffeeEntry, demo demoCoffee) {
	level := demo.level
	c.Name = demo.name
	c.Roaster = demo.roaster
	c.Origin = demo.origin
	c.BrewMethod = demo.brew
	c.RoastLevel = &level
}

func randomScores() domain.ScoreUpdate {
	score := func() *int { return domain.IntPtr(2 + rand.IntN(4)) }
	return domain.ScoreUpdate{
		Acidity:   score(),
		Sweetness: score(),
		Body:      score(),
		Clarity:   score(),
		Finish:    score(),
		Enjoyment: score(),
	}
}

func randomFlavors(catalog *flavor.Catalog) []domain.SelectedFlavor {
	all := catalog.All()
	picked := make(map[int]bool)
	target := 1 + rand.IntN(3)
	flavors := make([]domain.SelectedFlavor, 0, target)
	for len(flavors) < target {
		f := all[rand.IntN(len(all))]
		if picked[f.ID] {
			continue
		}
		picked[f.ID] = true
		flavors = append(flavors, domain.SelectedFlavor{
			FlavorID:  f.ID,
			Intensity: 1 + rand.IntN(5),
			Dominant:  len(flavors) == 0,
		})
	}
	return flavors
}
