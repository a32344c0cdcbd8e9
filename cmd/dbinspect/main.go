// Package main provides a read-only inspector for a journal database.
//
// Usage:
//
//	DB_PATH=~/CupNotes/data/journal.db go run ./cmd/dbinspect
//	go run ./cmd/dbinspect -session session-abc123  # per-coffee averages
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	"github.com/cupnotes/cupnotes-server/internal/store/sqlite"
)

var sessionID = flag.String("session", "", "Also print coffee averages and cup totals for this session")

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/CupNotes/data/journal.db")
	}

	ctx := context.Background()
	s, err := sqlite.OpenReadOnly(ctx, dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	fmt.Println("=== Journal Inspection ===")
	fmt.Printf("Database: %s\n\n", dbPath)

	applied, err := sqlite.AppliedMigrations(ctx, s.DB())
	if err != nil {
		log.Fatalf("Failed to read migrations: %v", err)
	}
	fmt.Printf("Schema: %d of %d migrations applied\n", len(applied), sqlite.LatestVersion())
	for _, m := range applied {
		fmt.Printf("  v%d  %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()

	counts, err := s.TableCounts(ctx)
	if err != nil {
		log.Fatalf("Failed to count rows: %v", err)
	}
	fmt.Println("Rows:")
	for _, c := range counts {
		fmt.Printf("  %-18s %d\n", c.Table, c.Rows)
	}

	if *sessionID == "" {
		return
	}
	fmt.Println()
	if err := printSession(ctx, s, *sessionID); err != nil {
		log.Fatalf("Failed to inspect session: %v", err)
	}
}

func printSession(ctx context.Context, s *sqlite.Store, id string) error {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", id)
	}

	averages, err := s.CoffeeAverages(ctx, id)
	if err != nil {
		return err
	}
	byCoffee := make(map[string]domain.CoffeeAverages, len(averages))
	for _, a := range averages {
		byCoffee[a.CoffeeID] = a
	}

	fmt.Printf("Session %s (%s, %s)\n", session.ID, session.SessionType, session.Mode)
	for _, c := range session.Coffees {
		totals, err := s.CupTotals(ctx, c.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  %s  %q\n", c.ID, c.Name)
		fmt.Printf("    cups: %d  totals: %v  avg total: %.1f\n", len(c.Cups), totals, byCoffee[c.ID].AvgTotal)
		for _, attr := range domain.Attributes {
			fmt.Printf("    %-10s %.1f\n", attr, byCoffee[c.ID].Averages[attr])
		}
	}
	return nil
}
