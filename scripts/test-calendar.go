package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/troop-events/internal/calendar"
	"github.com/pfrederiksen/troop-events/internal/catalog"
	"github.com/pfrederiksen/troop-events/internal/sheet"
)

// Usage: go run ./scripts/test-calendar.go signups.csv
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: test-calendar SHEET_FILE")
		os.Exit(1)
	}

	payload, err := sheet.LoadFile(os.Args[1], "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sheet: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	c := catalog.Build(payload, now)

	// Generate .ics file
	icsContent := calendar.GenerateICS(c.Events(), "Troop Events (test)", now)

	// Write to file (owner read/write only for security)
	filename := "test-troop-events.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s (%d future, %d past events)\n\n", filename, len(c.Future), len(c.Past))
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
