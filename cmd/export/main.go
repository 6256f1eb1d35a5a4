package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"schedule-backend/internal/database"
	"schedule-backend/internal/export"
	"schedule-backend/internal/service"
)

func main() {
	name := flag.String("name", "", "saved schedule name")
	format := flag.String("format", "ics", "png, ics or xlsx")
	out := flag.String("out", "", "output file (default <name>.<format>)")
	weeks := flag.Int("weeks", export.DefaultICSWeeks, "ICS recurrence count")
	from := flag.String("from", "", "ICS first week, YYYY-MM-DD")
	tz := flag.String("tz", "UTC", "ICS time zone")
	list := flag.Bool("list", false, "list saved schedules and exit")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	db, err := database.ConnectDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	fmt.Println("✅ Connected to database")
	ctx := context.Background()
	schedules := service.NewScheduleService(db)

	if *list {
		printSchedules(ctx, schedules)
		return
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	if *name == "" {
		log.Fatal("-name is required (use -list to see saved schedules)")
	}

	schedule, err := schedules.GetByName(ctx, *name)
	if err != nil {
		log.Fatal(err)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		log.Fatalf("Invalid time zone %q: %v", *tz, err)
	}
	opts := export.Options{Name: schedule.Name, Weeks: *weeks, Location: loc}
	if *from != "" {
		first, err := time.ParseInLocation("2006-01-02", *from, loc)
		if err != nil {
			log.Fatalf("Invalid -from %q: %v", *from, err)
		}
		opts.FirstWeek = first
	}

	path := *out
	if path == "" {
		path = schedule.Name + "." + string(f)
	}
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := export.Write(w, f, schedule.Nodes.Data(), schedule.Settings.Data(), opts); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}

	fmt.Printf("📦 %s → %s\n", schedule.Name, path)
}

func printSchedules(ctx context.Context, schedules *service.ScheduleService) {
	list, err := schedules.List(ctx)
	if err != nil {
		log.Fatal("Failed to list schedules:", err)
	}
	fmt.Printf("%-36s  %-30s  %5s  %s\n", "ID", "NAME", "NODES", "UPDATED")
	for _, s := range list {
		fmt.Printf("%-36s  %-30s  %5d  %s\n", s.ID, s.Name, len(s.Nodes.Data()), s.UpdatedAt.Format(time.RFC3339))
	}
}
