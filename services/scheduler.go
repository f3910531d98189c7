package services

import (
	"log"
	"time"
)

// StartScheduler starts the task scheduler for periodic tasks
func StartScheduler() {
	log.Println("Starting task scheduler...")

	// Schedule the fatura backfill reconciliation to run daily at midnight
	go startBackfillScheduler()
}

// startBackfillScheduler runs the fatura transfer backfill on a daily
// schedule. The backfill is idempotent, so overlapping or repeated runs are
// harmless.
func startBackfillScheduler() {
	for {
		// Calculate time until midnight
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		timeUntilMidnight := midnight.Sub(now)

		log.Printf("Next reconciliation backfill scheduled in %v", timeUntilMidnight)

		// Sleep until midnight
		time.Sleep(timeUntilMidnight)

		log.Println("Running scheduled fatura backfill...")
		result, err := BackfillFaturaTransfers()
		if err != nil {
			log.Printf("Scheduled backfill failed: %v", err)
		} else if result.Created > 0 {
			log.Printf("Scheduled backfill created %d transfer(s)", result.Created)
		}

		// Small delay to ensure we don't run multiple times if execution is very quick
		time.Sleep(time.Second)
	}
}
