// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Specs use six fields, seconds first.
//
// # Available Jobs
//
// 1. OfferCascadeJob - Every five seconds by default, drains the offer queue of expired exclusive
// offers and moves each mission to its next ranked courier, or opens it to all.
// 2. ReconciliationSweepJob - Every two minutes by default, releases missions that were
// accepted but not picked up within the stuck timeout, and advances exclusive
// offers that stayed overdue for a whole offer window.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(advanceOffer, releaseStuck, offers, clock, jobs.Schedules{}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A run never overlaps the previous one of the same job
// - Offers whose advance hit a retryable error go back on the queue one second later
// - Offers whose entry was lost anyway are picked up by the reconciliation sweep
// - Failed job starts will stop any already running jobs
package jobs
