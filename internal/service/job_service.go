package service

import (
	"log"
	"time"

	"parkspot/internal/repository"
)

// JobService runs the periodic booking sweeps: no-show detection and stale
// pending cleanup. Both are deterministic given the injected clock.
type JobService struct {
	Bookings *repository.BookingRepository
	Clock    Clock

	NoShowGrace time.Duration
	PendingTTL  time.Duration
}

func NewJobService(bookings *repository.BookingRepository, clock Clock, noShowGrace, pendingTTL time.Duration) *JobService {
	return &JobService{
		Bookings:    bookings,
		Clock:       clock,
		NoShowGrace: noShowGrace,
		PendingTTL:  pendingTTL,
	}
}

// SweepNoShows marks confirmed bookings never checked in and active bookings
// never checked out as no_show once end_time plus the grace window passes.
func (s *JobService) SweepNoShows() error {
	ids, err := s.Bookings.MarkNoShows(s.Clock.Now(), s.NoShowGrace)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		log.Printf("Sweep: marked %d bookings as no_show. IDs: %v", len(ids), ids)
	}
	return nil
}

// SweepStalePending cancels pending bookings that were never paid within the
// TTL. Cancellation, not deletion: the audit trail stays.
func (s *JobService) SweepStalePending() error {
	n, err := s.Bookings.CancelStalePending(s.Clock.Now().Add(-s.PendingTTL))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Sweep: cancelled %d stale pending bookings", n)
	}
	return nil
}
