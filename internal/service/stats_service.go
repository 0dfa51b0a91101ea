package service

import (
	"math"
	"time"

	"parkspot/internal/apperrors"
	"parkspot/internal/auth"
	"parkspot/internal/entities"
	"parkspot/internal/repository"
)

// StatsService computes read-side rollups on demand. No caching, no side
// effects.
type StatsService struct {
	Stats  *repository.StatsRepository
	Spaces *repository.SpaceRepository
	Clock  Clock
}

func NewStatsService(stats *repository.StatsRepository, spaces *repository.SpaceRepository, clock Clock) *StatsService {
	return &StatsService{Stats: stats, Spaces: spaces, Clock: clock}
}

func dayBounds(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// SpaceStats returns booking and revenue rollups for one space. Only the
// owning user or an admin may read them.
func (s *StatsService) SpaceStats(spaceID int, caller *auth.Identity) (*entities.SpaceStats, error) {
	space, err := s.Spaces.GetByID(spaceID)
	if err != nil {
		return nil, err
	}
	if !caller.CanMutate(space.OwnerID) {
		return nil, apperrors.Forbidden("only the owner may view space statistics")
	}

	now := s.Clock.Now()
	dayStart, dayEnd := dayBounds(now)

	counts, err := s.Stats.SpaceBookingCounts(spaceID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Stats.SpaceRevenue(spaceID, monthStart(now))
	if err != nil {
		return nil, err
	}
	totalSlots, _, err := s.Spaces.SlotCounts(spaceID)
	if err != nil {
		return nil, err
	}

	return &entities.SpaceStats{
		TotalBookings:  counts.Total,
		ActiveBookings: counts.Active,
		TodayBookings:  counts.Today,
		TotalRevenue:   revenue.Total,
		MonthlyRevenue: revenue.Monthly,
		OccupancyRate:  occupancyRate(counts.Active, totalSlots),
	}, nil
}

// Dashboard aggregates across every space the caller owns.
func (s *StatsService) Dashboard(caller *auth.Identity) (*entities.DashboardStats, error) {
	now := s.Clock.Now()
	dayStart, dayEnd := dayBounds(now)

	spaces, slots, available, err := s.Stats.OwnerSlotCounts(caller.UserID)
	if err != nil {
		return nil, err
	}
	counts, err := s.Stats.OwnerBookingCounts(caller.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Stats.OwnerRevenue(caller.UserID, monthStart(now))
	if err != nil {
		return nil, err
	}

	return &entities.DashboardStats{
		TotalSpaces:    spaces,
		TotalSlots:     slots,
		AvailableSlots: available,
		ActiveBookings: counts.Active,
		TodayBookings:  counts.Today,
		TotalRevenue:   revenue.Total,
		MonthlyRevenue: revenue.Monthly,
	}, nil
}

// occupancyRate is active/total × 100 rounded to two decimals, zero when the
// space has no slots.
func occupancyRate(active, totalSlots int) float64 {
	if totalSlots == 0 {
		return 0
	}
	rate := float64(active) / float64(totalSlots) * 100
	return math.Round(rate*100) / 100
}
