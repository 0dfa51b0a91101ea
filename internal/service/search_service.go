package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"parkspot/internal/apperrors"
	"parkspot/internal/db"
	"parkspot/internal/entities"
	"parkspot/internal/geo"
	"parkspot/internal/repository"
)

const (
	minRadiusKm = 0.1
	maxRadiusKm = 50.0
)

// SearchService answers "which spaces have a free slot of type T in window W"
// queries: bounding-box pre-filter in SQL, haversine for the precise cut,
// one free-slot probe per surviving space.
type SearchService struct {
	Spaces   *repository.SpaceRepository
	Bookings *repository.BookingRepository
}

func NewSearchService(spaces *repository.SpaceRepository, bookings *repository.BookingRepository) *SearchService {
	return &SearchService{Spaces: spaces, Bookings: bookings}
}

func validateSearchParams(p *entities.SearchParams) error {
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return apperrors.Validation("latitude and longitude must be provided together")
	}
	if p.Latitude != nil {
		if p.RadiusKm < minRadiusKm || p.RadiusKm > maxRadiusKm {
			return apperrors.Validation(fmt.Sprintf("radius must be between %g and %g km", minRadiusKm, maxRadiusKm))
		}
	}
	if (p.StartTime == nil) != (p.EndTime == nil) {
		return apperrors.Validation("start_time and end_time must be provided together")
	}
	if p.StartTime != nil && !p.EndTime.After(*p.StartTime) {
		return apperrors.Validation("end time must be after start time")
	}
	if p.SlotType != "" && !db.ValidSlotType(p.SlotType) {
		return apperrors.Validation(fmt.Sprintf("unknown slot type %q", p.SlotType))
	}
	return nil
}

// Search returns matching spaces ordered by distance ascending then id, or
// by id when no point is given.
func (s *SearchService) Search(params *entities.SearchParams) ([]entities.SpaceResponse, error) {
	if err := validateSearchParams(params); err != nil {
		return nil, err
	}

	var box *geo.BoundingBox
	if params.Latitude != nil {
		b := geo.BoxAround(*params.Latitude, *params.Longitude, params.RadiusKm)
		box = &b
	}

	candidates, err := s.Spaces.SearchCandidates(box, params.MaxHourlyRate, params.Amenities)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		space    db.ParkingSpace
		distance float64
	}
	var results []ranked
	for _, space := range candidates {
		r := ranked{space: space, distance: -1}
		if params.Latitude != nil {
			lat, _ := space.Latitude.Float64()
			lng, _ := space.Longitude.Float64()
			r.distance = geo.DistanceKm(*params.Latitude, *params.Longitude, lat, lng)
			if r.distance > params.RadiusKm {
				continue
			}
		}
		if params.StartTime != nil {
			free, err := s.Bookings.SpaceHasFreeSlot(space.ID, params.SlotType, *params.StartTime, *params.EndTime)
			if err != nil {
				return nil, err
			}
			if !free {
				continue
			}
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if params.Latitude != nil && results[i].distance != results[j].distance {
			return results[i].distance < results[j].distance
		}
		return results[i].space.ID < results[j].space.ID
	})

	responses := make([]entities.SpaceResponse, 0, len(results))
	for _, r := range results {
		resp, err := s.toResponse(&r.space)
		if err != nil {
			return nil, err
		}
		if r.distance >= 0 {
			d := r.distance
			resp.DistanceKm = &d
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// MapMarkers returns active spaces inside a "south,west,north,east" viewport
// with their slot counts.
func (s *SearchService) MapMarkers(bounds string) ([]entities.MapMarker, error) {
	parts := strings.Split(bounds, ",")
	if len(parts) != 4 {
		return nil, apperrors.Validation("bounds must be south,west,north,east")
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, apperrors.Validation("bounds must be four numbers")
		}
		coords[i] = v
	}

	spaces, err := s.Spaces.ListInBounds(coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		return nil, err
	}

	markers := make([]entities.MapMarker, 0, len(spaces))
	for _, space := range spaces {
		total, available, err := s.Spaces.SlotCounts(space.ID)
		if err != nil {
			return nil, err
		}
		lat, _ := space.Latitude.Float64()
		lng, _ := space.Longitude.Float64()
		markers = append(markers, entities.MapMarker{
			ID:             space.ID,
			Name:           space.Name,
			Latitude:       lat,
			Longitude:      lng,
			HourlyRate:     space.HourlyRate,
			AvailableSlots: available,
			TotalSlots:     total,
			Address:        space.Address,
		})
	}
	return markers, nil
}

func (s *SearchService) toResponse(space *db.ParkingSpace) (*entities.SpaceResponse, error) {
	total, available, err := s.Spaces.SlotCounts(space.ID)
	if err != nil {
		return nil, err
	}
	return &entities.SpaceResponse{
		ID:                  space.ID,
		OwnerID:             space.OwnerID,
		Name:                space.Name,
		Description:         space.Description,
		Address:             space.Address,
		Latitude:            space.Latitude,
		Longitude:           space.Longitude,
		HourlyRate:          space.HourlyRate,
		DailyRate:           space.DailyRate,
		HasSecurity:         space.HasSecurity,
		HasCoveredParking:   space.HasCoveredParking,
		HasEVCharging:       space.HasEVCharging,
		HasDisabilityAccess: space.HasDisabilityAccess,
		IsActive:            space.IsActive,
		TotalSlots:          total,
		AvailableSlots:      available,
		CreatedAt:           space.CreatedAt,
		UpdatedAt:           space.UpdatedAt,
	}, nil
}
