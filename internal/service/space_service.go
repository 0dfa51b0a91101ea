package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"parkspot/internal/apperrors"
	"parkspot/internal/auth"
	"parkspot/internal/db"
	"parkspot/internal/entities"
	"parkspot/internal/repository"
)

type SpaceService struct {
	Spaces *repository.SpaceRepository
	Slots  *repository.SlotRepository
}

func NewSpaceService(spaces *repository.SpaceRepository, slots *repository.SlotRepository) *SpaceService {
	return &SpaceService{Spaces: spaces, Slots: slots}
}

var (
	latMin = decimal.NewFromInt(-90)
	latMax = decimal.NewFromInt(90)
	lngMin = decimal.NewFromInt(-180)
	lngMax = decimal.NewFromInt(180)
)

func validateSpaceRequest(req *entities.SpaceRequest) error {
	if req.Name == "" {
		return apperrors.Validation("name is required")
	}
	if req.Address == "" {
		return apperrors.Validation("address is required")
	}
	if req.Latitude.LessThan(latMin) || req.Latitude.GreaterThan(latMax) {
		return apperrors.Validation("latitude must be between -90 and 90")
	}
	if req.Longitude.LessThan(lngMin) || req.Longitude.GreaterThan(lngMax) {
		return apperrors.Validation("longitude must be between -180 and 180")
	}
	if !req.HourlyRate.IsPositive() {
		return apperrors.Validation("hourly rate must be positive")
	}
	if req.DailyRate.Valid && !req.DailyRate.Decimal.IsPositive() {
		return apperrors.Validation("daily rate must be positive")
	}
	return nil
}

// Create lists a new space owned by the caller.
func (s *SpaceService) Create(caller *auth.Identity, req *entities.SpaceRequest) (*entities.SpaceResponse, error) {
	if err := validateSpaceRequest(req); err != nil {
		return nil, err
	}
	space := &db.ParkingSpace{
		OwnerID:             caller.UserID,
		Name:                req.Name,
		Description:         req.Description,
		Address:             req.Address,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		HourlyRate:          req.HourlyRate,
		DailyRate:           req.DailyRate,
		HasSecurity:         req.HasSecurity,
		HasCoveredParking:   req.HasCoveredParking,
		HasEVCharging:       req.HasEVCharging,
		HasDisabilityAccess: req.HasDisabilityAccess,
		IsActive:            true,
	}
	if req.IsActive != nil {
		space.IsActive = *req.IsActive
	}
	if err := s.Spaces.Create(space); err != nil {
		return nil, fmt.Errorf("error creating parking space: %w", err)
	}
	return s.toResponse(space, false)
}

// Update mutates a space. Only the owning user or an admin may write.
func (s *SpaceService) Update(id int, caller *auth.Identity, req *entities.SpaceRequest) (*entities.SpaceResponse, error) {
	space, err := s.Spaces.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !caller.CanMutate(space.OwnerID) {
		return nil, apperrors.Forbidden("only the owner may modify this space")
	}
	if err := validateSpaceRequest(req); err != nil {
		return nil, err
	}
	space.Name = req.Name
	space.Description = req.Description
	space.Address = req.Address
	space.Latitude = req.Latitude
	space.Longitude = req.Longitude
	space.HourlyRate = req.HourlyRate
	space.DailyRate = req.DailyRate
	space.HasSecurity = req.HasSecurity
	space.HasCoveredParking = req.HasCoveredParking
	space.HasEVCharging = req.HasEVCharging
	space.HasDisabilityAccess = req.HasDisabilityAccess
	if req.IsActive != nil {
		space.IsActive = *req.IsActive
	}
	if err := s.Spaces.Update(space); err != nil {
		return nil, err
	}
	return s.toResponse(space, false)
}

// Get returns a space with its slots.
func (s *SpaceService) Get(id int) (*entities.SpaceResponse, error) {
	space, err := s.Spaces.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(space, true)
}

// List returns all active spaces.
func (s *SpaceService) List() ([]entities.SpaceResponse, error) {
	spaces, err := s.Spaces.ListActive()
	if err != nil {
		return nil, err
	}
	return s.toResponses(spaces)
}

// ListMine returns the caller's spaces, active or not.
func (s *SpaceService) ListMine(caller *auth.Identity) ([]entities.SpaceResponse, error) {
	spaces, err := s.Spaces.ListByOwner(caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(spaces)
}

// AddSlots appends numbered slots to a space. Duplicate numbers within the
// space are rejected as a whole batch.
func (s *SpaceService) AddSlots(spaceID int, caller *auth.Identity, req *entities.AddSlotsRequest) ([]entities.SlotResponse, error) {
	space, err := s.Spaces.GetByID(spaceID)
	if err != nil {
		return nil, err
	}
	if !caller.CanMutate(space.OwnerID) {
		return nil, apperrors.Forbidden("only the owner may add slots to this space")
	}
	if len(req.Slots) == 0 {
		return nil, apperrors.Validation("at least one slot is required")
	}

	slots := make([]db.ParkingSlot, 0, len(req.Slots))
	for _, sr := range req.Slots {
		if sr.SlotNumber == "" {
			return nil, apperrors.Validation("slot number is required")
		}
		slotType := sr.SlotType
		if slotType == "" {
			slotType = db.SlotStandard
		}
		if !db.ValidSlotType(slotType) {
			return nil, apperrors.Validation(fmt.Sprintf("unknown slot type %q", slotType))
		}
		available := true
		if sr.IsAvailable != nil {
			available = *sr.IsAvailable
		}
		slots = append(slots, db.ParkingSlot{
			SlotNumber:  sr.SlotNumber,
			SlotType:    slotType,
			IsAvailable: available,
			Notes:       sr.Notes,
		})
	}

	created, err := s.Slots.CreateBatch(spaceID, slots)
	if err != nil {
		return nil, err
	}
	responses := make([]entities.SlotResponse, 0, len(created))
	for _, slot := range created {
		responses = append(responses, toSlotResponse(&slot))
	}
	return responses, nil
}

func toSlotResponse(slot *db.ParkingSlot) entities.SlotResponse {
	return entities.SlotResponse{
		ID:          slot.ID,
		SlotNumber:  slot.SlotNumber,
		SlotType:    slot.SlotType,
		IsAvailable: slot.IsAvailable,
		IsReserved:  slot.IsReserved,
		Notes:       slot.Notes,
	}
}

func (s *SpaceService) toResponse(space *db.ParkingSpace, withSlots bool) (*entities.SpaceResponse, error) {
	total, available, err := s.Spaces.SlotCounts(space.ID)
	if err != nil {
		return nil, err
	}
	resp := &entities.SpaceResponse{
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
	}
	if withSlots {
		slots, err := s.Slots.ListBySpace(space.ID)
		if err != nil {
			return nil, err
		}
		for i := range slots {
			resp.Slots = append(resp.Slots, toSlotResponse(&slots[i]))
		}
	}
	return resp, nil
}

func (s *SpaceService) toResponses(spaces []db.ParkingSpace) ([]entities.SpaceResponse, error) {
	responses := make([]entities.SpaceResponse, 0, len(spaces))
	for i := range spaces {
		resp, err := s.toResponse(&spaces[i], false)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}
