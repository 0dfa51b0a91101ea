package service

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"parkspot/internal/apperrors"
	"parkspot/internal/auth"
	"parkspot/internal/db"
	"parkspot/internal/entities"
	"parkspot/internal/pricing"
	"parkspot/internal/repository"
)

// BookingService owns the booking lifecycle. Every check-then-write on a
// slot's bookings runs inside one transaction holding that slot's advisory
// lock, so two concurrent attempts on the same slot serialize; bookings on
// different slots proceed in parallel.
type BookingService struct {
	Bookings *repository.BookingRepository
	Slots    *repository.SlotRepository
	Spaces   *repository.SpaceRepository
	Gateway  PaymentGateway
	Clock    Clock

	// CheckInGrace is how early before start_time a check-in is accepted.
	CheckInGrace time.Duration
	Currency     string
}

func NewBookingService(
	bookings *repository.BookingRepository,
	slots *repository.SlotRepository,
	spaces *repository.SpaceRepository,
	gateway PaymentGateway,
	clock Clock,
	checkInGrace time.Duration,
	currency string,
) *BookingService {
	return &BookingService{
		Bookings:     bookings,
		Slots:        slots,
		Spaces:       spaces,
		Gateway:      gateway,
		Clock:        clock,
		CheckInGrace: checkInGrace,
		Currency:     currency,
	}
}

// newBookingReference returns an 8-character uppercase hex reference.
func newBookingReference() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Create validates the window, snapshots pricing from the space's current
// rate, and inserts a pending booking. The availability check and the insert
// share one transaction under the slot's advisory lock.
func (s *BookingService) Create(userID int, req *entities.BookingRequest) (*entities.BookingResponse, error) {
	now := s.Clock.Now()
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.Validation("end time must be after start time")
	}
	if req.StartTime.Before(now) {
		return nil, apperrors.Validation("start time cannot be in the past")
	}

	slot, err := s.Slots.GetByID(req.ParkingSlotID)
	if err != nil {
		return nil, err
	}
	if !slot.IsAvailable {
		return nil, apperrors.SlotUnavailable("parking slot is not available")
	}
	space, err := s.Spaces.GetByID(slot.ParkingSpaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsActive {
		return nil, apperrors.SlotUnavailable("parking space is not active")
	}

	total, err := pricing.Quote(space.HourlyRate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = "car"
	}
	booking := &db.Booking{
		UserID:              userID,
		ParkingSlotID:       slot.ID,
		VehicleNumber:       req.VehicleNumber,
		VehicleType:         vehicleType,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		HourlyRate:          space.HourlyRate,
		TotalAmount:         total,
		PaidAmount:          decimal.Zero,
		Status:              db.StatusPending,
		BookingReference:    newBookingReference(),
		SpecialInstructions: req.SpecialInstructions,
	}

	tx, err := s.Bookings.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.Bookings.LockSlot(tx, slot.ID); err != nil {
		return nil, err
	}
	overlaps, err := s.Bookings.HasOverlap(tx, slot.ID, req.StartTime, req.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, apperrors.SlotUnavailable("parking slot is already booked for the selected time period")
	}
	if err := s.Bookings.Insert(tx, booking); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "could not commit booking", err)
	}

	return s.toResponse(&repository.BookingDetail{
		Booking:      *booking,
		SlotNumber:   slot.SlotNumber,
		SpaceID:      space.ID,
		SpaceName:    space.Name,
		SpaceOwnerID: space.OwnerID,
	}), nil
}

// Pay creates a payment-gateway order for a pending booking.
func (s *BookingService) Pay(reference string, caller *auth.Identity, req *entities.PayRequest) (*entities.PayResponse, error) {
	detail, err := s.Bookings.GetByReference(s.Bookings.DB, reference)
	if err != nil {
		return nil, err
	}
	if detail.UserID != caller.UserID && caller.Role != db.RoleAdmin {
		return nil, apperrors.Forbidden("not your booking")
	}
	if detail.Status != db.StatusPending {
		return nil, apperrors.Validation("only pending bookings can be paid")
	}

	amountMinor := detail.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()
	orderID, err := s.Gateway.CreateOrder(amountMinor, s.Currency, req.PreferredMethod)
	if err != nil {
		// Gateway failures leave the booking pending; the caller retries.
		return nil, apperrors.Wrap(apperrors.KindInternal, "payment gateway error", err)
	}
	return &entities.PayResponse{
		BookingReference: detail.BookingReference,
		OrderID:          orderID,
		AmountMinor:      amountMinor,
		Currency:         s.Currency,
	}, nil
}

// Confirm moves a pending booking to confirmed after verifying the payment
// signature. The overlap check reruns under the slot lock: losing the race
// to a concurrent confirmation returns an overlap conflict and leaves the
// booking pending.
func (s *BookingService) Confirm(reference string, caller *auth.Identity, req *entities.ConfirmRequest) (*entities.BookingResponse, error) {
	tx, err := s.Bookings.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	detail, err := s.Bookings.GetByReferenceForUpdate(tx, reference)
	if err != nil {
		return nil, err
	}
	if detail.UserID != caller.UserID && caller.Role != db.RoleAdmin {
		return nil, apperrors.Forbidden("not your booking")
	}
	if detail.Status != db.StatusPending {
		return nil, apperrors.Validation("only pending bookings can be confirmed")
	}
	if !s.Gateway.VerifySignature(req.PaymentID, req.OrderID, req.Signature) {
		// Failed verification is not a denial: the booking stays pending.
		return nil, apperrors.Validation("payment verification failed; booking remains pending")
	}

	if err := s.Bookings.LockSlot(tx, detail.ParkingSlotID); err != nil {
		return nil, err
	}
	overlaps, err := s.Bookings.HasOverlap(tx, detail.ParkingSlotID, detail.StartTime, detail.EndTime, detail.ID)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, apperrors.OverlapConflict("a conflicting booking was confirmed first; pick another slot or time")
	}

	detail.Status = db.StatusConfirmed
	detail.PaidAmount = detail.TotalAmount
	if err := s.Bookings.UpdateState(tx, &detail.Booking); err != nil {
		return nil, err
	}
	if err := s.Slots.RefreshReservedHint(tx, detail.ParkingSlotID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "could not commit confirmation", err)
	}
	return s.toResponse(detail), nil
}

// CheckIn moves a confirmed booking to active, recording the actual start
// time. Accepted from CheckInGrace before start_time onward.
func (s *BookingService) CheckIn(reference string, caller *auth.Identity) (*entities.BookingResponse, error) {
	now := s.Clock.Now()

	tx, err := s.Bookings.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	detail, err := s.Bookings.GetByReferenceForUpdate(tx, reference)
	if err != nil {
		return nil, err
	}
	if !s.canManage(detail, caller) {
		return nil, apperrors.Forbidden("not your booking")
	}
	if db.IsTerminalStatus(detail.Status) {
		return nil, apperrors.Validation("booking is in a terminal state")
	}
	if detail.Status != db.StatusConfirmed {
		return nil, apperrors.Validation("only confirmed bookings can be checked in")
	}
	if now.Before(detail.StartTime.Add(-s.CheckInGrace)) {
		return nil, apperrors.Validation("too early to check in")
	}

	// A transition into active re-validates availability like any other
	// write that blocks the slot.
	if err := s.Bookings.LockSlot(tx, detail.ParkingSlotID); err != nil {
		return nil, err
	}
	overlaps, err := s.Bookings.HasOverlap(tx, detail.ParkingSlotID, detail.StartTime, detail.EndTime, detail.ID)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, apperrors.OverlapConflict("a conflicting booking holds this slot")
	}

	detail.Status = db.StatusActive
	detail.ActualStartTime = sql.NullTime{Time: now, Valid: true}
	if err := s.Bookings.UpdateState(tx, &detail.Booking); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "could not commit check-in", err)
	}
	return s.toResponse(detail), nil
}

// CheckOut completes an active booking, recording the actual end time.
func (s *BookingService) CheckOut(reference string, caller *auth.Identity) (*entities.BookingResponse, error) {
	now := s.Clock.Now()

	tx, err := s.Bookings.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	detail, err := s.Bookings.GetByReferenceForUpdate(tx, reference)
	if err != nil {
		return nil, err
	}
	if !s.canManage(detail, caller) {
		return nil, apperrors.Forbidden("not your booking")
	}
	if db.IsTerminalStatus(detail.Status) {
		return nil, apperrors.Validation("booking is in a terminal state")
	}
	if detail.Status != db.StatusActive {
		return nil, apperrors.Validation("only active bookings can be checked out")
	}

	detail.Status = db.StatusCompleted
	detail.ActualEndTime = sql.NullTime{Time: now, Valid: true}
	if err := s.Bookings.UpdateState(tx, &detail.Booking); err != nil {
		return nil, err
	}
	if err := s.Slots.RefreshReservedHint(tx, detail.ParkingSlotID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "could not commit check-out", err)
	}
	return s.toResponse(detail), nil
}

// Cancel moves a pending or confirmed booking to cancelled. Bookings are
// never deleted; cancellation is a status transition. Cancelling an
// already-cancelled booking is a validation error, not a silent success.
func (s *BookingService) Cancel(reference string, caller *auth.Identity) (*entities.BookingResponse, error) {
	tx, err := s.Bookings.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	detail, err := s.Bookings.GetByReferenceForUpdate(tx, reference)
	if err != nil {
		return nil, err
	}
	if !s.canManage(detail, caller) {
		return nil, apperrors.Forbidden("not your booking")
	}
	if detail.Status == db.StatusCancelled {
		return nil, apperrors.Validation("booking is already cancelled")
	}
	if db.IsTerminalStatus(detail.Status) {
		return nil, apperrors.Validation("booking is in a terminal state")
	}
	if detail.ActualStartTime.Valid {
		return nil, apperrors.Validation("booking cannot be cancelled after check-in")
	}

	detail.Status = db.StatusCancelled
	if err := s.Bookings.UpdateState(tx, &detail.Booking); err != nil {
		return nil, err
	}
	if err := s.Slots.RefreshReservedHint(tx, detail.ParkingSlotID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "could not commit cancellation", err)
	}
	log.Printf("Booking %s cancelled by user %d", reference, caller.UserID)
	return s.toResponse(detail), nil
}

// Get returns a booking to its renter, the slot's space owner, or an admin.
func (s *BookingService) Get(reference string, caller *auth.Identity) (*entities.BookingResponse, error) {
	detail, err := s.Bookings.GetByReference(s.Bookings.DB, reference)
	if err != nil {
		return nil, err
	}
	if !s.canManage(detail, caller) {
		return nil, apperrors.Forbidden("not your booking")
	}
	return s.toResponse(detail), nil
}

// ListForRenter returns the caller's own bookings.
func (s *BookingService) ListForRenter(userID int) ([]entities.BookingResponse, error) {
	details, err := s.Bookings.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(details), nil
}

// ListForOwner returns bookings on every space the caller owns.
func (s *BookingService) ListForOwner(ownerID int) ([]entities.BookingResponse, error) {
	details, err := s.Bookings.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(details), nil
}

// SlotAvailability answers whether a slot is free for a window. The cached
// is_reserved flag never participates: availability is always re-derived
// from bookings.
func (s *BookingService) SlotAvailability(slotID int, start, end time.Time) (*entities.AvailabilityResponse, error) {
	if !end.After(start) {
		return nil, apperrors.Validation("end time must be after start time")
	}
	slot, err := s.Slots.GetByID(slotID)
	if err != nil {
		return nil, err
	}
	available := false
	if slot.IsAvailable {
		overlaps, err := s.Bookings.HasOverlap(s.Bookings.DB, slotID, start, end, 0)
		if err != nil {
			return nil, err
		}
		available = !overlaps
	}
	return &entities.AvailabilityResponse{
		SlotID:     slot.ID,
		SlotNumber: slot.SlotNumber,
		Available:  available,
		StartTime:  start,
		EndTime:    end,
	}, nil
}

func (s *BookingService) canManage(d *repository.BookingDetail, caller *auth.Identity) bool {
	return d.UserID == caller.UserID || d.SpaceOwnerID == caller.UserID || caller.Role == db.RoleAdmin
}

func (s *BookingService) toResponse(d *repository.BookingDetail) *entities.BookingResponse {
	resp := &entities.BookingResponse{
		ID:                  d.ID,
		BookingReference:    d.BookingReference,
		UserID:              d.UserID,
		ParkingSlotID:       d.ParkingSlotID,
		SlotNumber:          d.SlotNumber,
		SpaceName:           d.SpaceName,
		VehicleNumber:       d.VehicleNumber,
		VehicleType:         d.VehicleType,
		StartTime:           d.StartTime,
		EndTime:             d.EndTime,
		HourlyRate:          d.HourlyRate,
		TotalAmount:         d.TotalAmount,
		PaidAmount:          d.PaidAmount,
		DurationHours:       pricing.DurationHours(d.StartTime, d.EndTime),
		Status:              d.Status,
		SpecialInstructions: d.SpecialInstructions,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
	if d.ActualStartTime.Valid {
		t := d.ActualStartTime.Time
		resp.ActualStartTime = &t
	}
	if d.ActualEndTime.Valid {
		t := d.ActualEndTime.Time
		resp.ActualEndTime = &t
	}
	return resp
}

func (s *BookingService) toResponses(details []repository.BookingDetail) []entities.BookingResponse {
	responses := make([]entities.BookingResponse, 0, len(details))
	for i := range details {
		responses = append(responses, *s.toResponse(&details[i]))
	}
	return responses
}
