package entities

import "time"

type AvailabilityResponse struct {
	SlotID     int       `json:"slot_id"`
	SlotNumber string    `json:"slot_number"`
	Available  bool      `json:"available"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}
