package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertEvent records one notification attempt for the history view.
// One row per attempt, successful or not.
type AlertEvent struct {
	ID         uuid.UUID `json:"id"`
	DeviceID   DeviceID  `json:"device_id"`
	PropertyID string    `json:"property_id"`
	Value      string    `json:"value"`
	Recipients int       `json:"recipients"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}
