package repo

import (
	"context"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later. Method names are unique
// across ports so one store type can satisfy all of them.

// DeviceStore holds the devices the scheduler watches.
type DeviceStore interface {
	AddDevice(ctx context.Context, d *domain.Device) error
	ListDevices(ctx context.Context) ([]domain.Device, error)
	// GetDevice returns nil, nil when the device is not registered.
	GetDevice(ctx context.Context, id domain.DeviceID) (*domain.Device, error)
}

// ThresholdStore holds per-property threshold ranges.
type ThresholdStore interface {
	// GetThreshold returns nil, nil when no threshold is configured; callers
	// fall back to the evaluator's type defaults.
	GetThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string) (*domain.ThresholdRange, error)
	SetThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string, r domain.ThresholdRange) error
	DeleteThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string) error
}

// SMSConfigStore holds the single notification configuration row.
type SMSConfigStore interface {
	// GetSMSConfig returns nil, nil when nothing has been configured yet.
	GetSMSConfig(ctx context.Context) (*domain.SMSConfig, error)
	SaveSMSConfig(ctx context.Context, cfg domain.SMSConfig) error
}

// HistoryStore records notification attempts for the history view.
type HistoryStore interface {
	AppendEvent(ctx context.Context, ev *domain.AlertEvent) error
	RecentEvents(ctx context.Context, limit int) ([]domain.AlertEvent, error)
}
