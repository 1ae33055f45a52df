package repo

import (
	"context"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// MarkerStore tracks "already notified" markers, one per property currently
// in a notified alert episode. Presence of a marker means "do not re-notify
// for this ongoing alert"; absence means the next alert detection must
// attempt a notification. All three operations are idempotent, and
// SetMarker/ClearMarker must be atomic upserts/deletes so concurrent
// evaluation passes observe consistent state.
type MarkerStore interface {
	HasMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) (bool, error)
	SetMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error
	ClearMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error
}
