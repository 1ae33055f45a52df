package registry

import (
	"context"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// Source fetches a device document (with current property values) from the
// external device registry. Implementations must be safe for concurrent use.
type Source interface {
	GetThing(ctx context.Context, deviceID string) (*domain.Thing, error)
}
