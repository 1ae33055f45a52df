package registry

import (
	"context"
	"time"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// RetrySource retries transient registry fetch failures before giving up.
// The orchestrator treats a final error as "no properties", so retries here
// just reduce spurious empty passes.
type RetrySource struct {
	Inner    Source
	Attempts int
	Backoff  time.Duration
}

func (r *RetrySource) GetThing(ctx context.Context, deviceID string) (*domain.Thing, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		th, err := r.Inner.GetThing(ctx, deviceID)
		if err == nil {
			return th, nil
		}
		lastErr = err
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.Backoff):
			}
		}
	}
	return nil, lastErr
}
