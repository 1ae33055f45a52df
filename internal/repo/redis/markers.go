// Package redis backs the alert marker store with Redis so several
// orchestration processes (API instances, scheduled jobs) observe the same
// episode state.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
	"github.com/armaan-gp-school/ossf-scada/internal/repo"
)

const keyPrefix = "ossf-scada:alert-marker:"

var _ repo.MarkerStore = (*MarkerStore)(nil)

type MarkerStore struct {
	client *redis.Client
	logger *zap.Logger
}

func NewMarkerStore(client *redis.Client, logger *zap.Logger) *MarkerStore {
	return &MarkerStore{client: client, logger: logger}
}

func markerKey(deviceID domain.DeviceID, propertyID string) string {
	return keyPrefix + string(deviceID) + ":" + propertyID
}

func (s *MarkerStore) HasMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) (bool, error) {
	_, err := s.client.Get(ctx, markerKey(deviceID, propertyID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get marker: %w", err)
	}
	return true, nil
}

func (s *MarkerStore) SetMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	// value is the notification timestamp; no TTL, episodes end by ClearMarker
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.client.Set(ctx, markerKey(deviceID, propertyID), ts, 0).Err(); err != nil {
		return fmt.Errorf("set marker: %w", err)
	}
	s.logger.Debug("marker_set",
		zap.String("device_id", string(deviceID)),
		zap.String("property_id", propertyID),
	)
	return nil
}

func (s *MarkerStore) ClearMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	if err := s.client.Del(ctx, markerKey(deviceID, propertyID)).Err(); err != nil {
		return fmt.Errorf("clear marker: %w", err)
	}
	return nil
}
