package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// Store is the in-memory implementation of every repo port. Good enough for
// single-process deployments and tests; markers do not survive a restart.
type Store struct {
	mu         sync.RWMutex
	devices    map[domain.DeviceID]*domain.Device
	thresholds map[string]domain.ThresholdRange
	markers    map[string]time.Time
	smsConfig  *domain.SMSConfig
	history    []domain.AlertEvent
}

func New() *Store {
	return &Store{
		devices:    make(map[domain.DeviceID]*domain.Device),
		thresholds: make(map[string]domain.ThresholdRange),
		markers:    make(map[string]time.Time),
	}
}

func key(deviceID domain.DeviceID, propertyID string) string {
	return string(deviceID) + "/" + propertyID
}

// ---- DeviceStore ----

func (m *Store) AddDevice(ctx context.Context, d *domain.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.AddedAt.IsZero() {
		d.AddedAt = time.Now().UTC()
	}
	cp := *d
	m.devices[d.ID] = &cp
	return nil
}

func (m *Store) ListDevices(ctx context.Context) ([]domain.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Device, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, *d)
	}
	return out, nil
}

func (m *Store) GetDevice(ctx context.Context, id domain.DeviceID) (*domain.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

// ---- ThresholdStore ----

func (m *Store) GetThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string) (*domain.ThresholdRange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.thresholds[key(deviceID, propertyID)]
	if !ok {
		return nil, nil
	}
	cp := r
	return &cp, nil
}

func (m *Store) SetThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string, r domain.ThresholdRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds[key(deviceID, propertyID)] = r
	return nil
}

func (m *Store) DeleteThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.thresholds, key(deviceID, propertyID))
	return nil
}

// ---- MarkerStore ----

func (m *Store) HasMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.markers[key(deviceID, propertyID)]
	return ok, nil
}

func (m *Store) SetMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[key(deviceID, propertyID)] = time.Now().UTC()
	return nil
}

func (m *Store) ClearMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, key(deviceID, propertyID))
	return nil
}

// ---- SMSConfigStore ----

func (m *Store) GetSMSConfig(ctx context.Context) (*domain.SMSConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.smsConfig == nil {
		return nil, nil
	}
	cp := *m.smsConfig
	cp.Recipients = append([]domain.Recipient(nil), m.smsConfig.Recipients...)
	return &cp, nil
}

func (m *Store) SaveSMSConfig(ctx context.Context, cfg domain.SMSConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cfg
	cp.Recipients = append([]domain.Recipient(nil), cfg.Recipients...)
	m.smsConfig = &cp
	return nil
}

// ---- HistoryStore ----

func (m *Store) AppendEvent(ctx context.Context, ev *domain.AlertEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.SentAt.IsZero() {
		ev.SentAt = time.Now().UTC()
	}
	m.history = append(m.history, *ev)
	return nil
}

func (m *Store) RecentEvents(ctx context.Context, limit int) ([]domain.AlertEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]domain.AlertEvent, 0, limit)
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.history[i])
	}
	return out, nil
}
