package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

func (s *Store) AppendEvent(ctx context.Context, ev *domain.AlertEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.SentAt.IsZero() {
		ev.SentAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO alert_history (id, device_id, property_id, value, recipients, success, error, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.pool.Exec(ctx, q,
		ev.ID, string(ev.DeviceID), ev.PropertyID, ev.Value, ev.Recipients, ev.Success, ev.Error, ev.SentAt)
	if err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}
	return nil
}

func (s *Store) RecentEvents(ctx context.Context, limit int) ([]domain.AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, device_id, property_id, value, recipients, success, error, sent_at
		  FROM alert_history
		 ORDER BY sent_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	defer rows.Close()

	var out []domain.AlertEvent
	for rows.Next() {
		var ev domain.AlertEvent
		if err := rows.Scan(&ev.ID, &ev.DeviceID, &ev.PropertyID, &ev.Value,
			&ev.Recipients, &ev.Success, &ev.Error, &ev.SentAt); err != nil {
			return nil, fmt.Errorf("scan alert event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
