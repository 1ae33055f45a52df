package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// A single configuration row (id = 1), mirroring the settings form. The app
// password column holds the vault envelope, never plaintext.

func (s *Store) GetSMSConfig(ctx context.Context) (*domain.SMSConfig, error) {
	const q = `
		SELECT sender_email, app_password_envelope, recipients, legacy_recipient, alert_message
		  FROM sms_config
		 WHERE id = 1
	`
	var (
		cfg            domain.SMSConfig
		recipientsJSON []byte
	)
	err := s.pool.QueryRow(ctx, q).Scan(
		&cfg.SenderEmail, &cfg.AppPasswordEnvelope, &recipientsJSON, &cfg.LegacyRecipient, &cfg.AlertMessage)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get sms config: %w", err)
	}
	if len(recipientsJSON) > 0 {
		if err := json.Unmarshal(recipientsJSON, &cfg.Recipients); err != nil {
			return nil, fmt.Errorf("decode recipients: %w", err)
		}
	}
	return &cfg, nil
}

func (s *Store) SaveSMSConfig(ctx context.Context, cfg domain.SMSConfig) error {
	recipientsJSON, err := json.Marshal(cfg.Recipients)
	if err != nil {
		return fmt.Errorf("encode recipients: %w", err)
	}
	const q = `
		INSERT INTO sms_config (id, sender_email, app_password_envelope, recipients, legacy_recipient, alert_message)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET sender_email = EXCLUDED.sender_email,
		              app_password_envelope = EXCLUDED.app_password_envelope,
		              recipients = EXCLUDED.recipients,
		              legacy_recipient = EXCLUDED.legacy_recipient,
		              alert_message = EXCLUDED.alert_message
	`
	if _, err := s.pool.Exec(ctx, q,
		cfg.SenderEmail, cfg.AppPasswordEnvelope, recipientsJSON, cfg.LegacyRecipient, cfg.AlertMessage); err != nil {
		return fmt.Errorf("save sms config: %w", err)
	}
	return nil
}
