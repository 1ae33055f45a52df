package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
	"github.com/armaan-gp-school/ossf-scada/internal/gateway"
	"github.com/armaan-gp-school/ossf-scada/internal/repo"
	"github.com/armaan-gp-school/ossf-scada/internal/vault"
)

const notConfiguredMsg = "SMS not configured. Set sender, app password, and recipient in Settings."

// SMSMailer delivers alerts as SMS by mailing the carriers' SMS gateways
// through an authenticated SMTP submission (STARTTLS on the submission
// port). One message, addressed to every resolved recipient, one attempt;
// retry policy belongs to the caller.
type SMSMailer struct {
	Config   repo.SMSConfigStore
	Vault    *vault.Vault
	Logger   *zap.Logger
	SMTPHost string
	SMTPPort int

	// sendMail is swapped out in tests; defaults to smtp.SendMail, which
	// negotiates STARTTLS when the server offers it.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMSMailer(cfgStore repo.SMSConfigStore, v *vault.Vault, logger *zap.Logger, smtpHost string, smtpPort int) *SMSMailer {
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == 0 {
		smtpPort = 587
	}
	return &SMSMailer{
		Config:   cfgStore,
		Vault:    v,
		Logger:   logger,
		SMTPHost: smtpHost,
		SMTPPort: smtpPort,
		sendMail: smtp.SendMail,
	}
}

func (s *SMSMailer) SendAlert(ctx context.Context, messageOverride string, opts SendOptions) Result {
	cfg, err := s.Config.GetSMSConfig(ctx)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("load SMS config: %v", err)}
	}
	if cfg == nil || cfg.SenderEmail == "" || cfg.AppPasswordEnvelope == "" {
		return Result{Success: false, Error: notConfiguredMsg}
	}

	// Empty decryption means a malformed envelope or wrong key; either way
	// the password is unusable, so treat it as unconfigured.
	password := s.Vault.Decrypt(cfg.AppPasswordEnvelope)
	if password == "" {
		return Result{Success: false, Error: notConfiguredMsg}
	}

	to := resolveRecipients(cfg)
	if len(to) == 0 {
		return Result{Success: false, Error: notConfiguredMsg}
	}

	template := cfg.AlertMessage
	if template == "" {
		template = domain.DefaultAlertMessage
	}
	body := messageOverride
	if body == "" {
		body = formatMessage(template, opts)
	}

	addr := fmt.Sprintf("%s:%d", s.SMTPHost, s.SMTPPort)
	auth := smtp.PlainAuth("", cfg.SenderEmail, password, s.SMTPHost)
	msg := buildMessage(cfg.SenderEmail, to, "Website Alert", body)

	if err := s.sendMail(addr, auth, cfg.SenderEmail, to, msg); err != nil {
		s.Logger.Warn("notify_failed",
			zap.Int("recipients", len(to)),
			zap.Error(err),
		)
		return Result{Success: false, Error: err.Error(), Recipients: len(to)}
	}

	s.Logger.Info("notify_sent", zap.Int("recipients", len(to)))
	return Result{Success: true, Recipients: len(to)}
}

// resolveRecipients maps the structured recipient list through the carrier
// gateways, dropping anything unresolvable. The legacy single-recipient
// string is consulted only when the structured list yields nothing.
func resolveRecipients(cfg *domain.SMSConfig) []string {
	var out []string
	for _, r := range cfg.Recipients {
		if addr := gateway.ToGatewayEmail(r.PhoneNumber, r.Carrier); addr != "" {
			out = append(out, addr)
		}
	}
	if len(out) == 0 && cfg.LegacyRecipient != "" {
		if r := gateway.ParseLegacyRecipient(cfg.LegacyRecipient); r != nil {
			if addr := gateway.ToGatewayEmail(r.PhoneNumber, r.Carrier); addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}

// formatMessage substitutes the closed set of {deviceName}, {propertyName}
// and {value} placeholders. Missing names get explicit stand-ins so a
// half-filled alert still reads sensibly on a phone.
func formatMessage(template string, opts SendOptions) string {
	deviceName := opts.DeviceName
	if deviceName == "" {
		deviceName = "Unknown device"
	}
	propertyName := opts.PropertyName
	if propertyName == "" {
		propertyName = "Unknown property"
	}
	value := ""
	if opts.Value != nil {
		value = fmt.Sprintf("%v", opts.Value)
	}
	r := strings.NewReplacer(
		"{deviceName}", deviceName,
		"{propertyName}", propertyName,
		"{value}", value,
	)
	return r.Replace(template)
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
