package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
	"github.com/armaan-gp-school/ossf-scada/internal/repo/memory"
	"github.com/armaan-gp-school/ossf-scada/internal/vault"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestMailer(t *testing.T, cfg *domain.SMSConfig) (*SMSMailer, *[]sentMail) {
	t.Helper()
	store := memory.New()
	v := vault.New("test-key")
	if cfg != nil {
		if cfg.AppPasswordEnvelope == "" {
			env, err := v.Encrypt("app-password")
			if err != nil {
				t.Fatal(err)
			}
			cfg.AppPasswordEnvelope = env
		}
		if err := store.SaveSMSConfig(context.Background(), *cfg); err != nil {
			t.Fatal(err)
		}
	}
	m := NewSMSMailer(store, v, zap.NewNop(), "smtp.test.local", 587)
	var sent []sentMail
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return m, &sent
}

func TestSendAlert_NotConfigured(t *testing.T) {
	m, sent := newTestMailer(t, nil)
	res := m.SendAlert(context.Background(), "", SendOptions{})
	if res.Success {
		t.Fatal("want failure when unconfigured")
	}
	if !strings.Contains(res.Error, "not configured") {
		t.Fatalf("error = %q", res.Error)
	}
	if len(*sent) != 0 {
		t.Fatal("nothing should be sent")
	}
}

func TestSendAlert_MalformedEnvelopeFailsClosed(t *testing.T) {
	m, sent := newTestMailer(t, &domain.SMSConfig{
		SenderEmail:         "ops@example.com",
		AppPasswordEnvelope: "not-a-valid-envelope",
		Recipients:          []domain.Recipient{{PhoneNumber: "5550000000", Carrier: "T-Mobile"}},
	})
	res := m.SendAlert(context.Background(), "", SendOptions{})
	if res.Success || len(*sent) != 0 {
		t.Fatalf("malformed envelope must fail closed: %+v", res)
	}
}

func TestSendAlert_NoResolvableRecipients(t *testing.T) {
	m, sent := newTestMailer(t, &domain.SMSConfig{
		SenderEmail: "ops@example.com",
		Recipients:  []domain.Recipient{{PhoneNumber: "5550000000", Carrier: "Carrier Pigeon"}},
	})
	res := m.SendAlert(context.Background(), "", SendOptions{})
	if res.Success || len(*sent) != 0 {
		t.Fatalf("unresolvable recipients must fail closed: %+v", res)
	}
}

func TestSendAlert_TemplateSubstitution(t *testing.T) {
	m, sent := newTestMailer(t, &domain.SMSConfig{
		SenderEmail:  "ops@example.com",
		Recipients:   []domain.Recipient{{PhoneNumber: "555-000-0000", Carrier: "T-Mobile"}},
		AlertMessage: "Alert: {deviceName} - {propertyName} = {value}",
	})
	res := m.SendAlert(context.Background(), "", SendOptions{
		DeviceName:   "Pump house",
		PropertyName: "Voltage",
		Value:        4.0,
	})
	if !res.Success {
		t.Fatalf("send failed: %+v", res)
	}
	if len(*sent) != 1 {
		t.Fatalf("want 1 mail, got %d", len(*sent))
	}
	mail := (*sent)[0]
	if mail.addr != "smtp.test.local:587" || mail.from != "ops@example.com" {
		t.Fatalf("unexpected mail: %+v", mail)
	}
	if len(mail.to) != 1 || mail.to[0] != "5550000000@tmomail.net" {
		t.Fatalf("to = %v", mail.to)
	}
	if !strings.Contains(mail.msg, "Alert: Pump house - Voltage = 4") {
		t.Fatalf("body = %q", mail.msg)
	}
	if !strings.Contains(mail.msg, "Subject: Website Alert") {
		t.Fatalf("missing subject: %q", mail.msg)
	}
}

func TestSendAlert_PlaceholderFallbacks(t *testing.T) {
	m, sent := newTestMailer(t, &domain.SMSConfig{
		SenderEmail:  "ops@example.com",
		Recipients:   []domain.Recipient{{PhoneNumber: "5550000000", Carrier: "T-Mobile"}},
		AlertMessage: "{deviceName}/{propertyName}/{value}",
	})
	res := m.SendAlert(context.Background(), "", SendOptions{})
	if !res.Success {
		t.Fatalf("send failed: %+v", res)
	}
	if !strings.Contains((*sent)[0].msg, "Unknown device/Unknown property/") {
		t.Fatalf("body = %q", (*sent)[0].msg)
	}
}

func TestSendAlert_OverrideWins(t *testing.T) {
	m, sent := newTestMailer(t, &domain.SMSConfig{
		SenderEmail:  "ops@example.com",
		Recipients:   []domain.Recipient{{PhoneNumber: "5550000000", Carrier: "T-Mobile"}},
		AlertMessage: "template body",
	})
	res := m.SendAlert(context.Background(), "manual test message", SendOptions{})
	if !res.Success {
		t.Fatalf("send failed: %+v", res)
	}
	if !strings.Contains((*sent)[0].msg, "manual test message") || strings.Contains((*sent)[0].msg, "template body") {
		t.Fatalf("body = %q", (*sent)[0].msg)
	}
}

func TestSendAlert_LegacyRecipientFallback(t *testing.T) {
	m, sent := newTestMailer(t, &domain.SMSConfig{
		SenderEmail:     "ops@example.com",
		LegacyRecipient: "5053974974@tmomail.net",
	})
	res := m.SendAlert(context.Background(), "", SendOptions{DeviceName: "D", PropertyName: "P", Value: 1})
	if !res.Success {
		t.Fatalf("send failed: %+v", res)
	}
	if (*sent)[0].to[0] != "5053974974@tmomail.net" {
		t.Fatalf("to = %v", (*sent)[0].to)
	}
}

func TestSendAlert_StructuredListBeatsLegacy(t *testing.T) {
	m, sent := newTestMailer(t, &domain.SMSConfig{
		SenderEmail:     "ops@example.com",
		Recipients:      []domain.Recipient{{PhoneNumber: "5550000000", Carrier: "Verizon"}},
		LegacyRecipient: "5053974974@tmomail.net",
	})
	res := m.SendAlert(context.Background(), "", SendOptions{})
	if !res.Success {
		t.Fatalf("send failed: %+v", res)
	}
	if len((*sent)[0].to) != 1 || (*sent)[0].to[0] != "5550000000@vtext.com" {
		t.Fatalf("to = %v", (*sent)[0].to)
	}
}

func TestSendAlert_TransportErrorBecomesResult(t *testing.T) {
	m, _ := newTestMailer(t, &domain.SMSConfig{
		SenderEmail: "ops@example.com",
		Recipients:  []domain.Recipient{{PhoneNumber: "5550000000", Carrier: "T-Mobile"}},
	})
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("relay rejected")
	}
	res := m.SendAlert(context.Background(), "", SendOptions{})
	if res.Success || !strings.Contains(res.Error, "relay rejected") {
		t.Fatalf("want transport error result, got %+v", res)
	}
}

func TestMulti_ReportsFirstFailure(t *testing.T) {
	okN := notifierFunc(func(context.Context, string, SendOptions) Result { return Result{Success: true} })
	badN := notifierFunc(func(context.Context, string, SendOptions) Result { return Result{Success: false, Error: "x"} })

	if r := (Multi{okN, okN}).SendAlert(context.Background(), "", SendOptions{}); !r.Success {
		t.Fatalf("all ok should succeed: %+v", r)
	}
	if r := (Multi{okN, badN}).SendAlert(context.Background(), "", SendOptions{}); r.Success || r.Error != "x" {
		t.Fatalf("one failure should fail: %+v", r)
	}
}

type notifierFunc func(context.Context, string, SendOptions) Result

func (f notifierFunc) SendAlert(ctx context.Context, o string, opts SendOptions) Result {
	return f(ctx, o, opts)
}
