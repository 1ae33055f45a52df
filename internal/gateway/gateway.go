// Package gateway maps phone numbers to carrier SMS-over-email addresses.
package gateway

import (
	"strings"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// carrierGateway is one carrier's public email-to-SMS gateway.
type carrierGateway struct {
	Name   string
	Domain string
}

// carriers lists the supported US carriers in display order.
var carriers = []carrierGateway{
	{"T-Mobile", "tmomail.net"},
	{"Verizon", "vtext.com"},
	{"AT&T", "txt.att.net"},
	{"Sprint", "messaging.sprintpcs.com"},
	{"Boost Mobile", "sms.myboostmobile.com"},
	{"Cricket", "sms.cricketwireless.net"},
	{"Metro PCS", "mymetropcs.com"},
	{"Google Fi", "msg.fi.google.com"},
	{"US Cellular", "email.uscc.net"},
}

// aliases maps tolerated spellings to canonical carrier names.
var aliases = map[string]string{
	"tmobile":  "T-Mobile",
	"att":      "AT&T",
	"boost":    "Boost Mobile",
	"metropcs": "Metro PCS",
}

func lookupDomain(carrier string) string {
	name := strings.TrimSpace(carrier)
	if canon, ok := aliases[normalizeKey(name)]; ok {
		name = canon
	}
	for _, c := range carriers {
		if strings.EqualFold(c.Name, name) {
			return c.Domain
		}
	}
	return ""
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "-", ""), " ", ""))
}

// ToGatewayEmail resolves a (phone number, carrier) pair to the carrier's
// SMS gateway address, or "" when the carrier is unknown or the number does
// not reduce to a plausible US number. Callers drop unresolvable recipients
// instead of failing the batch.
func ToGatewayEmail(phoneNumber, carrier string) string {
	dom := lookupDomain(carrier)
	if dom == "" {
		return ""
	}
	digits := NormalizePhone(phoneNumber)
	if digits == "" {
		return ""
	}
	return digits + "@" + dom
}

// NormalizePhone strips formatting down to bare digits. Accepts ten-digit
// numbers and eleven-digit numbers with a leading country code 1 (which is
// dropped); anything else is rejected with "".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return ""
	}
	return digits
}

// ParseLegacyRecipient splits the old single-recipient "number@domain" form
// back into a structured Recipient, matching the gateway domain to a carrier
// name. Returns nil when the string is unparseable or the domain is not a
// known gateway.
func ParseLegacyRecipient(raw string) *domain.Recipient {
	local, dom, ok := strings.Cut(strings.TrimSpace(raw), "@")
	if !ok {
		return nil
	}
	digits := NormalizePhone(local)
	if digits == "" {
		return nil
	}
	dom = strings.ToLower(dom)
	for _, c := range carriers {
		if c.Domain == dom {
			return &domain.Recipient{PhoneNumber: digits, Carrier: c.Name}
		}
	}
	return nil
}

// Carriers returns the supported carrier names for settings UIs.
func Carriers() []string {
	out := make([]string, len(carriers))
	for i, c := range carriers {
		out[i] = c.Name
	}
	return out
}
