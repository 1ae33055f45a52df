package gateway

import "testing"

func TestToGatewayEmail(t *testing.T) {
	cases := []struct {
		phone, carrier, want string
	}{
		{"555-000-0000", "T-Mobile", "5550000000@tmomail.net"},
		{"(505) 397-4974", "t-mobile", "5053974974@tmomail.net"},
		{"15550000000", "Verizon", "5550000000@vtext.com"},
		{"5550000000", "tmobile", "5550000000@tmomail.net"}, // alias spelling
		{"5550000000", "AT&T", "5550000000@txt.att.net"},
		{"5550000000", "att", "5550000000@txt.att.net"},
		{"5550000000", "Carrier Pigeon", ""}, // unknown carrier
		{"12345", "T-Mobile", ""},            // too few digits
		{"555000000099", "T-Mobile", ""},     // too many digits
		{"", "T-Mobile", ""},
	}
	for _, c := range cases {
		if got := ToGatewayEmail(c.phone, c.carrier); got != c.want {
			t.Errorf("ToGatewayEmail(%q, %q) = %q, want %q", c.phone, c.carrier, got, c.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"555-000-0000", "5550000000"},
		{"+1 (555) 000-0000", "5550000000"},
		{"15550000000", "5550000000"},
		{"5550000000", "5550000000"},
		{"555", ""},
		{"25550000000", ""}, // 11 digits but not a US country code
		{"abc", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseLegacyRecipient(t *testing.T) {
	r := ParseLegacyRecipient("5053974974@tmomail.net")
	if r == nil {
		t.Fatal("expected parse")
	}
	if r.PhoneNumber != "5053974974" || r.Carrier != "T-Mobile" {
		t.Fatalf("unexpected parse: %+v", r)
	}

	if got := ParseLegacyRecipient("5053974974@vtext.com"); got == nil || got.Carrier != "Verizon" {
		t.Fatalf("verizon parse: %+v", got)
	}

	for _, bad := range []string{"", "no-at-sign", "abc@tmomail.net", "5053974974@gmail.com", "@tmomail.net"} {
		if got := ParseLegacyRecipient(bad); got != nil {
			t.Errorf("ParseLegacyRecipient(%q) = %+v, want nil", bad, got)
		}
	}
}

func TestCarriersListed(t *testing.T) {
	cs := Carriers()
	if len(cs) == 0 {
		t.Fatal("expected at least one carrier")
	}
	if cs[0] != "T-Mobile" {
		t.Fatalf("expected T-Mobile first, got %q", cs[0])
	}
}
