package alert

import (
	"testing"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

func prop(typ string, val any) domain.Property {
	return domain.Property{ID: "p1", Type: typ, LastValue: val}
}

func TestFloatDefaults(t *testing.T) {
	cases := []struct {
		val  float64
		want bool
	}{
		{2.9, true},
		{3.0, false}, // boundary is normal
		{3.2, false},
		{3.5, false}, // boundary is normal
		{3.6, true},
		{4.0, true},
	}
	for _, c := range cases {
		if got := IsPropertyInAlert(prop("FLOAT", c.val), nil); got != c.want {
			t.Errorf("FLOAT %v: want %v got %v", c.val, c.want, got)
		}
	}
}

func TestIntDefaults(t *testing.T) {
	cases := []struct {
		val  float64
		want bool
	}{
		{0, true},
		{1, false},
		{2, false},
		{3, true},
	}
	for _, c := range cases {
		if got := IsPropertyInAlert(prop("INT", c.val), nil); got != c.want {
			t.Errorf("INT %v: want %v got %v", c.val, c.want, got)
		}
	}
}

func TestExplicitRange_StrictBoundaries(t *testing.T) {
	r := &domain.ThresholdRange{Min: 10, Max: 20}
	cases := []struct {
		val  float64
		want bool
	}{
		{9.99, true},
		{10, false},
		{15, false},
		{20, false},
		{20.01, true},
	}
	for _, c := range cases {
		if got := IsPropertyInAlert(prop("INT", c.val), r); got != c.want {
			t.Errorf("range [10,20] val %v: want %v got %v", c.val, c.want, got)
		}
	}
}

func TestTypeNormalization(t *testing.T) {
	if !IsPropertyInAlert(prop("float", 4.0), nil) {
		t.Fatal("lowercase float should still evaluate")
	}
	if !IsPropertyInAlert(prop("Int", 5.0), nil) {
		t.Fatal("mixed-case Int should still evaluate")
	}
}

func TestNonNumericTypesNeverAlert(t *testing.T) {
	for _, typ := range []string{"STATUS", "CHARSTRING", "BOOL", "", "other"} {
		if IsPropertyInAlert(prop(typ, 999.0), nil) {
			t.Errorf("type %q must never alert", typ)
		}
	}
}

func TestBadReadingsNeverAlert(t *testing.T) {
	for _, v := range []any{"abc", nil, "", map[string]any{"x": 1}, true} {
		if IsPropertyInAlert(prop("FLOAT", v), nil) {
			t.Errorf("value %#v must not alert", v)
		}
	}
}

func TestStringValuesAreCoerced(t *testing.T) {
	if !IsPropertyInAlert(prop("FLOAT", "4.2"), nil) {
		t.Fatal(`"4.2" should coerce and alert against FLOAT defaults`)
	}
	if IsPropertyInAlert(prop("FLOAT", "3.2"), nil) {
		t.Fatal(`"3.2" should coerce and be in range`)
	}
}
