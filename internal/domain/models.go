package domain

import "time"

type DeviceID string

// Device is a registered device the scheduler watches. The device itself
// (and its live property values) lives in the external registry; we only
// keep the ID and a display name.
type Device struct {
	ID      DeviceID  `json:"id"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// Thing is a device document as returned by the registry, with the current
// value of each property. Ephemeral: fetched fresh on every evaluation pass.
type Thing struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Properties []Property `json:"properties"`
}

// Property is one reading inside a Thing. LastValue is whatever the registry
// reported: number, string, or nil. Only INT/FLOAT typed properties ever
// participate in alerting.
type Property struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	VariableName string `json:"variable_name,omitempty"`
	Type         string `json:"type"`
	LastValue    any    `json:"last_value"`
}

// DisplayName prefers the human name, then the variable name, then the ID.
func (p Property) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.VariableName != "" {
		return p.VariableName
	}
	return p.ID
}

// ThresholdRange is the [min, max] band defining "normal" for a property.
// Values equal to min or max are still normal.
type ThresholdRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PropertyAlert is the per-property outcome of an evaluation pass.
type PropertyAlert struct {
	PropertyID string `json:"propertyId"`
	Name       string `json:"name,omitempty"`
	InAlert    bool   `json:"inAlert"`
}
