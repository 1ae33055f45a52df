package domain

// Recipient is one SMS destination in the structured configuration:
// a phone number plus the name of its carrier.
type Recipient struct {
	PhoneNumber string `json:"phoneNumber"`
	Carrier     string `json:"carrier"`
}

// SMSConfig is the stored notification configuration. The app password is
// kept as a vault envelope (iv:ciphertext hex) and only decrypted at send
// time. LegacyRecipient carries the old single "number@gateway" string and
// is consulted only when Recipients resolves to nothing.
type SMSConfig struct {
	SenderEmail         string      `json:"senderEmail"`
	AppPasswordEnvelope string      `json:"-"`
	Recipients          []Recipient `json:"recipients"`
	LegacyRecipient     string      `json:"recipient,omitempty"`
	AlertMessage        string      `json:"alertMessage"`
}

// DefaultAlertMessage is used when no template has been configured.
const DefaultAlertMessage = "Alert: {deviceName} - {propertyName} is out of range (value: {value})."
