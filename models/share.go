package models

// ShareLink is a generated prescription share capability. The token is opaque
// and the expiry is computed server-side.
type ShareLink struct {
	Token            string `json:"token"`
	ShareURL         string `json:"shareUrl"`
	ExpiresAt        string `json:"expiresAt"`
	RequiresPassword bool   `json:"requiresPassword"`
}

// SharedRecords is the bundle returned when a share link is redeemed.
type SharedRecords struct {
	Prescriptions   []Prescription `json:"prescriptions"`
	AccessExpiresAt string         `json:"accessExpiresAt,omitempty"`
}
