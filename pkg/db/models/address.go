package models

// Address is the shipping address snapshot stored on an order. Serialized
// as JSON rather than normalized; orders keep whatever was submitted.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
