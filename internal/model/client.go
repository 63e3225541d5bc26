package model

import "strings"

type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

var phoneCleaner = strings.NewReplacer(" ", "", "+", "", "-", "", "(", "", ")", "")

// WhatsAppPhone returns the phone stripped down to what wa.me links accept,
// e.g. "+56 9 1234-5678" becomes "56912345678".
func (c Client) WhatsAppPhone() string {
	return phoneCleaner.Replace(c.Phone)
}

// WhatsAppLink is empty when the client has no phone.
func (c Client) WhatsAppLink() string {
	p := c.WhatsAppPhone()
	if p == "" {
		return ""
	}
	return "https://wa.me/" + p
}
