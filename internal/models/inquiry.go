package models

// Inquiry statuses
const (
	InquiryNew       = "NEW"
	InquiryContacted = "CONTACTED"
	InquiryClosed    = "CLOSED"
)

// Inquiry is a visitor's question about a specific property
type Inquiry struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Property  *Property `json:"property,omitempty"`
	CreatedAt string    `json:"createdAt,omitempty"`
}

// RecordID returns the inquiry identifier
func (i Inquiry) RecordID() string {
	return string(i.ID)
}
