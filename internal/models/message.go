package models

// Support message statuses
const (
	MessageOpen       = "OPEN"
	MessageInProgress = "IN_PROGRESS"
	MessageResolved   = "RESOLVED"
	MessageClosed     = "CLOSED"
)

// Support message priorities
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// SupportMessage is a ticket raised by a signed-in user
type SupportMessage struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	Reply     string `json:"reply,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// RecordID returns the message identifier
func (m SupportMessage) RecordID() string {
	return string(m.ID)
}
