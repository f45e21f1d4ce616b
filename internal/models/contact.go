package models

// Contact statuses
const (
	ContactUnread  = "UNREAD"
	ContactRead    = "READ"
	ContactReplied = "REPLIED"
)

// Contact is a message left through the public contact form
type Contact struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Reply     string `json:"reply,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// RecordID returns the contact identifier
func (c Contact) RecordID() string {
	return string(c.ID)
}
