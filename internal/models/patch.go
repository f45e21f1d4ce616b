package models

// Reply length bounds, inclusive
const (
	ReplyMinLength = 10
	ReplyMaxLength = 2000
)

// StatusUpdate is the body of a status change
type StatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// Reply is the body sent when answering a contact or support message
type Reply struct {
	Reply  string `json:"reply" validate:"min=10,max=2000"`
	Status string `json:"status,omitempty"`
}
