package resources

import (
	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/models"
)

func contactStatus(c models.Contact) string { return c.Status }

// Contacts is the /contacts collection of contact-form submissions
func Contacts() Definition[models.Contact] {
	statuses := []string{models.ContactUnread, models.ContactRead, models.ContactReplied}
	return Definition[models.Contact]{
		Name:     "contacts",
		Singular: "contact",
		Path:     "/contacts",
		Key:      "contacts",
		PageSize: 6,
		Schema: listing.Schema[models.Contact]{
			Search: func(c models.Contact) []string {
				return []string{c.Name, c.Email, c.Phone, c.Subject, c.Message, c.RecordID()}
			},
			Categories: []listing.Category[models.Contact]{
				statusCategory(contactStatus, listing.Upper, statuses),
			},
		},
		Statuses:   statuses,
		StatusCase: listing.Upper,
		Status:     contactStatus,
		Columns: []Column[models.Contact]{
			{Header: "ID", Value: models.Contact.RecordID},
			{Header: "Name", Value: func(c models.Contact) string { return c.Name }},
			{Header: "Email", Value: func(c models.Contact) string { return c.Email }},
			{Header: "Subject", Value: func(c models.Contact) string { return c.Subject }, Wide: true},
			{Header: "Status", Value: contactStatus},
			{Header: "Received", Value: func(c models.Contact) string { return day(c.CreatedAt) }},
		},
		Fields: func(c models.Contact) []Field {
			return []Field{
				{Label: "ID", Value: c.RecordID()},
				{Label: "Status", Value: c.Status},
				{Label: "Name", Value: c.Name},
				{Label: "Email", Value: c.Email},
				{Label: "Phone", Value: c.Phone},
				{Label: "Subject", Value: c.Subject},
				{Label: "Message", Value: c.Message},
				{Label: "Reply", Value: c.Reply},
				{Label: "Received", Value: c.CreatedAt},
			}
		},
		ReplyStatus: models.ContactReplied,
	}
}
