package resources

import (
	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/models"
)

func messageStatus(m models.SupportMessage) string { return m.Status }

// Messages is the /support-messages inbox
func Messages() Definition[models.SupportMessage] {
	statuses := []string{models.MessageOpen, models.MessageInProgress, models.MessageResolved, models.MessageClosed}
	priorities := []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent}
	return Definition[models.SupportMessage]{
		Name:     "messages",
		Singular: "message",
		Path:     "/support-messages",
		Key:      "messages",
		PageSize: 5,
		Schema: listing.Schema[models.SupportMessage]{
			Search: func(m models.SupportMessage) []string {
				return []string{m.Name, m.Email, m.Subject, m.Message, m.RecordID()}
			},
			Categories: []listing.Category[models.SupportMessage]{
				statusCategory(messageStatus, listing.Upper, statuses),
				{
					Name:   "priority",
					Value:  func(m models.SupportMessage) string { return m.Priority },
					Case:   listing.Upper,
					Values: priorities,
				},
			},
		},
		Statuses:   statuses,
		StatusCase: listing.Upper,
		Status:     messageStatus,
		Columns: []Column[models.SupportMessage]{
			{Header: "ID", Value: models.SupportMessage.RecordID},
			{Header: "From", Value: func(m models.SupportMessage) string { return m.Name }},
			{Header: "Subject", Value: func(m models.SupportMessage) string { return m.Subject }, Wide: true},
			{Header: "Priority", Value: func(m models.SupportMessage) string { return m.Priority }},
			{Header: "Status", Value: messageStatus},
			{Header: "Received", Value: func(m models.SupportMessage) string { return day(m.CreatedAt) }},
		},
		Fields: func(m models.SupportMessage) []Field {
			return []Field{
				{Label: "ID", Value: m.RecordID()},
				{Label: "Status", Value: m.Status},
				{Label: "Priority", Value: m.Priority},
				{Label: "From", Value: m.Name},
				{Label: "Email", Value: m.Email},
				{Label: "Subject", Value: m.Subject},
				{Label: "Message", Value: m.Message},
				{Label: "Reply", Value: m.Reply},
				{Label: "Received", Value: m.CreatedAt},
			}
		},
		ReplyStatus: models.MessageResolved,
	}
}
