package resources

import (
	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/models"
)

func inquiryStatus(i models.Inquiry) string { return i.Status }

func inquiryProperty(i models.Inquiry) string {
	if i.Property == nil {
		return ""
	}
	return i.Property.Title
}

// Inquiries is the /inquiries collection of questions about listings
func Inquiries() Definition[models.Inquiry] {
	statuses := []string{models.InquiryNew, models.InquiryContacted, models.InquiryClosed}
	return Definition[models.Inquiry]{
		Name:     "inquiries",
		Singular: "inquiry",
		Path:     "/inquiries",
		Key:      "inquiries",
		PageSize: 5,
		Schema: listing.Schema[models.Inquiry]{
			Search: func(i models.Inquiry) []string {
				return []string{i.Name, i.Email, i.Phone, i.Message, inquiryProperty(i), i.RecordID()}
			},
			Categories: []listing.Category[models.Inquiry]{
				statusCategory(inquiryStatus, listing.Upper, statuses),
			},
		},
		Statuses:   statuses,
		StatusCase: listing.Upper,
		Status:     inquiryStatus,
		Columns: []Column[models.Inquiry]{
			{Header: "ID", Value: models.Inquiry.RecordID},
			{Header: "Name", Value: func(i models.Inquiry) string { return i.Name }},
			{Header: "Email", Value: func(i models.Inquiry) string { return i.Email }},
			{Header: "Property", Value: inquiryProperty, Wide: true},
			{Header: "Status", Value: inquiryStatus},
			{Header: "Received", Value: func(i models.Inquiry) string { return day(i.CreatedAt) }},
		},
		Fields: func(i models.Inquiry) []Field {
			return []Field{
				{Label: "ID", Value: i.RecordID()},
				{Label: "Status", Value: i.Status},
				{Label: "Name", Value: i.Name},
				{Label: "Email", Value: i.Email},
				{Label: "Phone", Value: i.Phone},
				{Label: "Property", Value: inquiryProperty(i)},
				{Label: "Message", Value: i.Message},
				{Label: "Received", Value: i.CreatedAt},
			}
		},
	}
}
