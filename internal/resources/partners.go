package resources

import (
	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/models"
)

func partnerStatus(p models.Partner) string { return p.Status }

// Partners is the /partners directory
func Partners() Definition[models.Partner] {
	statuses := []string{models.PartnerActive, models.PartnerInactive}
	return Definition[models.Partner]{
		Name:     "partners",
		Singular: "partner",
		Path:     "/partners",
		Key:      "partners",
		PageSize: 6,
		Schema: listing.Schema[models.Partner]{
			Search: func(p models.Partner) []string {
				return []string{p.Name, p.Email, p.Website, p.Category, p.RecordID()}
			},
			Categories: []listing.Category[models.Partner]{
				statusCategory(partnerStatus, listing.Lower, statuses),
				{Name: "category", Value: func(p models.Partner) string { return p.Category }, Case: listing.Lower},
			},
		},
		Statuses:   statuses,
		StatusCase: listing.Lower,
		Status:     partnerStatus,
		Columns: []Column[models.Partner]{
			{Header: "ID", Value: models.Partner.RecordID},
			{Header: "Name", Value: func(p models.Partner) string { return p.Name }},
			{Header: "Category", Value: func(p models.Partner) string { return p.Category }},
			{Header: "Email", Value: func(p models.Partner) string { return p.Email }},
			{Header: "Website", Value: func(p models.Partner) string { return p.Website }, Wide: true},
			{Header: "Status", Value: partnerStatus},
		},
		Fields: func(p models.Partner) []Field {
			return []Field{
				{Label: "ID", Value: p.RecordID()},
				{Label: "Status", Value: p.Status},
				{Label: "Name", Value: p.Name},
				{Label: "Category", Value: p.Category},
				{Label: "Email", Value: p.Email},
				{Label: "Phone", Value: p.Phone},
				{Label: "Website", Value: p.Website},
				{Label: "Description", Value: p.Description},
				{Label: "Created", Value: p.CreatedAt},
			}
		},
	}
}
