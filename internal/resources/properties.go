package resources

import (
	"strconv"
	"strings"

	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/models"
)

func propertyStatus(p models.Property) string { return p.Status }

// Properties is the /properties catalogue
func Properties() Definition[models.Property] {
	statuses := []string{models.PropertyAvailable, models.PropertyRented, models.PropertySold, models.PropertyPending}
	return Definition[models.Property]{
		Name:     "properties",
		Singular: "property",
		Path:     "/properties",
		Key:      "properties",
		PageSize: 6,
		Schema: listing.Schema[models.Property]{
			Search: func(p models.Property) []string {
				return []string{p.Title, p.Address, p.City, p.Category, p.RecordID()}
			},
			Categories: []listing.Category[models.Property]{
				statusCategory(propertyStatus, listing.Lower, statuses),
				{Name: "category", Value: func(p models.Property) string { return p.Category }, Case: listing.Lower},
			},
		},
		Statuses:   statuses,
		StatusCase: listing.Lower,
		Status:     propertyStatus,
		Columns: []Column[models.Property]{
			{Header: "ID", Value: models.Property.RecordID},
			{Header: "Title", Value: func(p models.Property) string { return p.Title }, Wide: true},
			{Header: "City", Value: func(p models.Property) string { return p.City }},
			{Header: "Category", Value: func(p models.Property) string { return p.Category }},
			{Header: "Price", Value: func(p models.Property) string { return money(p.Price) }},
			{Header: "Status", Value: propertyStatus},
		},
		Fields: func(p models.Property) []Field {
			return []Field{
				{Label: "ID", Value: p.RecordID()},
				{Label: "Status", Value: p.Status},
				{Label: "Title", Value: p.Title},
				{Label: "Category", Value: p.Category},
				{Label: "Address", Value: p.Address},
				{Label: "City", Value: p.City},
				{Label: "Price", Value: money(p.Price)},
				{Label: "Bedrooms", Value: strconv.Itoa(p.Bedrooms)},
				{Label: "Bathrooms", Value: strconv.Itoa(p.Bathrooms)},
				{Label: "Area", Value: strconv.FormatFloat(p.Area, 'f', -1, 64)},
				{Label: "Images", Value: strings.Join(p.Images, "\n")},
				{Label: "Description", Value: p.Description},
				{Label: "Created", Value: p.CreatedAt},
			}
		},
		Cascades: []Cascade{
			{Name: "images", Sub: "images", Description: "also delete the property's uploaded images"},
		},
	}
}
