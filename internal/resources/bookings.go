package resources

import (
	"fmt"
	"strconv"

	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/models"
)

func bookingStatus(b models.Booking) string { return b.Status }

func bookingEmail(b models.Booking) string {
	if b.User == nil {
		return ""
	}
	return b.User.Email
}

func bookingPhone(b models.Booking) string {
	if b.User == nil {
		return ""
	}
	return b.User.Phone
}

func bookingAddress(b models.Booking) string {
	if b.Property == nil {
		return ""
	}
	return b.Property.Address
}

// Bookings is the /bookings collection
func Bookings() Definition[models.Booking] {
	statuses := []string{models.BookingPending, models.BookingConfirmed, models.BookingPaid, models.BookingCancelled}
	return Definition[models.Booking]{
		Name:     "bookings",
		Singular: "booking",
		Path:     "/bookings",
		Key:      "bookings",
		PageSize: 6,
		Schema: listing.Schema[models.Booking]{
			Search: func(b models.Booking) []string {
				return []string{b.GuestName(), bookingEmail(b), bookingPhone(b), b.PropertyTitle(), bookingAddress(b), b.RecordID()}
			},
			Categories: []listing.Category[models.Booking]{
				statusCategory(bookingStatus, listing.Upper, statuses),
			},
		},
		Statuses:   statuses,
		StatusCase: listing.Upper,
		Status:     bookingStatus,
		Columns: []Column[models.Booking]{
			{Header: "ID", Value: models.Booking.RecordID},
			{Header: "Guest", Value: models.Booking.GuestName},
			{Header: "Property", Value: models.Booking.PropertyTitle, Wide: true},
			{Header: "Dates", Value: func(b models.Booking) string {
				return fmt.Sprintf("%s → %s", day(b.StartDate), day(b.EndDate))
			}},
			{Header: "Guests", Value: func(b models.Booking) string { return strconv.Itoa(b.Guests) }},
			{Header: "Total", Value: func(b models.Booking) string { return money(b.TotalPrice) }},
			{Header: "Status", Value: bookingStatus},
		},
		Fields: func(b models.Booking) []Field {
			return []Field{
				{Label: "ID", Value: b.RecordID()},
				{Label: "Status", Value: b.Status},
				{Label: "Guest", Value: b.GuestName()},
				{Label: "Email", Value: bookingEmail(b)},
				{Label: "Phone", Value: bookingPhone(b)},
				{Label: "Property", Value: b.PropertyTitle()},
				{Label: "Address", Value: bookingAddress(b)},
				{Label: "Check-in", Value: day(b.StartDate)},
				{Label: "Check-out", Value: day(b.EndDate)},
				{Label: "Guests", Value: strconv.Itoa(b.Guests)},
				{Label: "Total", Value: money(b.TotalPrice)},
				{Label: "Notes", Value: b.Notes},
				{Label: "Created", Value: b.CreatedAt},
			}
		},
		Cascades: []Cascade{
			{Name: "images", Sub: "images", Description: "also delete images attached to the booking"},
		},
	}
}
