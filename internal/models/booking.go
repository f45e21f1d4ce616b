package models

import "strings"

// Booking statuses
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingPaid      = "PAID"
	BookingCancelled = "CANCELLED"
)

// User is the guest account embedded in bookings
type User struct {
	ID        ID     `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName joins first and last name, skipping empty parts
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Booking represents a stay request placed by a guest on a property
type Booking struct {
	ID         ID        `json:"id"`
	Status     string    `json:"status"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"totalPrice"`
	Notes      string    `json:"notes,omitempty"`
	User       *User     `json:"user,omitempty"`
	Property   *Property `json:"property,omitempty"`
	CreatedAt  string    `json:"createdAt,omitempty"`
}

// RecordID returns the booking identifier
func (b Booking) RecordID() string {
	return string(b.ID)
}

// GuestName returns the embedded guest's full name, or "" when absent
func (b Booking) GuestName() string {
	return b.User.FullName()
}

// PropertyTitle returns the embedded property's title, or "" when absent
func (b Booking) PropertyTitle() string {
	if b.Property == nil {
		return ""
	}
	return b.Property.Title
}
