// Package resources declares the six admin collections: where they live,
// how they are searched and filtered, and how they are shown.
package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/rodstewart/estatectl/internal/api"
	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/models"
	"github.com/rodstewart/estatectl/internal/validate"
)

var validator = validate.New()

// Column is one table or CSV column
type Column[T any] struct {
	Header string
	Value  func(T) string
	// Wide columns hold free text and are truncated in tables
	Wide bool
}

// Field is one labelled line of the view dialog
type Field struct {
	Label string
	Value string
}

// Cascade is an optional secondary delete, e.g. a property's images
type Cascade struct {
	Name        string
	Sub         string
	Description string
}

// Definition describes one admin collection
type Definition[T listing.Record] struct {
	Name     string
	Singular string
	Path     string
	// Key is the envelope field holding the list
	Key      string
	PageSize int

	Schema     listing.Schema[T]
	Statuses   []string
	StatusCase listing.Case
	Status     func(T) string

	Columns []Column[T]
	Fields  func(T) []Field

	// ReplyStatus is set together with a reply; "" means replies are not supported
	ReplyStatus string
	Cascades    []Cascade
}

// Resource binds the collection endpoint to client
func (d Definition[T]) Resource(client *api.Client) *api.Resource[T] {
	return api.NewResource[T](client, d.Path, d.Key, d.Singular)
}

// Controller returns an unloaded controller over the collection. Options
// given later override the definition's defaults.
func (d Definition[T]) Controller(client *api.Client, opts ...listing.Option) *listing.Controller[T] {
	base := []listing.Option{
		listing.WithName(d.Name),
		listing.WithPageSize(d.PageSize),
		listing.WithValidator(validator),
	}
	return listing.New[T](d.Resource(client), d.Schema, append(base, opts...)...)
}

// Headers returns the column headers
func (d Definition[T]) Headers() []string {
	headers := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		headers[i] = c.Header
	}
	return headers
}

// Row renders r for a table or CSV
func (d Definition[T]) Row(r T) []string {
	row := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		row[i] = c.Value(r)
	}
	return row
}

// Rows renders every record
func (d Definition[T]) Rows(records []T) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = d.Row(r)
	}
	return rows
}

// Details returns the view dialog lines for r
func (d Definition[T]) Details(r T) []Field {
	if d.Fields != nil {
		return d.Fields(r)
	}
	fields := make([]Field, len(d.Columns))
	for i, c := range d.Columns {
		fields[i] = Field{Label: c.Header, Value: c.Value(r)}
	}
	return fields
}

// NormalizeStatus returns status in the collection's case, or an error
// listing the accepted values
func (d Definition[T]) NormalizeStatus(status string) (string, error) {
	status = strings.TrimSpace(status)
	if d.StatusCase == listing.Lower {
		status = strings.ToLower(status)
	} else {
		status = strings.ToUpper(status)
	}
	tag := "required,oneof=" + strings.Join(d.Statuses, " ")
	if err := validator.Var("status", status, tag); err != nil {
		return "", err
	}
	return status, nil
}

// StatusPatch builds the body of a status change
func (d Definition[T]) StatusPatch(status string) (models.StatusUpdate, error) {
	normalized, err := d.NormalizeStatus(status)
	if err != nil {
		return models.StatusUpdate{}, err
	}
	return models.StatusUpdate{Status: normalized}, nil
}

// CanReply reports whether records of this collection accept replies
func (d Definition[T]) CanReply() bool {
	return d.ReplyStatus != ""
}

// ReplyPatch builds the body of a reply. Its length is checked when the
// controller validates the update.
func (d Definition[T]) ReplyPatch(text string) (models.Reply, error) {
	if !d.CanReply() {
		return models.Reply{}, fmt.Errorf("%s do not accept replies", d.Name)
	}
	return models.Reply{Reply: strings.TrimSpace(text), Status: d.ReplyStatus}, nil
}

// Cascade returns the named cascade
func (d Definition[T]) Cascade(name string) (Cascade, bool) {
	for _, c := range d.Cascades {
		if c.Name == name {
			return c, true
		}
	}
	return Cascade{}, false
}

// FollowUps turns the chosen cascades into delete follow-ups against res
func (d Definition[T]) FollowUps(res *api.Resource[T], names ...string) ([]listing.FollowUp, error) {
	followUps := make([]listing.FollowUp, 0, len(names))
	for _, name := range names {
		c, ok := d.Cascade(name)
		if !ok {
			return nil, fmt.Errorf("%s have no %q to delete", d.Name, name)
		}
		sub := c.Sub
		followUps = append(followUps, listing.FollowUp{
			Name: "delete " + c.Name,
			Run: func(ctx context.Context, id string) error {
				return res.DeleteRelated(ctx, id, sub)
			},
		})
	}
	return followUps, nil
}

// CountByStatus tallies records per status, listing every known status
func (d Definition[T]) CountByStatus(records []T) map[string]int {
	counts := make(map[string]int, len(d.Statuses))
	for _, s := range d.Statuses {
		counts[s] = 0
	}
	for _, r := range records {
		status := d.Status(r)
		if d.StatusCase == listing.Lower {
			status = strings.ToLower(status)
		} else {
			status = strings.ToUpper(status)
		}
		counts[status]++
	}
	return counts
}

func statusCategory[T any](value func(T) string, c listing.Case, values []string) listing.Category[T] {
	return listing.Category[T]{Name: "status", Value: value, Case: c, Values: values}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// day trims an ISO timestamp to its date
func day(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
