package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/rodstewart/estatectl/internal/models"
)

func TestValidate_ReplyLengthBoundaries(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "9 characters rejected", length: 9, wantErr: true},
		{name: "10 characters accepted", length: 10, wantErr: false},
		{name: "2000 characters accepted", length: 2000, wantErr: false},
		{name: "2001 characters rejected", length: 2001, wantErr: true},
		{name: "empty rejected", length: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(models.Reply{Reply: strings.Repeat("a", tt.length)})
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&models.Reply{Reply: "short"})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	if msg := verrs.Field("reply"); msg != "must be at least 10 characters" {
		t.Errorf("expected min message for 'reply', got '%s'", msg)
	}
}

func TestValidate_NotBlank(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "empty", value: "", wantErr: true},
		{name: "whitespace only", value: "   \t", wantErr: true},
		{name: "present", value: "Acme Realty", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(models.PartnerCreate{Name: tt.value})
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				var verrs ValidationErrors
				if !errors.As(err, &verrs) || verrs.Field("name") != "is required" {
					t.Errorf("expected 'name: is required', got %v", err)
				}
			}
		})
	}
}

func TestValidate_PointerFieldsOptional(t *testing.T) {
	v := New()

	if err := v.Validate(models.PartnerUpdate{}); err != nil {
		t.Errorf("expected empty update to pass, got %v", err)
	}

	blank := "  "
	if err := v.Validate(models.PartnerUpdate{Name: &blank}); err == nil {
		t.Error("expected blank name in update to be rejected")
	}
}

func TestValidate_NonStructPassesThrough(t *testing.T) {
	v := New()

	if err := v.Validate(map[string]string{"status": "x"}); err != nil {
		t.Errorf("expected map payload to pass, got %v", err)
	}
	if err := v.Validate(nil); err != nil {
		t.Errorf("expected nil payload to pass, got %v", err)
	}
}

func TestVar_OneOf(t *testing.T) {
	v := New()

	if err := v.Var("status", "PAID", "oneof=PENDING CONFIRMED PAID CANCELLED"); err != nil {
		t.Errorf("expected PAID to pass, got %v", err)
	}

	err := v.Var("status", "LOST", "oneof=PENDING CONFIRMED")
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
	expected := "validation failed: status: must be one of: PENDING, CONFIRMED"
	if err.Error() != expected {
		t.Errorf("expected error '%s', got '%v'", expected, err)
	}
}
