package models

// Partner statuses
const (
	PartnerActive   = "active"
	PartnerInactive = "inactive"
)

// Partner is an agency or service provider listed on the partners page
type Partner struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// RecordID returns the partner identifier
func (p Partner) RecordID() string {
	return string(p.ID)
}

// PartnerCreate is the body of POST /partners
type PartnerCreate struct {
	Name        string `json:"name" validate:"notblank,max=120"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// PartnerUpdate is the body of PUT /partners/:id; nil fields are left unchanged
type PartnerUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}
