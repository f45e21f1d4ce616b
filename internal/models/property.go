package models

// Property statuses
const (
	PropertyAvailable = "available"
	PropertyRented    = "rented"
	PropertySold      = "sold"
	PropertyPending   = "pending"
)

// Property represents a listing shown on the public site
type Property struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Price       float64  `json:"price"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Area        float64  `json:"area"`
	Images      []string `json:"images,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// RecordID returns the property identifier
func (p Property) RecordID() string {
	return string(p.ID)
}

// PropertyCreate is the body of POST /properties
type PropertyCreate struct {
	Title       string  `json:"title" validate:"notblank,max=200"`
	Description string  `json:"description,omitempty" validate:"max=5000"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	Category    string  `json:"category,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=available rented sold pending"`
	Price       float64 `json:"price" validate:"gte=0"`
	Bedrooms    int     `json:"bedrooms,omitempty" validate:"gte=0"`
	Bathrooms   int     `json:"bathrooms,omitempty" validate:"gte=0"`
	Area        float64 `json:"area,omitempty" validate:"gte=0"`
}

// PropertyUpdate is the body of PUT /properties/:id; nil fields are left unchanged
type PropertyUpdate struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Address     *string  `json:"address,omitempty"`
	City        *string  `json:"city,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}
