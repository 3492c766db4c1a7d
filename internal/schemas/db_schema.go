// Package schemas defines the data structures shared between the database
// layer, the handlers and the wire format.
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account row. Rows are never removed: deleting an
// account only flips IsActive to false, and the same flag doubles as the
// pending-activation marker for freshly registered users.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	UserName     string     `json:"userName"`
	Password     string     `json:"-"` // bcrypt hash, never the plaintext
	FirstName    string     `json:"firstName"`
	About        string     `json:"about"`
	Country      string     `json:"country"`
	PhoneNumber  string     `json:"phoneNumber"`
	Postcode     string     `json:"postcode"`
	AddressLine1 string     `json:"addressLine1"`
	AddressLine2 string     `json:"addressLine2"`
	TownCity     string     `json:"townCity"`
	IsActive     bool       `json:"isActive"`
	IsStaff      bool       `json:"isStaff"`
	IsSuperuser  bool       `json:"isSuperuser"`
	CreatedAt    *time.Time `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

// Category represents a catalog category row.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Product represents a catalog product row. IsActive controls visibility in
// the default listing, InStock controls the detail page; the two axes are
// managed independently.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	CategoryID  uuid.UUID  `json:"categoryId"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Slug        string     `json:"slug"`
	Price       string     `json:"price"` // fixed-point with 2 decimals, e.g. "19.99"
	InStock     bool       `json:"inStock"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}
