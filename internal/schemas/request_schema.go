// Package schemas also defines the request structures for the API.
package schemas

// RegistrationRequest is the body of POST /api/users.
// UserName is required and must be less than 150 characters.
// Email is required and must be a valid email.
// Password is required and must be at least 8 characters.
// The delivery profile fields are all optional.
type RegistrationRequest struct {
	UserName     string `json:"userName" validate:"required,max=150,username_validation"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,password_validation"`
	FirstName    string `json:"firstName" validate:"max=150"`
	About        string `json:"about" validate:"max=500"`
	Country      string `json:"country" validate:"max=2"`
	PhoneNumber  string `json:"phoneNumber" validate:"max=15"`
	Postcode     string `json:"postcode" validate:"max=12"`
	AddressLine1 string `json:"addressLine1" validate:"max=150"`
	AddressLine2 string `json:"addressLine2" validate:"max=150"`
	TownCity     string `json:"townCity" validate:"max=150"`
}

// LoginRequest is the body of POST /api/users/login. The email is the sole
// authentication identifier.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// EditProfileRequest is the body of PUT /api/users.
type EditProfileRequest struct {
	FirstName    string `json:"firstName" validate:"max=150"`
	About        string `json:"about" validate:"max=500"`
	Country      string `json:"country" validate:"max=2"`
	PhoneNumber  string `json:"phoneNumber" validate:"max=15"`
	Postcode     string `json:"postcode" validate:"max=12"`
	AddressLine1 string `json:"addressLine1" validate:"max=150"`
	AddressLine2 string `json:"addressLine2" validate:"max=150"`
	TownCity     string `json:"townCity" validate:"max=150"`
}

// BasketUpdateRequest is the body of POST /api/basket. Quantity 0 removes
// the product from the basket.
type BasketUpdateRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"min=0,max=99"`
}
