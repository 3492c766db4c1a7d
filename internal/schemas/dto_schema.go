package schemas

// UserDTO is the public representation returned after registration.
type UserDTO struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// ProfileDTO is the dashboard / profile-edit representation of the caller.
type ProfileDTO struct {
	Email        string `json:"email"`
	UserName     string `json:"userName"`
	FirstName    string `json:"firstName"`
	About        string `json:"about"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber"`
	Postcode     string `json:"postcode"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	TownCity     string `json:"townCity"`
}

// TokenDTO carries the session JWT handed out on login and activation.
type TokenDTO struct {
	Token string `json:"token"`
}

// CategoryDTO is the public representation of a category.
type CategoryDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductDTO is the public representation of a product.
type ProductDTO struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Slug        string `json:"slug"`
	Price       string `json:"price"`
	InStock     bool   `json:"inStock"`
}

// CategoryDetailDTO is a category plus every product that belongs to it.
type CategoryDetailDTO struct {
	Category CategoryDTO  `json:"category"`
	Products []ProductDTO `json:"products"`
}

// BasketItemDTO is one (product, quantity) pair of a session basket.
type BasketItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// BasketDTO is the whole session basket.
type BasketDTO struct {
	Items []BasketItemDTO `json:"items"`
}

// MessageDTO is a plain informational body.
type MessageDTO struct {
	Message string `json:"message"`
}

// MetadataDTO describes the running API version.
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
