package utils

const (
	// UidKey is the routing parameter carrying the encoded user id of an
	// activation link.
	UidKey = "uid"

	// TokenKey is the routing parameter carrying the activation token.
	TokenKey = "token"

	// CategorySlugKey is the routing parameter for category detail pages.
	CategorySlugKey = "slug"

	// ProductSlugKey is the routing parameter for product detail pages.
	ProductSlugKey = "slug"

	// ProductIdKey is the routing parameter for basket item removal.
	ProductIdKey = "productId"
)

const (
	// SessionCookie carries the login session JWT.
	SessionCookie = "session_token"

	// BasketCookie carries the anonymous basket session id.
	BasketCookie = "basket_id"
)
