package schemas

// CustomError is the error shape every failing response carries.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorDTO wraps a CustomError for the response body.
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

var (
	BadRequest            = &CustomError{"ERR-001", "The request body is invalid. Please check the request body and try again."}
	UsernameTaken         = &CustomError{"ERR-002", "The username is already taken. Please try another username."}
	EmailTaken            = &CustomError{"ERR-003", "The email is already registered. Please log in instead."}
	UserNotFound          = &CustomError{"ERR-004", "The user was not found."}
	ActivationLinkInvalid = &CustomError{"ERR-005", "The activation link is invalid or has expired."}
	InvalidCredentials    = &CustomError{"ERR-006", "The credentials are invalid. Please check the email and password."}
	UserNotActivated      = &CustomError{"ERR-007", "The account has not been activated. Please check your inbox for the activation mail."}
	Unauthorized          = &CustomError{"ERR-008", "The request is unauthorized. Please log in and try again."}
	Forbidden             = &CustomError{"ERR-009", "The account is not allowed to perform this action."}
	CategoryNotFound      = &CustomError{"ERR-010", "The category was not found."}
	ProductNotFound       = &CustomError{"ERR-011", "The product was not found."}
	DatabaseError         = &CustomError{"ERR-012", "A database error occurred. Please try again later."}
	InternalServerError   = &CustomError{"ERR-013", "An internal error occurred. Please try again later."}
	EmailNotSent          = &CustomError{"ERR-014", "The activation mail could not be sent. Please try again later."}
	BasketError           = &CustomError{"ERR-015", "The basket could not be read or updated. Please try again later."}
)
