package utils

// contextKey is a dedicated type for context keys to avoid collisions with
// other packages' keys.
type contextKey struct {
	name string
}

// String returns the key name used with gin's context store.
func (c *contextKey) String() string {
	return c.name
}

// ClaimsKey stores the validated JWT claims of an authenticated request.
var ClaimsKey = &contextKey{"claims"}

// TraceIdKey stores the per-request trace id.
var TraceIdKey = &contextKey{"traceId"}

// SanitizedPayloadKey stores the bound and sanitized request body.
var SanitizedPayloadKey = &contextKey{"sanitizedPayload"}

// SessionKey stores the login session of an authenticated request.
var SessionKey = &contextKey{"session"}

// BasketKey stores the basket loaded for the request's basket session.
var BasketKey = &contextKey{"basket"}

// BasketIdKey stores the basket session id for the request.
var BasketIdKey = &contextKey{"basketId"}
