// Error codes returned in the ErrorResponse envelope. Codes are stable,
// lowercase snake_case strings clients can branch on; the HTTP status carries
// the transport semantics and the code narrows it. Handlers attach them via
// the fail() helper in this package. Middleware that rejects before a handler
// runs (rate limiting, idempotency-key validation) writes its envelope with
// its own code literals, since it cannot import this package.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "not_found",
//	  "message": "entry not found"
//	}

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeInternal     = "internal_error"

	ErrCodeMethodNotAllowed = "method_not_allowed"
)
