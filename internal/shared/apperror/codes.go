package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT" // malformed ids, dates, amounts
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"      // frozen payroll, overpayment
	CodeInvalidState = "INVALID_STATE" // reviewed leave, stale session

	// Server errors (5xx)
	CodeInternalError = "INTERNAL_ERROR"
)
