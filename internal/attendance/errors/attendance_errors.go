package attendanceerrors

import (
	"net/http"

	"verticx/internal/shared/apperror"
)

var (
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month, expected year and month query parameters",
		http.StatusBadRequest,
	)
	ErrNoActiveSession = apperror.New(
		apperror.CodeInvalidState,
		"branch has no active academic session",
		http.StatusConflict,
	)
	ErrClassNotFound = apperror.New(
		apperror.CodeNotFound,
		"class not found in this branch",
		http.StatusNotFound,
	)
)
