package staffsalaryerrors

import (
	"net/http"

	"verticx/internal/shared/apperror"
)

var (
	ErrInvalidBranchID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid branch id",
		http.StatusBadRequest,
	)
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff id",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveFrom = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective_from format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary profile not found",
		http.StatusNotFound,
	)
	ErrStaffNotInBranch = apperror.New(
		apperror.CodeInvalidInput,
		"staff member does not belong to this branch",
		http.StatusBadRequest,
	)
)
