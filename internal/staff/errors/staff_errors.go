package stafferrors

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
	ErrInvalidJoiningDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid joining_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"staff member not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a staff member with this email already exists",
		http.StatusConflict,
	)
	ErrStaffNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a staff member with this number already exists",
		http.StatusConflict,
	)
)
