package studenterrors

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
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrStudentNotFound = apperror.New(
		apperror.CodeNotFound,
		"student not found",
		http.StatusNotFound,
	)
	ErrClassNotFound = apperror.New(
		apperror.CodeNotFound,
		"class not found in this branch",
		http.StatusNotFound,
	)
	ErrAdmissionNumberExists = apperror.New(
		apperror.CodeConflict,
		"a student with this admission number already exists",
		http.StatusConflict,
	)
)
