package academicserrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidStudentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid student id",
		http.StatusBadRequest,
	)
	ErrInvalidClassID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid class id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"academic session not found",
		http.StatusNotFound,
	)
	ErrStudentNotFound = apperror.New(
		apperror.CodeNotFound,
		"student not found",
		http.StatusNotFound,
	)
	ErrClassNotFound = apperror.New(
		apperror.CodeNotFound,
		"class not found",
		http.StatusNotFound,
	)
	ErrSessionNotNewer = apperror.New(
		apperror.CodeInvalidState,
		"new session must start after the active session",
		http.StatusBadRequest,
	)
	ErrStudentNotInBranch = apperror.New(
		apperror.CodeInvalidInput,
		"student does not belong to this branch",
		http.StatusBadRequest,
	)
)
