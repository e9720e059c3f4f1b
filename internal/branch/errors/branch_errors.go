package brancherrors

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
	ErrInvalidSessionStart = apperror.New(
		apperror.CodeInvalidInput,
		"invalid session_start_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrBranchNotFound = apperror.New(
		apperror.CodeNotFound,
		"branch not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"a branch or user with this email already exists",
		http.StatusConflict,
	)
)
