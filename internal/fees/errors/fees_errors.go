package feeserrors

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
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a positive value",
		http.StatusBadRequest,
	)
	ErrTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"fee template not found",
		http.StatusNotFound,
	)
	ErrFeeRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"fee record not found",
		http.StatusNotFound,
	)
	ErrStudentNotInBranch = apperror.New(
		apperror.CodeInvalidInput,
		"student does not belong to this branch",
		http.StatusBadRequest,
	)
	ErrDuplicateTemplate = apperror.New(
		apperror.CodeConflict,
		"a fee template already exists for this grade level",
		http.StatusConflict,
	)
	ErrOverpayment = apperror.New(
		apperror.CodeInvalidState,
		"payment exceeds the outstanding balance",
		http.StatusBadRequest,
	)
	ErrBreakdownMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"monthly breakdown must sum to the annual amount",
		http.StatusBadRequest,
	)
)
