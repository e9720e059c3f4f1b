package payrollerrors

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
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff id",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrStaffNotInBranch = apperror.New(
		apperror.CodeInvalidInput,
		"staff member does not belong to this branch",
		http.StatusBadRequest,
	)
	ErrPayrollFrozen = apperror.New(
		apperror.CodeConflict,
		"payroll record is already paid and cannot be modified",
		http.StatusConflict,
	)
	ErrNothingToProcess = apperror.New(
		apperror.CodeInvalidState,
		"no pending payroll records for this month",
		http.StatusBadRequest,
	)
)
