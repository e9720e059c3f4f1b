package classerrors

import (
	"net/http"

	"verticx/internal/shared/apperror"
)

var (
	ErrClassNotFound = apperror.New(
		apperror.CodeNotFound,
		"class not found",
		http.StatusNotFound,
	)
	ErrFeeTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"fee template not found in this branch",
		http.StatusNotFound,
	)
)
