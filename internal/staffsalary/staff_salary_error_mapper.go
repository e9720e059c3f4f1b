package staffsalary

import (
	"errors"

	staffsalaryerrors "verticx/internal/staffsalary/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return staffsalaryerrors.ErrSalaryNotFound
	}
	return err
}
