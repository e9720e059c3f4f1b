package staff

import (
	"errors"
	"strings"

	stafferrors "verticx/internal/staff/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return stafferrors.ErrStaffNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_staff_number":
				return stafferrors.ErrStaffNumberAlreadyExists
			case "uq_staff_email":
				return stafferrors.ErrEmailAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_staff_number") {
		return stafferrors.ErrStaffNumberAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_staff_email") {
		return stafferrors.ErrEmailAlreadyExists
	}

	return err
}
