package student

import (
	"errors"
	"strings"

	studenterrors "verticx/internal/student/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return studenterrors.ErrStudentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_student_admission" {
			return studenterrors.ErrAdmissionNumberExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_student_admission") {
		return studenterrors.ErrAdmissionNumberExists
	}

	return err
}
