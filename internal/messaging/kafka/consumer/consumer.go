package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"verticx/internal/events"
	"verticx/internal/staffsalary"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeStaffLifecycle seeds a salary profile for every newly created staff
// member. The profile starts without a base salary, so payroll reports
// "Salary Not Set" until the registrar fills it in.
func ConsumeStaffLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	staffSalaryService staffsalary.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.staff_lifecycle")
	log.Info("staff lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("staff lifecycle consumer stopped")
				return
			}
			log.Error("fetch staff lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.StaffCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode staff_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = staffSalaryService.Create(ctx, event.BranchID, staffsalary.CreateStaffSalaryRequest{
			StaffID: event.StaffID,
		})
		if err != nil {
			if isUniqueSalaryViolation(err) {
				log.Warn("staff salary already exists for event, skipping",
					zap.String("staff_id", event.StaffID),
					zap.String("branch_id", event.BranchID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("create default staff salary failed",
				zap.String("staff_id", event.StaffID),
				zap.String("branch_id", event.BranchID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit staff lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("staff salary seeded from staff_created event",
			zap.String("staff_id", event.StaffID),
			zap.String("branch_id", event.BranchID),
		)
	}
}

func isUniqueSalaryViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_staff_salary_effective"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_staff_salary_effective")
}
