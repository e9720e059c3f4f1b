package staff

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"verticx/internal/events"
	"verticx/internal/messaging/kafka"
	"verticx/internal/shared/contextutil"
	"verticx/internal/shared/counter"
	stafferrors "verticx/internal/staff/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const StaffOptionsKeyPrefix = "staff:options:"

func GetStaffOptionsKey(branchID string) string {
	return StaffOptionsKeyPrefix + branchID
}

//go:generate mockgen -source=staff_service.go -destination=mock/staff_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateStaffRequest) (StaffResponse, error)
	GetAll(ctx context.Context, branchID string) ([]StaffResponse, error)
	GetOptions(ctx context.Context, branchID string) ([]StaffResponse, error)
	GetByID(ctx context.Context, branchID, id string) (StaffResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateStaffRequest) (StaffResponse, error)
	Delete(ctx context.Context, branchID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("staff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, branchID string, req CreateStaffRequest) (StaffResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create staff requested",
		zap.String("request_id", rid),
		zap.String("branch_id", branchID),
		zap.String("email", req.Email),
	)

	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidBranchID
	}
	joiningDate, err := time.Parse("2006-01-02", req.JoiningDate)
	if err != nil {
		s.logger.Warn("create staff invalid joining_date",
			zap.String("joining_date", req.JoiningDate),
			zap.Error(err),
		)
		return StaffResponse{}, stafferrors.ErrInvalidJoiningDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create staff begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.StaffNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, branchID, "staff_number")
		if err != nil {
			s.logger.Error("create staff generate number failed", zap.Error(err))
			return StaffResponse{}, err
		}
		req.StaffNumber = fmt.Sprintf("STF-%06d", nextVal)
	}

	member := &Staff{
		ID:          uuid.New(),
		BranchID:    branchUUID,
		StaffNumber: req.StaffNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		RoleTitle:   req.RoleTitle,
		ClassID:     uuidPtr(req.ClassID),
		JoiningDate: joiningDate,
		Active:      true,
	}

	if err := qtx.Create(ctx, member); err != nil {
		s.logger.Error("create staff persist failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	event := events.StaffCreatedEvent{
		EventType:  "staff.created",
		StaffID:    member.ID.String(),
		BranchID:   branchID,
		OccurredAt: time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal staff event failed", zap.String("request_id", rid), zap.Error(err))
			return StaffResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "staff",
			AggregateID:   member.ID.String(),
			EventType:     event.EventType,
			Topic:         events.StaffCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create staff outbox persist failed",
				zap.String("staff_id", member.ID.String()),
				zap.Error(err),
			)
			return StaffResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create staff commit failed", zap.String("request_id", rid), zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateOptionsCache(ctx, branchID)

	s.logger.Info("create staff success",
		zap.String("request_id", rid),
		zap.String("staff_id", member.ID.String()),
	)

	return mapToResponse(*member), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]StaffResponse, error) {
	members, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(members), nil
}

// GetOptions serves the dropdown list the admin UI polls heavily; results are
// cached in Redis and concurrent misses collapse through singleflight.
func (s *service) GetOptions(ctx context.Context, branchID string) ([]StaffResponse, error) {
	cacheKey := GetStaffOptionsKey(branchID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []StaffResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		members, err := s.repo.FindOptionsByBranch(ctx, branchID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(members)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]StaffResponse), nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (StaffResponse, error) {
	member, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return StaffResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*member), nil
}

func (s *service) Update(ctx context.Context, branchID, id string, req UpdateStaffRequest) (StaffResponse, error) {
	joiningDate, err := time.Parse("2006-01-02", req.JoiningDate)
	if err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidJoiningDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update staff begin tx failed", zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	member, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return StaffResponse{}, mapRepositoryError(err)
	}

	member.FirstName = req.FirstName
	member.LastName = req.LastName
	member.Email = req.Email
	member.Phone = req.Phone
	member.RoleTitle = req.RoleTitle
	member.ClassID = uuidPtr(req.ClassID)
	member.JoiningDate = joiningDate
	if req.Active != nil {
		member.Active = *req.Active
	}

	if err := qtx.Update(ctx, member); err != nil {
		s.logger.Error("update staff persist failed", zap.String("staff_id", id), zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update staff commit failed", zap.String("staff_id", id), zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateOptionsCache(ctx, branchID)

	return mapToResponse(*member), nil
}

func (s *service) Delete(ctx context.Context, branchID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByIDAndBranch(ctx, branchID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, branchID, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx, branchID)
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, branchID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetStaffOptionsKey(branchID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate staff options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func uuidPtr(v string) *uuid.UUID {
	if v == "" {
		return nil
	}
	parsed, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &parsed
}

func mapToResponse(member Staff) StaffResponse {
	resp := StaffResponse{
		ID:          member.ID.String(),
		BranchID:    member.BranchID.String(),
		StaffNumber: member.StaffNumber,
		FirstName:   member.FirstName,
		LastName:    member.LastName,
		Email:       member.Email,
		Phone:       member.Phone,
		RoleTitle:   member.RoleTitle,
		JoiningDate: member.JoiningDate.Format("2006-01-02"),
		Active:      member.Active,
	}
	if member.ClassID != nil {
		resp.ClassID = member.ClassID.String()
	}
	return resp
}

func mapToListResponse(members []Staff) []StaffResponse {
	resp := make([]StaffResponse, len(members))
	for i, member := range members {
		resp[i] = mapToResponse(member)
	}
	return resp
}
