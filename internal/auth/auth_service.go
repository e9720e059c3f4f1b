package auth

import (
	"context"
	"os"
	"time"

	autherrors "verticx/internal/auth/errors"
	"verticx/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo Repository
	rbac rbac.Service
}

func NewService(repo Repository, rbacService rbac.Service) Service {
	return &service{repo: repo, rbac: rbacService}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// Warm the branch policy so the first authorized request does not pay
	// the policy load.
	if err := s.rbac.LoadBranchPolicy(user.BranchID.String()); err != nil {
		return "", "", AuthResponse{}, err
	}

	accessToken, err := s.generateToken(user, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(user, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, mapToResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	newAccessToken, err := s.generateToken(user, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(user, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, mapToResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToResponse(user)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user := &User{
		ID:       uuid.New(),
		BranchID: branchID,
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}
	if req.StaffID != "" {
		staffID, err := uuid.Parse(req.StaffID)
		if err != nil {
			return AuthResponse{}, autherrors.ErrInvalidUserID
		}
		user.StaffID = &staffID
		if user.Role == "" {
			user.Role = rbac.RoleTeacher
		}
	}
	if req.StudentID != "" {
		studentID, err := uuid.Parse(req.StudentID)
		if err != nil {
			return AuthResponse{}, autherrors.ErrInvalidUserID
		}
		user.StudentID = &studentID
		if user.Role == "" {
			user.Role = rbac.RoleStudent
		}
	}
	if user.Role == "" {
		user.Role = rbac.RoleAdmin
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	if err := s.rbac.LoadBranchPolicy(branchID.String()); err != nil {
		return AuthResponse{}, err
	}

	return mapToResponse(user), nil
}

func (s *service) generateToken(user *User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID.String(),
		"branch_id": user.BranchID.String(),
		"role":      user.Role,
		"exp":       time.Now().Add(expiry).Unix(),
	}
	if user.StaffID != nil {
		claims["staff_id"] = user.StaffID.String()
	}
	if user.StudentID != nil {
		claims["student_id"] = user.StudentID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToResponse(user *User) AuthResponse {
	resp := AuthResponse{
		ID:       user.ID.String(),
		BranchID: user.BranchID.String(),
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
	}
	if user.StaffID != nil {
		resp.StaffID = user.StaffID.String()
	}
	if user.StudentID != nil {
		resp.StudentID = user.StudentID.String()
	}
	return resp
}
