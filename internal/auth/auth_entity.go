package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`
	// A user account is linked to at most one staff or student record.
	StaffID   *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	StudentID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password string `gorm:"type:varchar(255);not null"`
	Role     string `gorm:"type:varchar(50);not null;default:'Teacher'"`
	IsActive bool   `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
