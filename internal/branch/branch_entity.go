package branch

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Branch struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(150);not null"`
	Email    string    `gorm:"type:varchar(255);index"`
	Phone    string    `gorm:"type:varchar(30)"`
	Address  string    `gorm:"type:varchar(255)"`
	IsActive bool      `gorm:"not null;default:true"`

	CreatedAt time.Time      `gorm:"not null;default:now()"`
	UpdatedAt time.Time      `gorm:"not null;default:now()"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Branch) TableName() string {
	return "branches"
}
