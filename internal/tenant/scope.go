package tenant

import "gorm.io/gorm"

func Scope(branchID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("branch_id = ?", branchID)
	}
}
