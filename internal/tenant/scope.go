package tenant

import "gorm.io/gorm"

// Scope limits a query to the rows of one company. Every leave and balance
// query goes through it; the company comes from the caller's token.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
