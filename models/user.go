package models

import "time"

// User represents a registered account. The global Role field is
// informational only; authorization decisions are always made against the
// per-team membership role.
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'member'" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`
}
