package models

import "time"

// Per-team membership roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// Team groups users for collaboration. The creator is always present in
// Members with the admin role; that row is inserted in the same transaction
// that creates the team and can never be removed.
type Team struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatorID   uint   `gorm:"not null" json:"creatorId"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	Creator *User        `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember is one entry in a team's membership list.
type TeamMember struct {
	ID     uint `gorm:"primarykey" json:"-"`
	TeamID uint `gorm:"not null;uniqueIndex:idx_team_member" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex:idx_team_member;index" json:"userId"`

	Role     string    `gorm:"not null;default:'member'" json:"role"`
	JoinedAt time.Time `json:"joinedAt"`

	User User `json:"user"`
}
