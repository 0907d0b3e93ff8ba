package models

import "time"

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task is a unit of work owned by a team. TeamID is immutable after
// creation; the assignee, when set, must be a member of that team.
type Task struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Status      string     `gorm:"default:'todo';index:idx_team_status" json:"status"`
	Priority    string     `gorm:"default:'medium'" json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`

	TeamID       uint  `gorm:"not null;index:idx_team_status" json:"teamId"`
	AssignedToID *uint `gorm:"index" json:"assignedToId,omitempty"`
	CreatedByID  uint  `gorm:"not null" json:"createdById"`

	Team       *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedBy  *User `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}
