// Package policy resolves team membership and role-based permissions. It is
// the single authorization entry point: controllers never test roles inline.
// All functions are pure over an already-loaded team.
package policy

import "taskflow/models"

// Action identifies an operation subject to a permission check.
type Action string

const (
	TeamUpdate       Action = "team.update"
	TeamAddMember    Action = "team.add_member"
	TeamRemoveMember Action = "team.remove_member"
	TeamDelete       Action = "team.delete"

	TaskCreate          Action = "task.create"
	TaskView            Action = "task.view"
	TaskUpdateAny       Action = "task.update_any"
	TaskUpdateOwnStatus Action = "task.update_own_status"
	TaskDeleteAny       Action = "task.delete_any"
)

// rolePermissions is the permission table keyed by (role, action).
var rolePermissions = map[string]map[Action]bool{
	models.RoleAdmin: {
		TeamUpdate:       true,
		TeamAddMember:    true,
		TeamRemoveMember: true,
		TaskCreate:       true,
		TaskView:         true,
		TaskUpdateAny:    true,
		TaskDeleteAny:    true,
	},
	models.RoleManager: {
		TaskCreate:    true,
		TaskView:      true,
		TaskUpdateAny: true,
		TaskDeleteAny: true,
	},
	models.RoleMember: {
		TaskCreate:          true,
		TaskView:            true,
		TaskUpdateOwnStatus: true,
	},
}

// MemberOf returns the membership entry for userID, or nil when the user is
// not a member of team. Membership lists are small; a linear scan is fine.
func MemberOf(team *models.Team, userID uint) *models.TeamMember {
	for i := range team.Members {
		if team.Members[i].UserID == userID {
			return &team.Members[i]
		}
	}
	return nil
}

// IsMember reports whether userID belongs to team.
func IsMember(team *models.Team, userID uint) bool {
	return MemberOf(team, userID) != nil
}

// Allows consults the permission table for a bare (role, action) pair.
func Allows(role string, action Action) bool {
	return rolePermissions[role][action]
}

// Can decides whether userID may perform action on team. Two overrides sit
// outside the role table: deleting a team is reserved for its creator
// regardless of role, and the creator may always update the team.
func Can(team *models.Team, userID uint, action Action) bool {
	if action == TeamDelete {
		return team.CreatorID == userID
	}

	member := MemberOf(team, userID)
	if member == nil {
		return false
	}

	if action == TeamUpdate && team.CreatorID == userID {
		return true
	}

	return Allows(member.Role, action)
}

// CanDeleteTask decides task deletion: the task's creator may delete it, as
// may any member whose role carries task.delete_any.
func CanDeleteTask(team *models.Team, task *models.Task, userID uint) bool {
	member := MemberOf(team, userID)
	if member == nil {
		return false
	}
	if task.CreatedByID == userID {
		return true
	}
	return Allows(member.Role, TaskDeleteAny)
}
