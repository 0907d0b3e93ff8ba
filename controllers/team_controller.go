package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskflow/models"
	"taskflow/policy"
	"taskflow/utils"
)

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type AddMemberRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=admin manager member"`
}

type TeamController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewTeamController(db *gorm.DB, logger *logrus.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Logger: logger,
	}
}

// loadTeam fetches a team with its membership list (ordered by join time)
// and member profiles. Shared with the task controller.
func loadTeam(db *gorm.DB, id string) (*models.Team, error) {
	return loadTeamByID(db, utils.ParseUint(id))
}

func loadTeamByID(db *gorm.DB, id uint) (*models.Team, error) {
	var team models.Team
	err := db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Members.User").
		Preload("Creator").
		First(&team, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFound("Team not found")
		}
		return nil, err
	}
	return &team, nil
}

// CreateTeam creates a team and enrolls the creator as its admin member in
// the same transaction.
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	team := models.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
		IsActive:    true,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		member := models.TeamMember{
			TeamID:   team.ID,
			UserID:   userID,
			Role:     models.RoleAdmin,
			JoinedAt: time.Now(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return err
	}

	created, err := loadTeamByID(tc.DB, team.ID)
	if err != nil {
		return err
	}

	tc.Logger.WithFields(logrus.Fields{"teamId": team.ID, "creatorId": userID}).Info("team created")

	return utils.SuccessResponse(c, fiber.StatusCreated, "Team created successfully", created)
}

// GetMyTeams lists the active teams the caller belongs to, newest first.
func (tc *TeamController) GetMyTeams(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var teams []models.Team
	err := tc.DB.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND teams.is_active = ?", userID, true).
		Order("teams.created_at DESC").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Members.User").
		Preload("Creator").
		Find(&teams).Error
	if err != nil {
		return err
	}

	return utils.ListResponse(c, teams, len(teams))
}

// GetTeam returns a single team; members only.
func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	team, err := loadTeam(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	if !policy.IsMember(team, userID) {
		return utils.Forbidden("You are not a member of this team")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "", team)
}

// UpdateTeam renames a team or changes its description. Admins and the
// creator only.
func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	team, err := loadTeam(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	if !policy.Can(team, userID, policy.TeamUpdate) {
		return utils.Forbidden("Only team admins can update team details")
	}

	if req.Name != "" {
		team.Name = req.Name
	}
	if req.Description != "" {
		team.Description = req.Description
	}

	if err := tc.DB.Model(&models.Team{}).Where("id = ?", team.ID).
		Updates(map[string]interface{}{"name": team.Name, "description": team.Description}).Error; err != nil {
		return err
	}

	updated, err := loadTeamByID(tc.DB, team.ID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Team updated successfully", updated)
}

// AddMember enrolls an existing user into the team. Admins only.
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	team, err := loadTeam(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	if !policy.Can(team, userID, policy.TeamAddMember) {
		return utils.Forbidden("Only team admins can add members")
	}

	var userToAdd models.User
	if err := tc.DB.First(&userToAdd, req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.NotFound("User not found")
		}
		return err
	}

	if policy.IsMember(team, req.UserID) {
		return utils.ValidationError("User is already a team member")
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	member := models.TeamMember{
		TeamID:   team.ID,
		UserID:   req.UserID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := tc.DB.Create(&member).Error; err != nil {
		return err
	}

	updated, err := loadTeamByID(tc.DB, team.ID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Member added successfully", updated)
}

// RemoveMember drops a member from the team. Admins only; the creator can
// never be removed.
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	team, err := loadTeam(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	if !policy.Can(team, userID, policy.TeamRemoveMember) {
		return utils.Forbidden("Only team admins can remove members")
	}

	targetID := utils.ParseUint(c.Params("userId"))
	if targetID == team.CreatorID {
		return utils.ValidationError("Cannot remove team creator")
	}

	if err := tc.DB.Where("team_id = ? AND user_id = ?", team.ID, targetID).
		Delete(&models.TeamMember{}).Error; err != nil {
		return err
	}

	updated, err := loadTeamByID(tc.DB, team.ID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Member removed successfully", updated)
}

// DeleteTeam removes the team and its membership list. Creator only,
// regardless of role.
func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	team, err := loadTeam(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	if !policy.Can(team, userID, policy.TeamDelete) {
		return utils.Forbidden("Only team creator can delete the team")
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, team.ID).Error
	})
	if err != nil {
		return err
	}

	tc.Logger.WithFields(logrus.Fields{"teamId": team.ID, "userId": userID}).Info("team deleted")

	return utils.SuccessResponse(c, fiber.StatusOK, "Team deleted successfully", nil)
}
