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

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in-progress completed cancelled"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"dueDate"`
	TeamID      uint       `json:"team" validate:"required"`
	AssignedTo  *uint      `json:"assignedTo"`
}

// UpdateTaskRequest uses pointers so present-but-restricted fields can be
// told apart from absent ones. The owning team is not updatable.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in-progress completed cancelled"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *uint      `json:"assignedTo"`
}

// touchesMoreThanStatus reports whether the request carries any field a
// plain member is not allowed to change.
func (r UpdateTaskRequest) touchesMoreThanStatus() bool {
	return r.Title != nil || r.Description != nil || r.Priority != nil ||
		r.DueDate != nil || r.AssignedTo != nil
}

type TaskController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewTaskController(db *gorm.DB, logger *logrus.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

func loadTask(db *gorm.DB, id string) (*models.Task, error) {
	return loadTaskByID(db, utils.ParseUint(id))
}

func loadTaskByID(db *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task
	err := db.
		Preload("Team").
		Preload("AssignedTo").
		Preload("CreatedBy").
		First(&task, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFound("Task not found")
		}
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task in a team the caller belongs to.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	team, err := loadTeamByID(tc.DB, req.TeamID)
	if err != nil {
		return err
	}

	if !policy.Can(team, userID, policy.TaskCreate) {
		return utils.Forbidden("You must be a team member to create tasks")
	}

	if req.AssignedTo != nil && !policy.IsMember(team, *req.AssignedTo) {
		return utils.ValidationError("Cannot assign task to non-team member")
	}

	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		TeamID:       req.TeamID,
		AssignedToID: req.AssignedTo,
		CreatedByID:  userID,
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if err := tc.DB.Create(&task).Error; err != nil {
		return err
	}

	created, err := loadTaskByID(tc.DB, task.ID)
	if err != nil {
		return err
	}

	tc.Logger.WithFields(logrus.Fields{
		"taskId": task.ID,
		"teamId": task.TeamID,
		"userId": userID,
	}).Info("task created")

	return utils.SuccessResponse(c, fiber.StatusCreated, "Task created successfully", created)
}

// GetTeamTasks lists a team's tasks, newest first, with optional
// status/priority/assignedTo filters. Members only.
func (tc *TaskController) GetTeamTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	team, err := loadTeam(tc.DB, c.Params("teamId"))
	if err != nil {
		return err
	}

	if !policy.Can(team, userID, policy.TaskView) {
		return utils.Forbidden("You are not a member of this team")
	}

	query := tc.DB.Where("team_id = ?", team.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		query = query.Where("assigned_to_id = ?", utils.ParseUint(assignedTo))
	}

	var tasks []models.Task
	err = query.
		Preload("AssignedTo").
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return err
	}

	return utils.ListResponse(c, tasks, len(tasks))
}

// GetMyTasks lists the tasks assigned to the caller across all teams.
func (tc *TaskController) GetMyTasks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	query := tc.DB.Where("assigned_to_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var tasks []models.Task
	err := query.
		Preload("Team").
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return err
	}

	return utils.ListResponse(c, tasks, len(tasks))
}

// GetTask returns a single task; members of its team only.
func (tc *TaskController) GetTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	task, err := loadTask(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	team, err := loadTeamByID(tc.DB, task.TeamID)
	if err != nil {
		return err
	}

	if !policy.Can(team, userID, policy.TaskView) {
		return utils.Forbidden("You are not authorized to view this task")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "", task)
}

// UpdateTask applies role-gated field updates. Admins and managers may
// change any field of any team task; members may only change the status of a
// task assigned to them, and a request carrying any other field is rejected
// outright rather than partially applied.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	task, err := loadTask(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	team, err := loadTeamByID(tc.DB, task.TeamID)
	if err != nil {
		return err
	}

	member := policy.MemberOf(team, userID)
	if member == nil {
		return utils.Forbidden("You are not authorized to update this task")
	}

	if !policy.Allows(member.Role, policy.TaskUpdateAny) {
		if !policy.Allows(member.Role, policy.TaskUpdateOwnStatus) {
			return utils.Forbidden("You are not authorized to update this task")
		}
		if task.AssignedToID == nil || *task.AssignedToID != userID {
			return utils.Forbidden("You can only update your own tasks")
		}
		if req.touchesMoreThanStatus() {
			return utils.Forbidden("You can only update task status")
		}
	}

	if req.AssignedTo != nil && !policy.IsMember(team, *req.AssignedTo) {
		return utils.ValidationError("Cannot assign task to non-team member")
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.AssignedTo != nil {
		task.AssignedToID = req.AssignedTo
	}

	if err := tc.DB.Model(&models.Task{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":          task.Title,
			"description":    task.Description,
			"status":         task.Status,
			"priority":       task.Priority,
			"due_date":       task.DueDate,
			"assigned_to_id": task.AssignedToID,
		}).Error; err != nil {
		return err
	}

	updated, err := loadTask(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Task updated successfully", updated)
}

// DeleteTask removes a task. Task creator, or a team admin/manager.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	task, err := loadTask(tc.DB, c.Params("id"))
	if err != nil {
		return err
	}

	team, err := loadTeamByID(tc.DB, task.TeamID)
	if err != nil {
		return err
	}

	if !policy.IsMember(team, userID) {
		return utils.Forbidden("You are not authorized to delete this task")
	}

	if !policy.CanDeleteTask(team, task, userID) {
		return utils.Forbidden("Only task creator or team admin/manager can delete tasks")
	}

	if err := tc.DB.Delete(&models.Task{}, task.ID).Error; err != nil {
		return err
	}

	tc.Logger.WithFields(logrus.Fields{"taskId": task.ID, "userId": userID}).Info("task deleted")

	return utils.SuccessResponse(c, fiber.StatusOK, "Task deleted successfully", nil)
}
