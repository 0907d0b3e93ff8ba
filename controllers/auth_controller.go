package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskflow/models"
	"taskflow/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthController struct {
	DB     *gorm.DB
	Issuer *utils.TokenIssuer
	Logger *logrus.Logger
}

func NewAuthController(db *gorm.DB, issuer *utils.TokenIssuer, logger *logrus.Logger) *AuthController {
	return &AuthController{
		DB:     db,
		Issuer: issuer,
		Logger: logger,
	}
}

// Register creates a new account and signs the caller in.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if err := utils.ValidateEmailFormat(req.Email); err != nil {
		return err
	}

	var existingUser models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return utils.Conflict("User already exists with this email")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleMember,
		IsActive:     true,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return err
	}

	accessToken, refreshToken, err := ac.Issuer.Issue(user.ID)
	if err != nil {
		return err
	}

	ac.Logger.WithFields(logrus.Fields{"userId": user.ID}).Info("user registered")

	return utils.SuccessResponse(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Login verifies credentials and issues a token pair. A missing account, a
// wrong password and a deactivated account are deliberately indistinguishable
// to the caller.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var user models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&user).Error; err != nil || !user.IsActive {
		return utils.Unauthenticated("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return utils.Unauthenticated("Invalid credentials")
	}

	accessToken, refreshToken, err := ac.Issuer.Issue(user.ID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// RefreshToken exchanges a valid refresh token for a fresh pair.
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("Invalid request body")
	}

	if req.RefreshToken == "" {
		return utils.Unauthenticated("Refresh token required")
	}

	accessToken, refreshToken, err := ac.Issuer.Refresh(req.RefreshToken)
	if err != nil {
		return utils.Unauthenticated("Invalid refresh token")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "", fiber.Map{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// GetUser returns the authenticated caller's profile.
func (ac *AuthController) GetUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	return utils.SuccessResponse(c, fiber.StatusOK, "", user)
}
