package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/models"
	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/security"
	"github.com/ManuelReschke/NewsFox/internal/pkg/usercontext"
)

// AuthController handles registration, login and token introspection.
type AuthController struct {
	users repository.UserRepository
}

// NewAuthController creates an auth controller backed by the user repository
func NewAuthController(users repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new user account. The raw password only ever
// exists in the request scope; it is hashed before anything is stored and
// never logged.
func (ac *AuthController) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, ErrCodeValidation, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "required"
	}
	if req.Email == "" {
		fields["email"] = "required"
	}
	if req.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		return jsonValidationError(c, fields)
	}

	exists, err := ac.users.EmailExists(req.Email)
	if err != nil {
		fiberlog.Errorf("register: email lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Registration failed")
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, ErrCodeDuplicateEmail, "Email is already registered")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonValidationError(c, validationFields(err))
	}

	if err := ac.users.Create(user); err != nil {
		fiberlog.Errorf("register: user create failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin verifies credentials and issues a bearer token. Unknown email
// and wrong password return the identical response so the two cases cannot
// be told apart.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, ErrCodeValidation, "Invalid request body")
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "required"
	}
	if req.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		return jsonValidationError(c, fields)
	}

	user, err := ac.users.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalidCredentials(c)
		}
		fiberlog.Errorf("login: user lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Login failed")
	}

	if !user.CheckPassword(req.Password) {
		return invalidCredentials(c)
	}

	token, err := security.IssueToken(user.ID, security.MustTokenSecret(), security.TokenTTL())
	if err != nil {
		fiberlog.Errorf("login: token issue failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "Login failed")
	}

	// Best-effort last-login bookkeeping
	now := time.Now()
	user.LastLoginAt = &now
	if err := ac.users.Update(user); err != nil {
		fiberlog.Warnf("login: failed to update last_login_at for user %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// HandleMe resolves the bearer token to the current user.
func (ac *AuthController) HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, "Login required")
	}

	user, err := ac.users.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, ErrCodeUnauthorized, "Unknown user")
		}
		fiberlog.Errorf("me: user lookup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, ErrCodeInternal, "User lookup failed")
	}

	return c.JSON(user)
}

func invalidCredentials(c *fiber.Ctx) error {
	return jsonError(c, fiber.StatusUnauthorized, ErrCodeInvalidCredentials, "Email or password is incorrect")
}
