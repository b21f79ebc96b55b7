package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/apperrors"
	"storefront-api/middleware"
	"storefront-api/models"
	"storefront-api/services"
)

// UserController handles HTTP requests for accounts and authentication.
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register handles POST /api/users/register.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	result, svcErr := uc.userService.Register(c.Request.Context(), &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    result.User,
		"token":   result.Token,
	})
}

// RegisterAdmin handles POST /api/users/register-admin.
func (uc *UserController) RegisterAdmin(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	result, svcErr := uc.userService.RegisterAdmin(c.Request.Context(), &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin registered successfully",
		"user":    result.User,
		"token":   result.Token,
	})
}

// Login handles POST /api/users/login.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Email and password are required"))
		return
	}

	result, svcErr := uc.userService.Login(c.Request.Context(), &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    result.User,
		"token":   result.Token,
	})
}

// GetUser handles GET /api/users/:userId. A user may fetch only their
// own record; admins may fetch anyone's.
func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("id")
	if !middleware.IsOwnerOrAdmin(c, userID) {
		apperrors.Respond(c, apperrors.Forbidden("You can only access your own account"))
		return
	}

	user, svcErr := uc.userService.GetByID(c.Request.Context(), userID)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateUser handles PUT /api/users/:userId.
func (uc *UserController) UpdateUser(c *gin.Context) {
	userID := c.Param("id")
	if !middleware.IsOwnerOrAdmin(c, userID) {
		apperrors.Respond(c, apperrors.Forbidden("You can only update your own account"))
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	user, svcErr := uc.userService.Update(c.Request.Context(), userID, &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

// Profile handles GET /api/users/profile/me.
func (uc *UserController) Profile(c *gin.Context) {
	callerID, _ := middleware.CurrentUser(c)
	user, svcErr := uc.userService.GetByID(c.Request.Context(), callerID)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UpdateProfile handles PUT /api/users/profile/me.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	callerID, _ := middleware.CurrentUser(c)
	user, svcErr := uc.userService.Update(c.Request.Context(), callerID, &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ListUsers handles GET /api/users (admin only).
func (uc *UserController) ListUsers(c *gin.Context) {
	users, svcErr := uc.userService.List(c.Request.Context())
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

// DeleteUser handles DELETE /api/users/:userId (admin only).
func (uc *UserController) DeleteUser(c *gin.Context) {
	callerID, _ := middleware.CurrentUser(c)
	user, svcErr := uc.userService.DeleteByID(c.Request.Context(), c.Param("id"), callerID)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
		"user":    gin.H{"_id": user.ID, "email": user.Email},
	})
}

// DeleteUserByEmail handles DELETE /api/users/email/:email (admin only).
func (uc *UserController) DeleteUserByEmail(c *gin.Context) {
	user, svcErr := uc.userService.DeleteByEmail(c.Request.Context(), c.Param("email"))
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
		"user":    gin.H{"_id": user.ID, "email": user.Email},
	})
}

// Promote handles PUT /api/users/:id/promote (admin + shared secret).
func (uc *UserController) Promote(c *gin.Context) {
	var req models.PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Admin secret is required"))
		return
	}

	user, svcErr := uc.userService.Promote(c.Request.Context(), c.Param("id"), &req)
	if svcErr != nil {
		apperrors.Respond(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User promoted to admin",
		"user":    user,
	})
}
