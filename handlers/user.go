// user.go - Handles login, password changes and user administration

package handlers

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"go-discovery-backend/apperrors"  // Error kinds
	"go-discovery-backend/middleware" // Current user from the token
)

type LoginInput struct { // Struct for login input
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct { // Struct for password change input
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type CreateUserInput struct { // Struct for admin user creation
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // defaults to "user"
}

type ResetPasswordInput struct { // Struct for admin password reset
	NewPassword string `json:"newPassword" binding:"required"`
}

// Login checks the credentials and returns a signed token with the public user.
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Username and password are required")
		return
	}

	// Unknown user and wrong password get the same reply
	user, err := h.repos.Users.FindByUsername(input.Username)
	if err != nil || !h.repos.Users.VerifyPassword(user, input.Password) {
		h.respondError(c, "login", apperrors.New(apperrors.ErrUnauthorized, "Invalid credentials"))
		return
	}

	token, err := h.tokens.Generate(user) // Sign token
	if err != nil {
		h.respondError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user.Public()}) // Return token and user
}

func (h *Handler) ChangePassword(c *gin.Context) { // Handler for changing the caller's password
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Current password and new password are required")
		return
	}

	user, err := h.repos.Users.FindByID(middleware.CurrentUserID(c)) // Load the caller
	if err != nil {
		h.respondError(c, "change password", err)
		return
	}
	if !h.repos.Users.VerifyPassword(user, input.CurrentPassword) { // Check current password
		h.respondError(c, "change password", apperrors.New(apperrors.ErrUnauthorized, "Current password is incorrect"))
		return
	}
	if err := h.repos.Users.UpdatePassword(user.ID, input.NewPassword); err != nil { // Store the new hash
		h.respondError(c, "change password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *Handler) CreateUser(c *gin.Context) { // Handler for creating a user
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "Username and password are required")
		return
	}
	user, err := h.repos.Users.Create(input.Username, input.Password, input.Role) // Hash and save user
	if err != nil {
		h.respondError(c, "create user", err)
		return
	}
	h.log.Info("user created", "user_id", user.ID, "role", user.Role, "by", middleware.CurrentUserID(c))
	c.JSON(http.StatusOK, gin.H{"user": user}) // Success response
}

func (h *Handler) ListUsers(c *gin.Context) { // Handler for listing users
	c.JSON(http.StatusOK, gin.H{"users": h.repos.Users.List()})
}

// ResetPassword sets a user's password without the current one.
func (h *Handler) ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		badRequest(c, "New password is required")
		return
	}
	if err := h.repos.Users.UpdatePassword(c.Param("userId"), input.NewPassword); err != nil { // Overwrite the hash
		h.respondError(c, "reset password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// DeleteUser removes a user. Admins cannot delete their own account.
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("userId")                // Target user
	if id == middleware.CurrentUserID(c) { // No self-deletion
		badRequest(c, "You cannot delete your own account")
		return
	}
	if err := h.repos.Users.Delete(id); err != nil { // Remove user
		h.respondError(c, "delete user", err)
		return
	}
	h.log.Info("user deleted", "user_id", id, "by", middleware.CurrentUserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
