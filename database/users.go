// users.go - User repository over the users collection

package database

import (
	"strings" // Blank checks

	"golang.org/x/crypto/bcrypt" // Password hashing

	"go-discovery-backend/apperrors" // Error kinds
	"go-discovery-backend/models"    // Stored record types
)

type Users struct { // Repository for user records
	store Store
	cost  int // bcrypt cost
}

func NewUsers(store Store) *Users {
	return &Users{store: store, cost: bcrypt.DefaultCost}
}

func (r *Users) all() []models.User {
	users := []models.User{}              // Empty unless stored
	r.store.Read(CollectionUsers, &users) // Load the whole collection
	return users
}

func (r *Users) FindByUsername(username string) (*models.User, error) {
	for _, u := range r.all() {
		if u.Username == username { // Exact, case-sensitive
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

func (r *Users) FindByID(id string) (*models.User, error) {
	for _, u := range r.all() {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

// List returns every user without its password hash.
func (r *Users) List() []models.PublicUser {
	users := r.all()
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public()) // Strip the hash
	}
	return out
}

// Create hashes the password and appends the user. Usernames are unique and case-sensitive.
func (r *Users) Create(username, password, role string) (models.PublicUser, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.PublicUser{}, apperrors.Validation("Username and password are required")
	}
	if role == "" {
		role = models.RoleUser // Default role
	}
	if !models.ValidRole(role) {
		return models.PublicUser{}, apperrors.Validation("Role must be admin or user")
	}

	users := r.all()
	for _, u := range users {
		if u.Username == username { // Exact, case-sensitive
			return models.PublicUser{}, apperrors.New(apperrors.ErrDuplicateUsername, "Username already exists")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost) // Hash password
	if err != nil {
		return models.PublicUser{}, err
	}
	user := models.User{
		ID:           newID("user"),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now(),
	}
	users = append(users, user) // Append new user
	if err := r.store.Write(CollectionUsers, users); err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdatePassword replaces the stored hash and stamps updated_at.
func (r *Users) UpdatePassword(id, newPassword string) error {
	if newPassword == "" {
		return apperrors.Validation("New password is required")
	}
	users := r.all()
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperrors.NotFound("User not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), r.cost) // Hash new password
	if err != nil {
		return err
	}
	ts := now()
	users[idx].PasswordHash = string(hash)
	users[idx].UpdatedAt = &ts // Stamp the change
	return r.store.Write(CollectionUsers, users)
}

func (r *Users) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil // Check password
}

// Delete removes the user. It does not stop an admin deleting their own
// account; that rule lives in the HTTP handler.
func (r *Users) Delete(id string) error {
	users := r.all()
	kept := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return apperrors.NotFound("User not found")
	}
	return r.store.Write(CollectionUsers, kept) // Save the rest
}
