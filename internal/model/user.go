package model

import "time"

// User is an account that can publish bootcamps or write reviews
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal returns the request identity for this user
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user publisher"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateDetailsRequest is the body of PUT /auth/update-details
type UpdateDetailsRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest is the body of PUT /auth/update-password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// UserInput is the admin-writable view of a user. Password is only
// honored on create.
type UserInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user publisher admin"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// Input returns the writable fields of the user
func (u *User) Input() UserInput {
	return UserInput{Name: u.Name, Email: u.Email, Role: u.Role}
}

// Apply copies writable fields onto the user
func (u *User) Apply(in UserInput) {
	u.Name = in.Name
	u.Email = in.Email
	if in.Role != "" {
		u.Role = in.Role
	}
}
