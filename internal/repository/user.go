package repository

import (
	"context"
	"fmt"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// UserSchema lists the fields users can be filtered, sorted and selected by.
// The password hash is deliberately absent.
var UserSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":      query.StringField(),
		"email":     query.StringField(),
		"role":      query.StringField(),
		"createdAt": query.TimeField(),
	},
}

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A taken email fails with database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	// Default to user role if not specified
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	query := `
		CREATE user CONTENT {
			name: $name,
			email: $email,
			role: $role,
			password: $password,
			createdAt: time::now()
		}
	`
	vars := map[string]interface{}{
		"name":     user.Name,
		"email":    user.Email,
		"role":     string(role),
		"password": user.PasswordHash,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	created, err := parseUserResult(row)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return notFoundAsNil[model.User](nil, err)
	}
	return notFoundAsNil[model.User](parseUserResult(result))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return notFoundAsNil[model.User](nil, err)
	}
	return notFoundAsNil[model.User](parseUserResult(result))
}

// Update writes name, email and role
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE type::record($id) MERGE {
			name: $name,
			email: $email,
			role: $role
		} RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	row, err := firstRow(result)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	updated, err := parseUserResult(row)
	if err != nil {
		return err
	}
	*user = *updated
	return nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	query := `UPDATE type::record($id) SET password = $password`
	vars := map[string]interface{}{
		"id":       userID,
		"password": hash,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// List returns one page of users
func (r *UserRepository) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.User], error) {
	return listRecords(ctx, r.db, model.TableUser, UserSchema, q, parseUserResult)
}

func parseUserResult(result interface{}) (*model.User, error) {
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}

	user, err := decodeRecord[model.User](data)
	if err != nil {
		return nil, err
	}

	// Set the hash field manually (skipped by json:"-")
	user.PasswordHash = getString(data, "password")
	return user, nil
}
