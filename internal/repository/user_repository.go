package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/social-feed-api/internal/model"
	"github.com/iliyamo/social-feed-api/internal/utils"
)

// UserRepo is the credential store: it owns every read and write of the
// `users` table, including the password hash that never leaves this
// boundary unhashed.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the registration fields into Create. Password is the
// plain text; it is hashed here so callers never handle the stored form.
type NewUser struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	BirthDate time.Time
	Password  string
}

const userColumns = "id,role,username,first_name,last_name,birth_date,email,password,created_at,updated_at"

// Create inserts a user with the default role and returns its ID. Unique
// index violations are mapped to ErrEmailExists/ErrUsernameExists by
// inspecting which key the MySQL 1062 error names.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, first_name, last_name, birth_date, password, role) VALUES (?,?,?,?,?,?,?)",
		email, nu.Username, nu.FirstName, nu.LastName, nu.BirthDate, hash, model.RoleUser)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// List returns one page of users ordered by id plus the total row count
// for pagination metadata.
func (r *UserRepo) List(ctx context.Context, page, perPage int) ([]model.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?",
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]model.User, 0, perPage)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Delete removes a user row. The access_tokens/posts/post_comments
// foreign keys cascade, but callers should revoke tokens first so
// revocation does not depend on FK enforcement alone. Returns
// sql.ErrNoRows when the user does not exist.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, query, arg))
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Role, &u.Username, &u.FirstName, &u.LastName,
		&u.BirthDate, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
