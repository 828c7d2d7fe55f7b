package services

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/apperr"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, username, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetByID(id string) (models.User, error)
	GetByUsername(username string) (models.User, error)
	GetByEmail(email string) (models.User, error)
	Update(id string, update models.UserUpdate) (models.User, error)
	Delete(id string) error
	List(limit, offset int) ([]models.User, error)
}

// UserService provides credential storage and the login flow.
type UserService struct {
	db     *sql.DB
	hasher *auth.Hasher
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher *auth.Hasher, events EventServiceProvider) *UserService {
	return &UserService{db: db, hasher: hasher, events: events}
}

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
)

const userColumns = "id, email, username, password_hash, role, is_active, created_at, updated_at"

// Register validates the input, hashes the password and creates a new
// account with the ordinary user role. Uniqueness of email and username is
// enforced by the database, so a race between two concurrent registrations
// leaves exactly one record.
func (s *UserService) Register(email, username, password string) (models.User, error) {
	if !emailPattern.MatchString(email) {
		return models.User{}, fmt.Errorf("%w: invalid email address", apperr.ErrValidation)
	}
	if !usernamePattern.MatchString(username) {
		return models.User{}, fmt.Errorf("%w: username must be 3-50 characters, alphanumeric with optional _ or -", apperr.ErrValidation)
	}
	if len(password) < 8 || len(password) > 100 {
		return models.User{}, fmt.Errorf("%w: password must be 8-100 characters", apperr.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, email, username, password_hash, role, is_active, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Username, user.PasswordHash, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return models.User{}, apperr.ErrDuplicateEmail
		}
		if isUniqueViolation(err, "users.username") {
			return models.User{}, apperr.ErrDuplicateUsername
		}
		return models.User{}, err
	}

	s.events.Record("user.register", "info", "New user registered: "+user.Username, &user.ID)
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords share one error so callers cannot enumerate accounts.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil || !s.hasher.Verify(password, user.PasswordHash) {
		log.Warn().Str("username", username).Msg("Failed authentication attempt")
		return models.User{}, apperr.ErrInvalidCredentials
	}
	if !user.IsActive {
		return models.User{}, apperr.ErrAccountInactive
	}

	s.events.Record("user.login", "info", "User logged in: "+user.Username, &user.ID)
	return user, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(id string) (models.User, error) {
	return s.getOne("SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByUsername retrieves a single user by their username.
func (s *UserService) GetByUsername(username string) (models.User, error) {
	return s.getOne("SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

// GetByEmail retrieves a single user by their email.
func (s *UserService) GetByEmail(email string) (models.User, error) {
	return s.getOne("SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (s *UserService) getOne(query string, arg any) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(query, arg)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Update applies a partial update. Only non-nil fields mutate; updated_at
// is refreshed on every successful mutation.
func (s *UserService) Update(id string, update models.UserUpdate) (models.User, error) {
	sets := []string{}
	args := []any{}

	if update.Email != nil {
		if !emailPattern.MatchString(*update.Email) {
			return models.User{}, fmt.Errorf("%w: invalid email address", apperr.ErrValidation)
		}
		sets = append(sets, "email = ?")
		args = append(args, *update.Email)
	}
	if update.Username != nil {
		if !usernamePattern.MatchString(*update.Username) {
			return models.User{}, fmt.Errorf("%w: username must be 3-50 characters, alphanumeric with optional _ or -", apperr.ErrValidation)
		}
		sets = append(sets, "username = ?")
		args = append(args, *update.Username)
	}
	if update.Password != nil {
		if len(*update.Password) < 8 || len(*update.Password) > 100 {
			return models.User{}, fmt.Errorf("%w: password must be 8-100 characters", apperr.ErrValidation)
		}
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		sets = append(sets, "password_hash = ?")
		args = append(args, hash)
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return models.User{}, fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, *update.Role)
		}
		sets = append(sets, "role = ?")
		args = append(args, *update.Role)
	}
	if update.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *update.IsActive)
	}

	if len(sets) == 0 {
		return s.GetByID(id)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	res, err := s.db.Exec(query, args...)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return models.User{}, apperr.ErrDuplicateEmail
		}
		if isUniqueViolation(err, "users.username") {
			return models.User{}, apperr.ErrDuplicateUsername
		}
		return models.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.User{}, apperr.ErrNotFound
	}
	return s.GetByID(id)
}

// Delete removes a user inside a transaction. The tasks table cascades on
// the owner_id foreign key, so owned tasks go with the account.
func (s *UserService) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.events.Record("user.delete", "warn", "User account deleted", &id)
	return nil
}

// List retrieves users ordered by creation time.
func (s *UserService) List(limit, offset int) ([]models.User, error) {
	rows, err := s.db.Query("SELECT "+userColumns+" FROM users ORDER BY created_at LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
