package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/isdelr/jobboard-be/internal/database"
	"github.com/isdelr/jobboard-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	errDuplicateEmail  = apperr.New(apperr.ErrDuplicateEmail, "Email already used")
	errPasswordTooLong = apperr.New(apperr.ErrValidation, fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
)

// UserServiceProvider defines the interface for the credential store.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	FindByEmail(ctx context.Context, email string, includePassword bool) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// UserService stores user records. Passwords are hashed on write and only
// ever compared, never recovered.
type UserService struct {
	db     *sql.DB
	events EventServiceProvider
	cost   int
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService creates a new UserService hashing with the given bcrypt cost.
// events may be nil.
func NewUserService(db *sql.DB, events EventServiceProvider, bcryptCost int) *UserService {
	return &UserService{db: db, events: events, cost: bcryptCost, now: time.Now}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password. A duplicate email is
// detected both by a lookup and by the unique index, since two concurrent
// registrations can both pass the lookup.
func (s *UserService) Register(ctx context.Context, email, password string) (models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, apperr.New(apperr.ErrValidation, "email and password are required")
	}
	if len(password) > MaxPasswordBytes {
		return models.User{}, errPasswordTooLong
	}

	existing, err := s.FindByEmail(ctx, email, false)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, errDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.DefaultRole,
		CreatedAt:    s.now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.Role, database.FormatTime(user.CreatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, errDuplicateEmail
		}
		return models.User{}, fmt.Errorf("inserting user: %w", err)
	}

	record(ctx, s.events, models.EventUserRegister, "Account registered", user.ID)
	return user.Sanitized(), nil
}

// FindByEmail looks a user up by normalized email. The password hash is only
// loaded when includePassword is set. A missing user yields (nil, nil).
func (s *UserService) FindByEmail(ctx context.Context, email string, includePassword bool) (*models.User, error) {
	columns := "id, email, role, created_at"
	if includePassword {
		columns += ", password_hash"
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM users WHERE email = ?", NormalizeEmail(email))

	var user models.User
	var createdAt string
	dest := []any{&user.ID, &user.Email, &user.Role, &createdAt}
	if includePassword {
		dest = append(dest, &user.PasswordHash)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	if err := parseUserTime(&user, createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a single user by ID, without the password hash.
// A missing user yields (nil, nil).
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	var createdAt string
	row := s.db.QueryRowContext(ctx, "SELECT id, email, role, created_at FROM users WHERE id = ?", id)
	if err := row.Scan(&user.ID, &user.Email, &user.Role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	if err := parseUserTime(&user, createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password return the same apperr.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	if NormalizeEmail(email) == "" || password == "" || len(password) > MaxPasswordBytes {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	user, err := s.FindByEmail(ctx, email, true)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.unknownUserHash(), []byte(password))
		return models.User{}, apperr.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	record(ctx, s.events, models.EventUserLogin, "Signed in", user.ID)
	return user.Sanitized(), nil
}

func (s *UserService) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
	})
	return s.dummyHash
}

func parseUserTime(user *models.User, createdAt string) error {
	t, err := database.ParseTime(createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at for user %s: %w", user.ID, err)
	}
	user.CreatedAt = t
	return nil
}
