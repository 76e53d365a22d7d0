package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"unfake/internal/auth"
	"unfake/internal/cache"
	"unfake/internal/middleware"
	"unfake/internal/models"
	"unfake/internal/observability"
	"unfake/internal/repository"
	"unfake/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Client-facing messages of the authentication flow.
const (
	MsgMissingSignupFields = "Username, email, and password are required."
	MsgInvalidCredentials  = "Invalid credentials."
	MsgAccountSuspended    = "Account is suspended."
	MsgInvalidToken        = "Token is not valid."
)

// SignupInput is the payload of an account registration.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the public view of the user returned at login.
type LoginUser struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// AuthService registers users, logs them in and authenticates bearer tokens.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	cache      *cache.Cache
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService returns a new AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, c *cache.Cache) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		cache:      c,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Signup creates an active user account. Duplicate usernames and emails
// are reported with the same message.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.UserSummary, error) {
	username := strings.TrimSpace(in.Username)
	email := validation.NormalizeEmail(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError(MsgMissingSignupFields)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, storeError(ctx, "signup.exists", err)
	}
	if taken {
		observability.AuthEvents.WithLabelValues("signup", "conflict").Inc()
		return nil, repository.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, storeError(ctx, "signup.hash", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        models.NewID(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleUser,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent signup can still win the unique index
		if errors.Is(err, repository.ErrDuplicateUser) {
			observability.AuthEvents.WithLabelValues("signup", "conflict").Inc()
		}
		return nil, storeError(ctx, "signup.create", err)
	}

	observability.AuthEvents.WithLabelValues("signup", "success").Inc()
	middleware.Logger.InfoContext(ctx, "user signed up", slog.String("new_user_id", user.ID))

	summary := user.Summary()
	return &summary, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		observability.AuthEvents.WithLabelValues("login", "invalid").Inc()
		return nil, models.NewUnauthorizedError(MsgInvalidCredentials)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// spend the same bcrypt work as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(password))
			observability.AuthEvents.WithLabelValues("login", "invalid").Inc()
			return nil, models.NewUnauthorizedError(MsgInvalidCredentials)
		}
		return nil, storeError(ctx, "login.lookup", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.AuthEvents.WithLabelValues("login", "invalid").Inc()
		return nil, models.NewUnauthorizedError(MsgInvalidCredentials)
	}

	if user.Status.IsBanned() {
		observability.AuthEvents.WithLabelValues("login", "suspended").Inc()
		return nil, models.NewForbiddenError(MsgAccountSuspended)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, storeError(ctx, "login.issue", err)
	}

	observability.AuthEvents.WithLabelValues("login", "success").Inc()
	return &LoginResult{
		Token: token,
		User:  LoginUser{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}

func (s *AuthService) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.bcryptCost)
	})
	return s.dummyHash
}

// Authenticate parses a bearer token and refuses principals whose account
// no longer exists or is suspended.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	principal, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Principal{}, models.NewUnauthorizedError(MsgInvalidToken)
	}

	status, err := s.standing(ctx, principal.ID)
	if err != nil {
		return auth.Principal{}, err
	}
	if status.IsBanned() {
		return auth.Principal{}, models.NewForbiddenError(MsgAccountSuspended)
	}
	return principal, nil
}

func (s *AuthService) standing(ctx context.Context, userID string) (models.UserStatus, error) {
	if status, ok := s.cache.Standing(ctx, userID); ok {
		return status, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", models.NewUnauthorizedError(MsgInvalidToken)
		}
		return "", storeError(ctx, "auth.standing", err)
	}

	s.cache.SetStanding(ctx, userID, user.Status)
	return user.Status, nil
}
