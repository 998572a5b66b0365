package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/benx421/digital-bank/internal/config"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SignupInput carries the fields accepted at signup
type SignupInput struct {
	Email     string
	Password  string
	Firstname string
	Lastname  string
	Role      models.Role
}

// AuthResult is an authenticated user with a freshly issued token pair
type AuthResult struct {
	AccessExpiresAt  time.Time    `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time    `json:"refreshExpiresAt"`
	User             *models.User `json:"user"`
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
}

// SignupStatus reports the global signup window on the server clock
type SignupStatus struct {
	ServerTime       time.Time  `json:"serverTime"`
	LastSignupTime   *time.Time `json:"lastSignupTime"`
	RemainingSeconds int64      `json:"remainingSeconds"`
	CooldownMinutes  int        `json:"cooldownMinutes"`
	CanSignup        bool       `json:"canSignup"`
}

// AuthService handles signup, login and opaque session tokens
type AuthService struct {
	store      repository.Store
	logger     *slog.Logger
	now        func() time.Time
	cfg        config.AuthConfig
	bcryptCost int
}

// NewAuthService creates a new AuthService
func NewAuthService(store repository.Store, cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:      store,
		cfg:        cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Signup registers a user and signs them in. Only one signup succeeds per
// cooldown window across the whole bank.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	user, err := s.newUser(in, s.cfg.AllowPrivilegedSignup)
	if err != nil {
		return nil, err
	}

	var result *AuthResult
	err = s.store.WithTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		result, err = s.performSignup(ctx, repos, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return result, nil
}

func (s *AuthService) newUser(in SignupInput, allowPrivileged bool) (*models.User, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, newError(ErrCodeValidation, err.Error())
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, newError(ErrCodeValidation, err.Error())
	}

	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() {
		return nil, newError(ErrCodeValidation, fmt.Sprintf("invalid role %q", in.Role))
	}
	if role != models.RoleCustomer && !allowPrivileged {
		return nil, newError(ErrCodeForbidden, "privileged roles cannot be requested at signup")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	now := s.now()
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Firstname:    strings.TrimSpace(in.Firstname),
		Lastname:     strings.TrimSpace(in.Lastname),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// performSignup claims the signup window and inserts the user atomically
func (s *AuthService) performSignup(ctx context.Context, repos repository.Repositories, user *models.User) (*AuthResult, error) {
	if err := repos.SignupThrottle.Claim(ctx, user.CreatedAt, s.cfg.SignupCooldown); err != nil {
		if errors.Is(err, models.ErrSignupCooldown) {
			status, statusErr := s.signupStatus(ctx, repos.SignupThrottle)
			if statusErr != nil {
				return nil, internalError("failed to read signup status", statusErr)
			}
			return nil, newError(ErrCodeSignupCooldown,
				fmt.Sprintf("signups are temporarily limited, try again in %d seconds", status.RemainingSeconds))
		}
		return nil, internalError("failed to claim signup window", err)
	}

	if err := repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			return nil, newError(ErrCodeEmailTaken, "email is already registered")
		}
		return nil, internalError("failed to create user", err)
	}

	return s.issue(ctx, repos.Sessions, user)
}

// Login verifies credentials and issues a new token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repos := s.store.Repositories()

	user, err := repos.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, internalError("failed to load user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("login rejected", "email", maskEmail(email))
		return nil, newError(ErrCodeInvalidCredentials, "invalid email or password")
	}
	if !user.IsActive {
		return nil, newError(ErrCodeForbidden, "user is disabled")
	}

	result, err := s.issue(ctx, repos.Sessions, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return result, nil
}

// Logout revokes the session behind accessToken. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if !wellFormedToken(accessToken, AccessTokenPrefix) {
		return nil
	}

	sessions := s.store.Repositories().Sessions
	session, err := sessions.FindByAccessHash(ctx, hashToken(accessToken))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return internalError("failed to load session", err)
	}

	if _, err := sessions.Revoke(ctx, session.ID, s.now()); err != nil {
		return internalError("failed to revoke session", err)
	}

	s.logger.Info("user logged out", "user_id", session.UserID, "session_id", session.ID)
	return nil
}

// Refresh rotates a refresh token: the old session is revoked and a new pair issued.
// A refresh token can be redeemed once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	invalid := newError(ErrCodeUnauthenticated, "invalid or expired refresh token")
	if !wellFormedToken(refreshToken, RefreshTokenPrefix) {
		return nil, invalid
	}

	var result *AuthResult
	err := s.store.WithTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, repos repository.Repositories) error {
		session, err := repos.Sessions.FindByRefreshHash(ctx, hashToken(refreshToken))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return invalid
			}
			return internalError("failed to load session", err)
		}
		now := s.now()
		if !session.RefreshValid(now) {
			return invalid
		}

		revoked, err := repos.Sessions.Revoke(ctx, session.ID, now)
		if err != nil {
			return internalError("failed to revoke session", err)
		}
		if !revoked {
			return invalid
		}

		user, err := repos.Users.FindByID(ctx, session.UserID)
		if err != nil {
			return internalError("failed to load user", err)
		}
		if !user.IsActive {
			return invalid
		}

		result, err = s.issue(ctx, repos.Sessions, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Authenticate resolves an access token to the actor it was issued to
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*Actor, error) {
	if !wellFormedToken(accessToken, AccessTokenPrefix) {
		return nil, newError(ErrCodeUnauthenticated, "invalid access token")
	}

	repos := s.store.Repositories()
	session, err := repos.Sessions.FindByAccessHash(ctx, hashToken(accessToken))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, newError(ErrCodeUnauthenticated, "invalid access token")
		}
		return nil, internalError("failed to load session", err)
	}
	if !session.AccessValid(s.now()) {
		return nil, newError(ErrCodeUnauthenticated, "session expired")
	}

	user, err := repos.Users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, internalError("failed to load user", err)
	}
	if !user.IsActive {
		return nil, newError(ErrCodeUnauthenticated, "user is disabled")
	}

	return &Actor{UserID: user.ID, Role: user.Role, SessionID: session.ID}, nil
}

// SignupStatus reports whether a signup would be accepted now
func (s *AuthService) SignupStatus(ctx context.Context) (*SignupStatus, error) {
	status, err := s.signupStatus(ctx, s.store.Repositories().SignupThrottle)
	if err != nil {
		return nil, internalError("failed to read signup status", err)
	}
	return status, nil
}

func (s *AuthService) signupStatus(ctx context.Context, throttle repository.SignupThrottleRepository) (*SignupStatus, error) {
	last, err := throttle.LastSignup(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := &SignupStatus{
		ServerTime:      now,
		LastSignupTime:  last,
		CooldownMinutes: int(s.cfg.SignupCooldown / time.Minute),
		CanSignup:       true,
	}

	if last != nil {
		if remaining := last.Add(s.cfg.SignupCooldown).Sub(now); remaining > 0 {
			status.RemainingSeconds = int64(math.Ceil(remaining.Seconds()))
			status.CanSignup = false
		}
	}

	return status, nil
}

// BootstrapAdmin creates the ADMIN user when email is not registered yet.
// The signup window is not consumed.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password string) error {
	user, err := s.store.Repositories().Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	switch {
	case err == nil:
		if user.Role != models.RoleAdmin {
			s.logger.Warn("bootstrap admin email belongs to a non-admin user", "user_id", user.ID)
		}
		return nil
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	admin, err := s.newUser(SignupInput{Email: email, Password: password, Role: models.RoleAdmin, Firstname: "Admin"}, true)
	if err != nil {
		return err
	}

	if err := s.store.Repositories().Users.Create(ctx, admin); err != nil && !errors.Is(err, models.ErrDuplicateEmail) {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin user bootstrapped", "user_id", admin.ID)
	return nil
}

// issue creates a session with a new access/refresh token pair
func (s *AuthService) issue(ctx context.Context, sessions repository.SessionRepository, user *models.User) (*AuthResult, error) {
	access, accessHash, err := generateToken(AccessTokenPrefix)
	if err != nil {
		return nil, internalError("failed to issue token", err)
	}
	refresh, refreshHash, err := generateToken(RefreshTokenPrefix)
	if err != nil {
		return nil, internalError("failed to issue token", err)
	}

	now := s.now()
	session := &models.Session{
		ID:               uuid.New(),
		UserID:           user.ID,
		AccessTokenHash:  accessHash,
		RefreshTokenHash: refreshHash,
		AccessExpiresAt:  now.Add(s.cfg.AccessTokenTTL),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt:        now,
	}
	if err := sessions.Create(ctx, session); err != nil {
		return nil, internalError("failed to create session", err)
	}

	return &AuthResult{
		User:             user,
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  session.AccessExpiresAt,
		RefreshExpiresAt: session.RefreshExpiresAt,
	}, nil
}
