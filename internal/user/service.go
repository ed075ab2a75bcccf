package user

import (
	"context"
	"database/sql"
	"time"

	"sushiwave-be/internal/auth"
	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (User, TokenPair, error)
	Login(ctx context.Context, email, password string) (User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (User, TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
	GetByID(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context, page, limit int) ([]User, int, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileInput) (User, error)
	UpdatePassword(ctx context.Context, userID string, input PasswordInput) error
	UpdateRole(ctx context.Context, callerID, targetID, role string) (User, error)
	DeleteUser(ctx context.Context, callerID, targetID string) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type service struct {
	repo       Repository
	tokens     TokenRepository
	maker      *auth.Maker
	refreshTTL time.Duration
}

func NewService(repo Repository, tokens TokenRepository, maker *auth.Maker, refreshTTL time.Duration) Service {
	return &service{
		repo:       repo,
		tokens:     tokens,
		maker:      maker,
		refreshTTL: refreshTTL,
	}
}

// issuePair mints an access token and persists a fresh refresh token row.
func (s *service) issuePair(ctx context.Context, u User) (TokenPair, error) {
	accessToken, err := s.maker.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}

	err = s.tokens.Save(ctx, RefreshToken{
		ID:        uuid.New().String(),
		Token:     refreshToken,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (User, TokenPair, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, TokenPair{}, err
	}

	u, err := s.repo.Create(ctx, input, hashed, auth.RoleUser)
	if err != nil {
		if httpapi.IsUniqueViolation(err, "users_email_key") {
			return User{}, TokenPair{}, ErrEmailExists
		}
		log.Error("failed to create user", zap.String("email", input.Email), zap.Error(err))
		return User{}, TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		log.Error("failed to issue tokens", zap.String("user_id", u.ID), zap.Error(err))
		return User{}, TokenPair{}, err
	}

	log.Info("user registered",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return u, pair, nil
}

func (s *service) Login(ctx context.Context, email, password string) (User, TokenPair, error) {
	log := logger.FromCtx(ctx)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, TokenPair{}, ErrInvalidCredentials
		}
		return User{}, TokenPair{}, err
	}

	if !CheckPasswordHash(password, u.Password) {
		return User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return User{}, TokenPair{}, err
	}

	log.Info("user logged in", zap.String("user_id", u.ID))
	return u, pair, nil
}

// Refresh rotates a refresh token: the presented token is validated against
// its stored row, deleted, and a brand new pair issued. A token can be spent
// exactly once.
func (s *service) Refresh(ctx context.Context, refreshToken string) (User, TokenPair, error) {
	log := logger.FromCtx(ctx)

	stored, err := s.tokens.Find(ctx, refreshToken)
	if err != nil {
		return User{}, TokenPair{}, err
	}
	if stored == nil {
		return User{}, TokenPair{}, ErrInvalidRefresh
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokens.Delete(ctx, refreshToken)
		return User{}, TokenPair{}, ErrInvalidRefresh
	}

	// The delete is the single-use gate: under concurrent refreshes of the
	// same token only one caller removes the row, the rest come up empty.
	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		if err == sql.ErrNoRows {
			return User{}, TokenPair{}, ErrInvalidRefresh
		}
		return User{}, TokenPair{}, err
	}

	u, err := s.repo.FindByID(ctx, stored.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, TokenPair{}, ErrInvalidRefresh
		}
		return User{}, TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return User{}, TokenPair{}, err
	}

	log.Info("token refreshed", zap.String("user_id", u.ID))
	return u, pair, nil
}

// Logout is idempotent: revoking an already-spent token is not an error.
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.Delete(ctx, refreshToken); err != nil && err != sql.ErrNoRows {
		return err
	}
	return nil
}

func (s *service) LogoutAll(ctx context.Context, userID string) error {
	log := logger.FromCtx(ctx)

	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	log.Info("all sessions revoked", zap.String("user_id", userID))
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err == sql.ErrNoRows {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *service) ListUsers(ctx context.Context, page, limit int) ([]User, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, page, limit)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (User, error) {
	u, err := s.repo.UpdateProfile(ctx, userID, input)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}

	logger.FromCtx(ctx).Info("profile updated", zap.String("user_id", userID))
	return u, nil
}

// UpdatePassword re-hashes after verifying the current password. Existing
// sessions stay valid, matching profile-settings behaviour.
func (s *service) UpdatePassword(ctx context.Context, userID string, input PasswordInput) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	if !CheckPasswordHash(input.CurrentPassword, u.Password) {
		return ErrWrongPassword
	}

	hashed, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("password updated", zap.String("user_id", userID))
	return nil
}

// UpdateRole guards against admins demoting themselves and locking the
// store out of its last admin account.
func (s *service) UpdateRole(ctx context.Context, callerID, targetID, role string) (User, error) {
	if targetID == callerID && role != auth.RoleAdmin {
		return User{}, ErrOwnRole
	}

	u, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}

	logger.FromCtx(ctx).Info("user role updated",
		zap.String("user_id", targetID), zap.String("role", role))
	return u, nil
}

func (s *service) DeleteUser(ctx context.Context, callerID, targetID string) error {
	if targetID == callerID {
		return ErrOwnAccount
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	logger.FromCtx(ctx).Info("user deleted",
		zap.String("user_id", targetID), zap.String("deleted_by", callerID))
	return nil
}

func (s *service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.FromCtx(ctx).Info("expired refresh tokens removed", zap.Int64("count", n))
	}
	return n, nil
}
