package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

const minPasswordLength = 5

// AuthService owns the user directory and the token authenticator
type AuthService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	cache  cache.TokenCache
	images storage.ImageStore
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, tokenCache cache.TokenCache, images storage.ImageStore, log *zap.Logger) *AuthService {
	if tokenCache == nil {
		tokenCache = cache.NopTokenCache{}
	}
	return &AuthService{
		users:  repo.Users,
		tokens: repo.Tokens,
		cache:  tokenCache,
		images: images,
		log:    log,
	}
}

// CreateUser stores a new active user with a hashed password
func (s *AuthService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// CreateSuperuser creates a user and elevates it to staff and superuser
func (s *AuthService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.CreateUser(ctx, email, password, "")
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to elevate user: %w", err)
	}
	return user, nil
}

// Register validates a sign-up request and creates the account
func (s *AuthService) Register(ctx context.Context, req *types.CreateUserRequest) (*models.User, error) {
	fields := fieldErrors{}
	if strings.TrimSpace(req.Email) == "" {
		fields.add("email", "This field may not be blank.")
	}
	if len(req.Password) < minPasswordLength {
		fields.add("password", fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLength))
	}
	if strings.TrimSpace(req.Name) == "" {
		fields.add("name", "This field may not be blank.")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	user, err := s.CreateUser(ctx, req.Email, req.Password, req.Name)
	if errors.Is(err, ErrEmailTaken) {
		return nil, &ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"email": ErrEmailTaken.Error()},
			Err:     ErrEmailTaken,
		}
	}
	return user, err
}

// Login exchanges credentials for the user's token, creating it on first use
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil || !user.IsActive {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GetByUserID(ctx, user.ID)
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}
	token = &models.AuthToken{Key: key, UserID: user.ID}
	if err := s.tokens.Create(ctx, token); err != nil {
		// a concurrent login created it first
		if errors.Is(err, repository.ErrDuplicate) {
			existing, getErr := s.tokens.GetByUserID(ctx, user.ID)
			if getErr == nil {
				return existing.Key, nil
			}
		}
		return "", fmt.Errorf("failed to create token: %w", err)
	}
	return token.Key, nil
}

// ValidateToken resolves a token key to its active user
func (s *AuthService) ValidateToken(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	userID, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("token cache lookup failed", zap.Error(err))
	}
	if !ok {
		token, err := s.tokens.GetByKey(ctx, key)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidToken
			}
			return nil, fmt.Errorf("failed to look up token: %w", err)
		}
		userID = token.UserID
		if err := s.cache.Set(ctx, key, userID); err != nil {
			s.log.Warn("token cache store failed", zap.Error(err))
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.evict(ctx, key)
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// GetUser returns the user with the given id
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// UpdateProfile applies a profile change. With partial unset every field is
// required. A new password is re-hashed and rotates the user's token.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, req *types.UpdateUserRequest, partial bool) (*models.User, error) {
	fields := fieldErrors{}
	if !partial {
		if req.Email == nil {
			fields.add("email", "This field is required.")
		}
		if req.Password == nil {
			fields.add("password", "This field is required.")
		}
		if req.Name == nil {
			fields.add("name", "This field is required.")
		}
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		fields.add("email", "This field may not be blank.")
	}
	if req.Password != nil && len(*req.Password) < minPasswordLength {
		fields.add("password", fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLength))
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fields.add("name", "This field may not be blank.")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	updated := *user
	if req.Email != nil {
		updated.Email = models.NormalizeEmail(*req.Email)
	}
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	passwordChanged := false
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.PasswordHash = string(hash)
		passwordChanged = true
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ValidationError{
				Message: "validation failed",
				Fields:  map[string]string{"email": ErrEmailTaken.Error()},
				Err:     ErrEmailTaken,
			}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if passwordChanged {
		if err := s.rotateToken(ctx, updated.ID); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

func (s *AuthService) rotateToken(ctx context.Context, userID uint) error {
	old, err := s.tokens.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up token: %w", err)
	}

	key, err := generateTokenKey()
	if err != nil {
		return err
	}
	if err := s.tokens.Replace(ctx, &models.AuthToken{Key: key, UserID: userID}); err != nil {
		return fmt.Errorf("failed to rotate token: %w", err)
	}
	s.evict(ctx, old.Key)
	return nil
}

// DeleteAccount removes the user with everything it owns, then its stored images
func (s *AuthService) DeleteAccount(ctx context.Context, user *models.User) error {
	var tokenKey string
	if token, err := s.tokens.GetByUserID(ctx, user.ID); err == nil {
		tokenKey = token.Key
	}

	images, err := s.users.Delete(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tokenKey != "" {
		s.evict(ctx, tokenKey)
	}
	removeImages(ctx, s.images, s.log, images...)
	s.log.Info("account deleted", zap.Uint("user_id", user.ID), zap.Int("images", len(images)))
	return nil
}

func (s *AuthService) evict(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Warn("token cache eviction failed", zap.Error(err))
	}
}

// generateTokenKey returns 40 hex characters from 20 random bytes
func generateTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// removeImages deletes stored objects after their rows are gone. Failures are
// logged only; the rows no longer reference the objects.
func removeImages(ctx context.Context, store storage.ImageStore, log *zap.Logger, keys ...string) {
	if store == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			log.Warn("failed to remove stored image", zap.String("key", key), zap.Error(err))
		}
	}
}
