package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gradlane/gradlane/internal/models"
	pgrepo "github.com/gradlane/gradlane/internal/repositories/postgres"
	"github.com/gradlane/gradlane/internal/utils"
)

type SignupInput struct {
	Email            string
	Password         string
	SubscriptionTier models.SubscriptionTier
	Preferences      *models.UserPreferences
}

type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*models.User, string, error)
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, p *models.UserPreferences) error
}

type userService struct {
	users pgrepo.UserRepository
	prefs pgrepo.PreferencesRepository
}

func NewUserService(users pgrepo.UserRepository, prefs pgrepo.PreferencesRepository) UserService {
	return &userService{users: users, prefs: prefs}
}

func (s *userService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	const op = "UserService.Signup"

	if in.Email == "" || in.Password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}
	if in.Preferences == nil || len(in.Preferences.TargetCities) == 0 || len(in.Preferences.CareerPaths) == 0 {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "target_cities and career_paths are required", nil)
	}
	if len(in.Preferences.TargetCities) > 3 {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "at most 3 target cities are allowed", nil)
	}

	tier := in.SubscriptionTier
	if tier == "" {
		tier = models.TierFree
	}
	if _, err := s.existingUser(ctx, in.Email); err == nil {
		return nil, "", utils.E(utils.CodeConflict, op, "email already registered", nil)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:               uuid.NewString(),
		Email:            in.Email,
		PasswordHash:     hash,
		SubscriptionTier: tier,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	p := in.Preferences
	p.UserID = user.ID
	p.Email = user.Email
	p.SubscriptionTier = tier
	p.UpdatedAt = now
	if err := s.prefs.Upsert(ctx, p); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to save preferences", err)
	}

	token, err := issueToken(user)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return user, token, nil
}

func (s *userService) existingUser(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	const op = "UserService.GetPreferences"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.prefs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "preferences not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get preferences", err)
	}
	return p, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, p *models.UserPreferences) error {
	const op = "UserService.UpdatePreferences"

	if p == nil || p.UserID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "preferences.user_id is required", nil)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	if err := s.prefs.Upsert(ctx, p); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to upsert preferences", err)
	}
	return nil
}

func issueToken(user *models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
