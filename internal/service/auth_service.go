package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUserNotFound         = errors.New("user not found")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate token")
)

// RegisterInput carries the profile supplied at signup. Height is in
// centimeters, weight in kilograms.
type RegisterInput struct {
	Name          string
	Nickname      string
	Email         string
	Password      string
	HeightCm      float64
	WeightKg      float64
	Age           int
	Gender        string
	Goal          string
	ActivityLevel string
}

// AuthService defines the interface for authentication and profile
// operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrHashingFailed
	}

	user := &domain.User{
		Name:          input.Name,
		Nickname:      input.Nickname,
		Email:         input.Email,
		PasswordHash:  string(hashedPassword),
		HeightCm:      input.HeightCm,
		WeightKg:      input.WeightKg,
		Age:           input.Age,
		Gender:        input.Gender,
		Goal:          input.Goal,
		ActivityLevel: input.ActivityLevel,
		BMI:           CalculateBMI(input.WeightKg, input.HeightCm),
		BMR:           CalculateBMR(input.WeightKg, input.HeightCm, input.Age, input.Gender, input.ActivityLevel),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", err
	}
	user.ID = userID

	token, err := s.generateToken(userID.Hex())
	if err != nil {
		return nil, "", ErrTokenGeneration
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrAuthenticationFailed
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrAuthenticationFailed
	}

	token, err := s.generateToken(user.ID.Hex())
	if err != nil {
		return nil, "", ErrTokenGeneration
	}
	return user, token, nil
}

func (s *authService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"uid": userID,
		"exp": time.Now().Add(s.jwtExpiration).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// --- Profile Metrics ---

// CalculateBMI computes body mass index from weight in kilograms and height
// in centimeters. A height small enough to already be in meters is used
// as-is.
func CalculateBMI(weightKg, height float64) float64 {
	if weightKg <= 0 || height <= 0 {
		return 0
	}
	heightM := height
	if heightM > 3 {
		heightM = heightM / 100.0
	}
	bmi := weightKg / (heightM * heightM)
	return math.Round(bmi*100) / 100
}

// CalculateBMR computes basal metabolic rate via the Mifflin-St Jeor
// equation, scaled by an activity multiplier.
func CalculateBMR(weightKg, heightCm float64, age int, gender, activityLevel string) float64 {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0
	}
	if heightCm <= 3 {
		heightCm = heightCm * 100.0
	}

	base := 10.0*weightKg + 6.25*heightCm - 5.0*float64(age)
	if strings.EqualFold(gender, "male") {
		base += 5
	} else {
		base -= 161
	}

	return math.Round(base*activityMultiplier(activityLevel)*100) / 100
}

func activityMultiplier(activityLevel string) float64 {
	switch strings.ToLower(strings.TrimSpace(activityLevel)) {
	case "sedentary":
		return 1.2
	case "light", "lightly active":
		return 1.375
	case "moderate", "moderately active":
		return 1.55
	case "active":
		return 1.725
	case "very active", "extremely active", "advance":
		return 1.9
	default:
		return 1.2
	}
}
