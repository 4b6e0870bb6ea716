package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/port"
)

// Claims represents the JWT claims with tenant context.
type Claims struct {
	jwt.RegisteredClaims
	TenantID      uuid.UUID       `json:"tenant_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Email         string          `json:"email"`
	Role          domain.UserRole `json:"role"`
	PlatformAdmin bool            `json:"platform_admin,omitempty"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	TenantSlug string `json:"tenant_slug" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
}

// LoginResult is either a token pair or a pending OTP challenge.
type LoginResult struct {
	Tokens      *TokenPair `json:"tokens,omitempty"`
	OTPRequired bool       `json:"otp_required"`
	ChallengeID *uuid.UUID `json:"challenge_id,omitempty"`
}

// VerifyOTPInput is the DTO for the second login step.
type VerifyOTPInput struct {
	ChallengeID uuid.UUID `json:"challenge_id" binding:"required"`
	Code        string    `json:"code" binding:"required,len=6,numeric"`
}

// ResendOTPInput is the DTO for requesting a fresh login code.
type ResendOTPInput struct {
	ChallengeID uuid.UUID `json:"challenge_id" binding:"required"`
}

// RefreshInput is the DTO for token refresh requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	VerifyOTP(ctx context.Context, input VerifyOTPInput) (*TokenPair, error)
	ResendOTP(ctx context.Context, challengeID uuid.UUID) error
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo    port.UserRepository
	companyRepo port.CompanyRepository
	otpRepo     port.OTPRepository
	email       port.EmailSender
	cfg         config.JWTConfig
	authCfg     config.AuthConfig
	log         *zap.Logger
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(
	userRepo port.UserRepository,
	companyRepo port.CompanyRepository,
	otpRepo port.OTPRepository,
	email port.EmailSender,
	cfg config.JWTConfig,
	authCfg config.AuthConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		otpRepo:     otpRepo,
		email:       email,
		cfg:         cfg,
		authCfg:     authCfg,
		log:         log,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	company, err := s.companyRepo.GetBySlug(ctx, input.TenantSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if !company.IsActive {
		return nil, domain.ErrCompanyInactive
	}

	user, err := s.userRepo.GetByEmail(ctx, company.ID, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.authCfg.OTPEnabled {
		tokens, err := s.generateTokenPair(user)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Tokens: tokens}, nil
	}

	code, hash, err := newLoginCode()
	if err != nil {
		return nil, err
	}
	challenge := &domain.OTPChallenge{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		CodeHash:    hash,
		MaxAttempts: s.authCfg.OTPMaxAttempts,
		ExpiresAt:   time.Now().UTC().Add(s.authCfg.OTPTTL),
	}
	if err := s.otpRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := s.email.SendLoginCode(ctx, user.Email, user.FullName, code); err != nil {
		return nil, fmt.Errorf("auth.Login: sending code: %w", err)
	}
	s.log.Info("authService.Login: OTP challenge issued",
		zap.String("user_id", user.ID.String()), zap.String("challenge_id", challenge.ID.String()))

	return &LoginResult{OTPRequired: true, ChallengeID: &challenge.ID}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*TokenPair, error) {
	challenge, err := s.liveChallenge(ctx, input.ChallengeID)
	if err != nil {
		return nil, err
	}

	// The attempt is counted before the compare so concurrent guesses
	// cannot overrun max_attempts.
	attempts, err := s.otpRepo.ReserveAttempt(ctx, challenge.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.challengeRejection(ctx, challenge.ID, domain.ErrOTPAttemptsExceeded)
		}
		return nil, fmt.Errorf("auth.VerifyOTP: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(input.Code)); err != nil {
		if attempts >= challenge.MaxAttempts {
			return nil, domain.ErrOTPAttemptsExceeded
		}
		return nil, domain.ErrOTPInvalid
	}

	if err := s.otpRepo.Consume(ctx, challenge.ID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, challenge.TenantID, challenge.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return s.generateTokenPair(user)
}

// ResendOTP mails a fresh code for a live challenge. The attempt count
// carries over and each challenge is resent at most OTPMaxResends times.
func (s *authService) ResendOTP(ctx context.Context, challengeID uuid.UUID) error {
	challenge, err := s.liveChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge.Resends >= s.authCfg.OTPMaxResends {
		return domain.ErrOTPResendLimit
	}

	user, err := s.userRepo.GetByID(ctx, challenge.TenantID, challenge.UserID)
	if err != nil {
		return domain.ErrOTPInvalid
	}

	code, hash, err := newLoginCode()
	if err != nil {
		return err
	}
	challenge.CodeHash = hash
	challenge.ExpiresAt = time.Now().UTC().Add(s.authCfg.OTPTTL)
	if err := s.otpRepo.ReplaceCode(ctx, challenge, s.authCfg.OTPMaxResends); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.challengeRejection(ctx, challenge.ID, domain.ErrOTPResendLimit)
		}
		return fmt.Errorf("auth.ResendOTP: %w", err)
	}
	if err := s.email.SendLoginCode(ctx, user.Email, user.FullName, code); err != nil {
		return fmt.Errorf("auth.ResendOTP: sending code: %w", err)
	}
	return nil
}

// liveChallenge loads a challenge that can still be answered.
func (s *authService) liveChallenge(ctx context.Context, id uuid.UUID) (*domain.OTPChallenge, error) {
	challenge, err := s.otpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOTPInvalid
		}
		return nil, fmt.Errorf("auth.challenge: %w", err)
	}
	if challenge.ConsumedAt != nil {
		return nil, domain.ErrOTPInvalid
	}
	if challenge.Attempts >= challenge.MaxAttempts {
		return nil, domain.ErrOTPAttemptsExceeded
	}
	if !time.Now().UTC().Before(challenge.ExpiresAt) {
		return nil, domain.ErrOTPExpired
	}
	return challenge, nil
}

// challengeRejection explains why a conditional update on a challenge
// matched no row. The challenge changed after it was loaded, so it is
// read again; fallback covers a row that still looks usable.
func (s *authService) challengeRejection(ctx context.Context, id uuid.UUID, fallback error) error {
	if _, err := s.liveChallenge(ctx, id); err != nil {
		return err
	}
	return fallback
}

// newLoginCode returns a random 6 digit code and its bcrypt hash.
func newLoginCode() (code, hash string, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", fmt.Errorf("generating login code: %w", err)
	}
	code = fmt.Sprintf("%06d", n.Int64())
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hashing login code: %w", err)
	}
	return code, string(h), nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateTokenString(refreshToken, "refresh")
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return s.generateTokenPair(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, "access")
}

func (s *authService) generateTokenPair(user *domain.User) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)

	accessToken, err := s.signToken(user, "access", now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refreshToken, err := s.signToken(user, "refresh", now, now.Add(s.cfg.RefreshTokenExpiry))
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) signToken(user *domain.User, audience string, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audience},
		},
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		// Only the bootstrap command grants cross-tenant company admin.
		PlatformAdmin: user.IsPlatformAdmin,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
