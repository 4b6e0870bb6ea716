package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/port"
)

const (
	resetAudience = "password-reset"
	resetTokenTTL = time.Hour
)

// ForgotPasswordInput is the DTO for forgot-password requests.
type ForgotPasswordInput struct {
	TenantSlug string `json:"tenant_slug" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
}

// ResetPasswordInput is the DTO for reset-password requests.
type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// PasswordResetService defines the password reset contract.
type PasswordResetService interface {
	ForgotPassword(ctx context.Context, input ForgotPasswordInput) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type passwordResetService struct {
	companyRepo port.CompanyRepository
	userRepo    port.UserRepository
	email       port.EmailSender
	jwtCfg      config.JWTConfig
	log         *zap.Logger
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	companyRepo port.CompanyRepository,
	userRepo port.UserRepository,
	email port.EmailSender,
	jwtCfg config.JWTConfig,
	log *zap.Logger,
) PasswordResetService {
	return &passwordResetService{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		email:       email,
		jwtCfg:      jwtCfg,
		log:         log,
	}
}

// ForgotPassword always succeeds so callers cannot probe for accounts.
func (s *passwordResetService) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	company, err := s.companyRepo.GetBySlug(ctx, input.TenantSlug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("forgot-password company lookup failed", zap.Error(err))
		}
		return nil
	}
	if !company.IsActive {
		return nil
	}

	user, err := s.userRepo.GetByEmail(ctx, company.ID, input.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("forgot-password user lookup failed", zap.Error(err))
		}
		return nil
	}
	if !user.IsActive {
		return nil
	}

	token, err := s.generateResetToken(user, time.Now())
	if err != nil {
		s.log.Warn("generating password reset token failed",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil
	}
	if err := s.email.SendPasswordReset(ctx, user.Email, user.FullName, token); err != nil {
		s.log.Warn("sending password reset email failed",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	claims, err := s.parseResetToken(input.Token)
	if err != nil {
		return domain.ErrPasswordResetTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPasswordResetTokenInvalid
		}
		return fmt.Errorf("passwordReset.ResetPassword: %w", err)
	}
	// The token is bound to the hash it was issued against, so it stops
	// working once the password changes.
	if !user.IsActive || claims.ID != passwordFingerprint(user.PasswordHash) {
		return domain.ErrPasswordResetTokenInvalid
	}

	hash, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("passwordReset.ResetPassword: %w", err)
	}
	s.log.Info("password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *passwordResetService) generateResetToken(user *domain.User, now time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetTokenTTL)),
			ID:        passwordFingerprint(user.PasswordHash),
			Audience:  jwt.ClaimStrings{resetAudience},
		},
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
}

func (s *passwordResetService) parseResetToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	}, jwt.WithAudience(resetAudience))
	if err != nil {
		return nil, fmt.Errorf("parsing reset token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrPasswordResetTokenInvalid
	}
	return claims, nil
}

func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:12])
}
