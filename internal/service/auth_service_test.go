package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"regtrack/internal/config"
	"regtrack/internal/domain"
	"regtrack/internal/service"
	"regtrack/mocks"
)

var testJWTCfg = config.JWTConfig{
	Secret:             "test-secret-key-for-testing-only",
	AccessTokenExpiry:  15 * time.Minute,
	RefreshTokenExpiry: 168 * time.Hour,
	Issuer:             "regtrack-test",
}

type authDeps struct {
	userRepo    *mocks.MockUserRepo
	companyRepo *mocks.MockCompanyRepo
	otpRepo     *mocks.MockOTPRepo
	email       *mocks.MockEmailSender
}

func setupAuthService(otp bool) (service.AuthService, *authDeps) {
	d := &authDeps{
		userRepo:    new(mocks.MockUserRepo),
		companyRepo: new(mocks.MockCompanyRepo),
		otpRepo:     new(mocks.MockOTPRepo),
		email:       new(mocks.MockEmailSender),
	}
	authCfg := config.AuthConfig{OTPEnabled: otp, OTPTTL: 10 * time.Minute, OTPMaxAttempts: 3, OTPMaxResends: 2}
	svc := service.NewAuthService(d.userRepo, d.companyRepo, d.otpRepo, d.email, testJWTCfg, authCfg, zap.NewNop())
	return svc, d
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func activeUser(t *testing.T, tenantID uuid.UUID, password string) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "ra@pharma.test",
		PasswordHash: hashPassword(t, password),
		FullName:     "Regulatory Lead",
		Role:         domain.RoleManager,
		IsActive:     true,
	}
}

func TestAuthService_Login_IssuesTokens(t *testing.T) {
	svc, d := setupAuthService(false)
	ctx := context.Background()
	company := &domain.Company{ID: uuid.New(), Slug: "acme-pharma", IsActive: true}
	user := activeUser(t, company.ID, "correct-horse")

	d.companyRepo.On("GetBySlug", ctx, "acme-pharma").Return(company, nil)
	d.userRepo.On("GetByEmail", ctx, company.ID, user.Email).Return(user, nil)

	res, err := svc.Login(ctx, service.LoginInput{TenantSlug: "acme-pharma", Email: user.Email, Password: "correct-horse"})

	require.NoError(t, err)
	require.NotNil(t, res.Tokens)
	assert.False(t, res.OTPRequired)

	claims, err := svc.ValidateToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, company.ID, claims.TenantID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleManager, claims.Role)
}

func TestAuthService_Login_PlatformAdminClaim(t *testing.T) {
	svc, d := setupAuthService(false)
	ctx := context.Background()
	company := &domain.Company{ID: uuid.New(), Slug: "acme-pharma", IsActive: true}
	tenantAdmin := activeUser(t, company.ID, "correct-horse")
	tenantAdmin.Role = domain.RoleAdmin
	platformAdmin := activeUser(t, company.ID, "correct-horse")
	platformAdmin.Email = "ops@pharma.test"
	platformAdmin.Role = domain.RoleAdmin
	platformAdmin.IsPlatformAdmin = true

	d.companyRepo.On("GetBySlug", ctx, "acme-pharma").Return(company, nil)
	d.userRepo.On("GetByEmail", ctx, company.ID, tenantAdmin.Email).Return(tenantAdmin, nil)
	d.userRepo.On("GetByEmail", ctx, company.ID, platformAdmin.Email).Return(platformAdmin, nil)

	for _, u := range []*domain.User{tenantAdmin, platformAdmin} {
		res, err := svc.Login(ctx, service.LoginInput{TenantSlug: "acme-pharma", Email: u.Email, Password: "correct-horse"})
		require.NoError(t, err)
		claims, err := svc.ValidateToken(res.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.IsPlatformAdmin, claims.PlatformAdmin, u.Email)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, d := setupAuthService(false)
	ctx := context.Background()
	active := &domain.Company{ID: uuid.New(), Slug: "active", IsActive: true}
	inactive := &domain.Company{ID: uuid.New(), Slug: "inactive", IsActive: false}
	user := activeUser(t, active.ID, "correct-horse")
	disabled := activeUser(t, active.ID, "correct-horse")
	disabled.Email = "gone@pharma.test"
	disabled.IsActive = false

	d.companyRepo.On("GetBySlug", ctx, "missing").Return(nil, domain.ErrNotFound)
	d.companyRepo.On("GetBySlug", ctx, "inactive").Return(inactive, nil)
	d.companyRepo.On("GetBySlug", ctx, "active").Return(active, nil)
	d.userRepo.On("GetByEmail", ctx, active.ID, user.Email).Return(user, nil)
	d.userRepo.On("GetByEmail", ctx, active.ID, disabled.Email).Return(disabled, nil)
	d.userRepo.On("GetByEmail", ctx, active.ID, "nobody@pharma.test").Return(nil, domain.ErrNotFound)

	tests := []struct {
		name  string
		input service.LoginInput
		want  error
	}{
		{"unknown company", service.LoginInput{TenantSlug: "missing", Email: user.Email, Password: "correct-horse"}, domain.ErrInvalidCredentials},
		{"inactive company", service.LoginInput{TenantSlug: "inactive", Email: user.Email, Password: "correct-horse"}, domain.ErrCompanyInactive},
		{"unknown user", service.LoginInput{TenantSlug: "active", Email: "nobody@pharma.test", Password: "correct-horse"}, domain.ErrInvalidCredentials},
		{"inactive user", service.LoginInput{TenantSlug: "active", Email: disabled.Email, Password: "correct-horse"}, domain.ErrUserInactive},
		{"wrong password", service.LoginInput{TenantSlug: "active", Email: user.Email, Password: "wrong-password"}, domain.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_LoginWithOTP_ThenVerify(t *testing.T) {
	svc, d := setupAuthService(true)
	ctx := context.Background()
	company := &domain.Company{ID: uuid.New(), Slug: "acme-pharma", IsActive: true}
	user := activeUser(t, company.ID, "correct-horse")

	var stored *domain.OTPChallenge
	var sentCode string

	d.companyRepo.On("GetBySlug", ctx, "acme-pharma").Return(company, nil)
	d.userRepo.On("GetByEmail", ctx, company.ID, user.Email).Return(user, nil)
	d.otpRepo.On("Create", ctx, mock.AnythingOfType("*domain.OTPChallenge")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.OTPChallenge)
		stored.ID = uuid.New()
	}).Return(nil)
	d.email.On("SendLoginCode", ctx, user.Email, user.FullName, mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		sentCode = args.String(3)
	}).Return(nil)

	res, err := svc.Login(ctx, service.LoginInput{TenantSlug: "acme-pharma", Email: user.Email, Password: "correct-horse"})

	require.NoError(t, err)
	assert.True(t, res.OTPRequired)
	assert.Nil(t, res.Tokens)
	require.NotNil(t, res.ChallengeID)
	assert.Equal(t, stored.ID, *res.ChallengeID)
	assert.Len(t, sentCode, 6)
	assert.Equal(t, 3, stored.MaxAttempts)

	d.otpRepo.On("GetByID", ctx, stored.ID).Return(stored, nil)
	d.otpRepo.On("ReserveAttempt", ctx, stored.ID).Return(1, nil)
	d.otpRepo.On("Consume", ctx, stored.ID).Return(nil)
	d.userRepo.On("GetByID", ctx, company.ID, user.ID).Return(user, nil)

	tokens, err := svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: stored.ID, Code: sentCode})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	d.otpRepo.AssertExpectations(t)
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	svc, d := setupAuthService(true)
	ctx := context.Background()
	hash := hashPassword(t, "123456")

	fresh := &domain.OTPChallenge{ID: uuid.New(), CodeHash: hash, Attempts: 0, MaxAttempts: 3, ExpiresAt: time.Now().Add(time.Minute)}
	last := &domain.OTPChallenge{ID: uuid.New(), CodeHash: hash, Attempts: 2, MaxAttempts: 3, ExpiresAt: time.Now().Add(time.Minute)}

	d.otpRepo.On("GetByID", ctx, fresh.ID).Return(fresh, nil)
	d.otpRepo.On("GetByID", ctx, last.ID).Return(last, nil)
	d.otpRepo.On("ReserveAttempt", ctx, fresh.ID).Return(1, nil)
	d.otpRepo.On("ReserveAttempt", ctx, last.ID).Return(3, nil)

	_, err := svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: fresh.ID, Code: "654321"})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)

	_, err = svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: last.ID, Code: "654321"})
	assert.ErrorIs(t, err, domain.ErrOTPAttemptsExceeded)

	d.otpRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestAuthService_VerifyOTP_UnusableChallenge(t *testing.T) {
	svc, d := setupAuthService(true)
	ctx := context.Background()
	consumedAt := time.Now()

	expired := &domain.OTPChallenge{ID: uuid.New(), MaxAttempts: 3, ExpiresAt: time.Now().Add(-time.Second)}
	consumed := &domain.OTPChallenge{ID: uuid.New(), MaxAttempts: 3, ExpiresAt: time.Now().Add(time.Minute), ConsumedAt: &consumedAt}
	locked := &domain.OTPChallenge{ID: uuid.New(), Attempts: 3, MaxAttempts: 3, ExpiresAt: time.Now().Add(time.Minute)}
	unknown := uuid.New()

	d.otpRepo.On("GetByID", ctx, expired.ID).Return(expired, nil)
	d.otpRepo.On("GetByID", ctx, consumed.ID).Return(consumed, nil)
	d.otpRepo.On("GetByID", ctx, locked.ID).Return(locked, nil)
	d.otpRepo.On("GetByID", ctx, unknown).Return(nil, domain.ErrNotFound)

	_, err := svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: expired.ID, Code: "000000"})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)

	_, err = svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: consumed.ID, Code: "000000"})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)

	_, err = svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: locked.ID, Code: "000000"})
	assert.ErrorIs(t, err, domain.ErrOTPAttemptsExceeded)

	_, err = svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: unknown, Code: "000000"})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)
}

func TestAuthService_VerifyOTP_ConcurrentGuessLosesReservation(t *testing.T) {
	svc, d := setupAuthService(true)
	ctx := context.Background()
	id := uuid.New()
	expiresAt := time.Now().Add(time.Minute)
	stale := &domain.OTPChallenge{ID: id, CodeHash: hashPassword(t, "123456"), Attempts: 2, MaxAttempts: 3, ExpiresAt: expiresAt}
	spent := &domain.OTPChallenge{ID: id, CodeHash: stale.CodeHash, Attempts: 3, MaxAttempts: 3, ExpiresAt: expiresAt}

	// Another request took the last attempt between the read and the update.
	d.otpRepo.On("GetByID", ctx, id).Return(stale, nil).Once()
	d.otpRepo.On("ReserveAttempt", ctx, id).Return(0, domain.ErrNotFound)
	d.otpRepo.On("GetByID", ctx, id).Return(spent, nil).Once()

	_, err := svc.VerifyOTP(ctx, service.VerifyOTPInput{ChallengeID: id, Code: "123456"})

	assert.ErrorIs(t, err, domain.ErrOTPAttemptsExceeded)
	d.otpRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestAuthService_ResendOTP_KeepsAttempts(t *testing.T) {
	svc, d := setupAuthService(true)
	ctx := context.Background()
	user := activeUser(t, uuid.New(), "correct-horse")
	challenge := &domain.OTPChallenge{
		ID:          uuid.New(),
		TenantID:    user.TenantID,
		UserID:      user.ID,
		CodeHash:    "old",
		Attempts:    2,
		MaxAttempts: 3,
		ExpiresAt:   time.Now().Add(time.Minute),
	}

	d.otpRepo.On("GetByID", ctx, challenge.ID).Return(challenge, nil)
	d.userRepo.On("GetByID", ctx, user.TenantID, user.ID).Return(user, nil)
	d.otpRepo.On("ReplaceCode", ctx, mock.MatchedBy(func(c *domain.OTPChallenge) bool {
		return c.CodeHash != "old" && c.Attempts == 2 && c.ExpiresAt.After(time.Now())
	}), 2).Return(nil)
	d.email.On("SendLoginCode", ctx, user.Email, user.FullName, mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, svc.ResendOTP(ctx, challenge.ID))
	d.otpRepo.AssertExpectations(t)
	d.email.AssertExpectations(t)
}

func TestAuthService_ResendOTP_Rejections(t *testing.T) {
	svc, d := setupAuthService(true)
	ctx := context.Background()
	user := activeUser(t, uuid.New(), "correct-horse")
	live := time.Now().Add(time.Minute)

	expired := &domain.OTPChallenge{ID: uuid.New(), UserID: user.ID, MaxAttempts: 3, ExpiresAt: time.Now().Add(-time.Minute)}
	exhausted := &domain.OTPChallenge{ID: uuid.New(), UserID: user.ID, Attempts: 3, MaxAttempts: 3, ExpiresAt: live}
	resent := &domain.OTPChallenge{ID: uuid.New(), UserID: user.ID, MaxAttempts: 3, Resends: 2, ExpiresAt: live}

	d.otpRepo.On("GetByID", ctx, expired.ID).Return(expired, nil)
	d.otpRepo.On("GetByID", ctx, exhausted.ID).Return(exhausted, nil)
	d.otpRepo.On("GetByID", ctx, resent.ID).Return(resent, nil)

	assert.ErrorIs(t, svc.ResendOTP(ctx, expired.ID), domain.ErrOTPExpired)
	assert.ErrorIs(t, svc.ResendOTP(ctx, exhausted.ID), domain.ErrOTPAttemptsExceeded)
	assert.ErrorIs(t, svc.ResendOTP(ctx, resent.ID), domain.ErrOTPResendLimit)

	d.otpRepo.AssertNotCalled(t, "ReplaceCode", mock.Anything, mock.Anything, mock.Anything)
	d.email.AssertNotCalled(t, "SendLoginCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ResendOTP_LosesRaceToConsume(t *testing.T) {
	svc, d := setupAuthService(true)
	ctx := context.Background()
	user := activeUser(t, uuid.New(), "correct-horse")
	consumedAt := time.Now()
	live := &domain.OTPChallenge{ID: uuid.New(), TenantID: user.TenantID, UserID: user.ID, MaxAttempts: 3, ExpiresAt: time.Now().Add(time.Minute)}
	consumed := *live
	consumed.ConsumedAt = &consumedAt

	d.otpRepo.On("GetByID", ctx, live.ID).Return(live, nil).Once()
	d.userRepo.On("GetByID", ctx, user.TenantID, user.ID).Return(user, nil)
	d.otpRepo.On("ReplaceCode", ctx, mock.Anything, 2).Return(domain.ErrNotFound)
	d.otpRepo.On("GetByID", ctx, live.ID).Return(&consumed, nil).Once()

	assert.ErrorIs(t, svc.ResendOTP(ctx, live.ID), domain.ErrOTPInvalid)
	d.email.AssertNotCalled(t, "SendLoginCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, d := setupAuthService(false)
	ctx := context.Background()
	company := &domain.Company{ID: uuid.New(), Slug: "acme-pharma", IsActive: true}
	user := activeUser(t, company.ID, "correct-horse")

	d.companyRepo.On("GetBySlug", ctx, "acme-pharma").Return(company, nil)
	d.userRepo.On("GetByEmail", ctx, company.ID, user.Email).Return(user, nil)
	d.userRepo.On("GetByID", ctx, company.ID, user.ID).Return(user, nil)

	res, err := svc.Login(ctx, service.LoginInput{TenantSlug: "acme-pharma", Email: user.Email, Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Tokens are not interchangeable between audiences.
	_, err = svc.RefreshToken(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.ValidateToken(res.Tokens.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_RejectsGarbage(t *testing.T) {
	svc, _ := setupAuthService(false)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
