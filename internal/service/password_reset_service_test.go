package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"regtrack/internal/domain"
	"regtrack/internal/service"
	"regtrack/mocks"
)

func setupPasswordResetService() (
	service.PasswordResetService,
	*mocks.MockCompanyRepo,
	*mocks.MockUserRepo,
	*mocks.MockEmailSender,
) {
	companyRepo := new(mocks.MockCompanyRepo)
	userRepo := new(mocks.MockUserRepo)
	emailSender := new(mocks.MockEmailSender)

	svc := service.NewPasswordResetService(companyRepo, userRepo, emailSender, testJWTCfg, zap.NewNop())
	return svc, companyRepo, userRepo, emailSender
}

// requestResetToken runs ForgotPassword for user and returns the emailed token.
func requestResetToken(t *testing.T, svc service.PasswordResetService, companyRepo *mocks.MockCompanyRepo,
	userRepo *mocks.MockUserRepo, emailSender *mocks.MockEmailSender, user *domain.User) string {
	t.Helper()
	ctx := context.Background()
	company := &domain.Company{ID: user.TenantID, Slug: "acme-pharma", IsActive: true}

	var token string
	companyRepo.On("GetBySlug", ctx, "acme-pharma").Return(company, nil)
	userRepo.On("GetByEmail", ctx, user.TenantID, user.Email).Return(user, nil)
	emailSender.On("SendPasswordReset", ctx, user.Email, user.FullName, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { token = args.String(3) }).
		Return(nil)

	require.NoError(t, svc.ForgotPassword(ctx, service.ForgotPasswordInput{TenantSlug: "acme-pharma", Email: user.Email}))
	require.NotEmpty(t, token)
	return token
}

func TestForgotPassword_SendsEmail(t *testing.T) {
	svc, companyRepo, userRepo, emailSender := setupPasswordResetService()
	user := activeUser(t, uuid.New(), "old-password")

	requestResetToken(t, svc, companyRepo, userRepo, emailSender, user)

	emailSender.AssertExpectations(t)
}

func TestForgotPassword_NeverRevealsAccounts(t *testing.T) {
	svc, companyRepo, userRepo, emailSender := setupPasswordResetService()
	ctx := context.Background()
	company := &domain.Company{ID: uuid.New(), Slug: "acme-pharma", IsActive: true}
	inactiveCompany := &domain.Company{ID: uuid.New(), Slug: "dormant", IsActive: false}
	inactiveUser := activeUser(t, company.ID, "old-password")
	inactiveUser.Email = "left@pharma.test"
	inactiveUser.IsActive = false

	companyRepo.On("GetBySlug", ctx, "nope").Return(nil, domain.ErrNotFound)
	companyRepo.On("GetBySlug", ctx, "broken").Return(nil, errors.New("db down"))
	companyRepo.On("GetBySlug", ctx, "dormant").Return(inactiveCompany, nil)
	companyRepo.On("GetBySlug", ctx, "acme-pharma").Return(company, nil)
	userRepo.On("GetByEmail", ctx, company.ID, "ghost@pharma.test").Return(nil, domain.ErrNotFound)
	userRepo.On("GetByEmail", ctx, company.ID, inactiveUser.Email).Return(inactiveUser, nil)

	for _, input := range []service.ForgotPasswordInput{
		{TenantSlug: "nope", Email: "a@pharma.test"},
		{TenantSlug: "broken", Email: "a@pharma.test"},
		{TenantSlug: "dormant", Email: "a@pharma.test"},
		{TenantSlug: "acme-pharma", Email: "ghost@pharma.test"},
		{TenantSlug: "acme-pharma", Email: inactiveUser.Email},
	} {
		assert.NoError(t, svc.ForgotPassword(ctx, input))
	}
	emailSender.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_Success(t *testing.T) {
	svc, companyRepo, userRepo, emailSender := setupPasswordResetService()
	ctx := context.Background()
	user := activeUser(t, uuid.New(), "old-password")
	token := requestResetToken(t, svc, companyRepo, userRepo, emailSender, user)

	userRepo.On("GetByID", ctx, user.TenantID, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password-123")) == nil
	})).Return(nil)

	err := svc.ResetPassword(ctx, service.ResetPasswordInput{Token: token, NewPassword: "new-password-123"})

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestResetPassword_TokenIsSingleUse(t *testing.T) {
	svc, companyRepo, userRepo, emailSender := setupPasswordResetService()
	ctx := context.Background()
	user := activeUser(t, uuid.New(), "old-password")
	token := requestResetToken(t, svc, companyRepo, userRepo, emailSender, user)

	userRepo.On("GetByID", ctx, user.TenantID, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

	require.NoError(t, svc.ResetPassword(ctx, service.ResetPasswordInput{Token: token, NewPassword: "new-password-123"}))

	// The stored hash changed, so the same token no longer matches.
	err := svc.ResetPassword(ctx, service.ResetPasswordInput{Token: token, NewPassword: "another-password"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)
	userRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestResetPassword_InvalidTokens(t *testing.T) {
	svc, _, _, _ := setupPasswordResetService()
	authSvc, d := setupAuthService(false)
	ctx := context.Background()

	err := svc.ResetPassword(ctx, service.ResetPasswordInput{Token: "garbage", NewPassword: "new-password-123"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)

	// Access tokens carry a different audience.
	company := &domain.Company{ID: uuid.New(), Slug: "acme-pharma", IsActive: true}
	user := activeUser(t, company.ID, "correct-horse")
	d.companyRepo.On("GetBySlug", ctx, "acme-pharma").Return(company, nil)
	d.userRepo.On("GetByEmail", ctx, company.ID, user.Email).Return(user, nil)
	res, err := authSvc.Login(ctx, service.LoginInput{TenantSlug: "acme-pharma", Email: user.Email, Password: "correct-horse"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, service.ResetPasswordInput{Token: res.Tokens.AccessToken, NewPassword: "new-password-123"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)
}

func TestResetPassword_DeletedUser(t *testing.T) {
	svc, companyRepo, userRepo, emailSender := setupPasswordResetService()
	ctx := context.Background()
	user := activeUser(t, uuid.New(), "old-password")
	token := requestResetToken(t, svc, companyRepo, userRepo, emailSender, user)

	userRepo.On("GetByID", ctx, user.TenantID, user.ID).Return(nil, domain.ErrNotFound)

	err := svc.ResetPassword(ctx, service.ResetPasswordInput{Token: token, NewPassword: "new-password-123"})
	assert.ErrorIs(t, err, domain.ErrPasswordResetTokenInvalid)
}
