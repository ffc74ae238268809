package account

import (
	"context"
	"testing"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/auth"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateReseller(ctx context.Context, req RegisterRequest, passwordHash string) (*Reseller, error) {
	args := m.Called(ctx, req, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reseller), args.Error(1)
}

func (m *MockRepository) FindResellerByEmail(ctx context.Context, email string) (*Reseller, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reseller), args.Error(1)
}

func (m *MockRepository) FindResellerByID(ctx context.Context, id int) (*Reseller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reseller), args.Error(1)
}

func (m *MockRepository) ResellerEmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateResellerPassword(ctx context.Context, id int, passwordHash string) (bool, error) {
	args := m.Called(ctx, id, passwordHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateResellerProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Reseller, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reseller), args.Error(1)
}

func (m *MockRepository) UpdateOnboardingStep(ctx context.Context, id, step int) error {
	args := m.Called(ctx, id, step)
	return args.Error(0)
}

func (m *MockRepository) SetVerificationFlag(ctx context.Context, id int, field string, value bool) error {
	args := m.Called(ctx, id, field, value)
	return args.Error(0)
}

func (m *MockRepository) FindAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) FindAdminByID(ctx context.Context, id int) (*Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) UpdateAdminPassword(ctx context.Context, id int, passwordHash string) (bool, error) {
	args := m.Called(ctx, id, passwordHash)
	return args.Bool(0), args.Error(1)
}

// MockEmailSender records password-reset and welcome sends.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendPasswordReset(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

func (m *MockEmailSender) SendWelcome(ctx context.Context, to, name string) error {
	args := m.Called(ctx, to, name)
	return args.Error(0)
}

func activeReseller(t *testing.T, password string) *Reseller {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &Reseller{
		ID:           1,
		FirstName:    "Ravi",
		LastName:     "Kumar",
		Email:        "ravi@example.com",
		PasswordHash: hash,
		Status:       StatusActive,
	}
}

func TestService_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ResellerEmailExists", mock.Anything, "new@example.com").Return(false, nil)
		repo.On("CreateReseller", mock.Anything, mock.Anything, mock.Anything).Return(&Reseller{
			ID:     2,
			Email:  "new@example.com",
			Status: StatusActive,
		}, nil)

		sender := new(MockEmailSender)
		sender.On("SendWelcome", mock.Anything, "new@example.com", mock.Anything).Return(nil)

		svc := NewService(repo, sender, testSecret, false)

		reseller, accessToken, refreshToken, err := svc.Register(context.Background(), RegisterRequest{
			FirstName: "New",
			LastName:  "Reseller",
			Email:     "new@example.com",
			Phone:     "9876543210",
			Password:  "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, reseller.ID)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ResellerEmailExists", mock.Anything, "existing@example.com").Return(true, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, _, err := svc.Register(context.Background(), RegisterRequest{
			FirstName: "Dup",
			LastName:  "Reseller",
			Email:     "existing@example.com",
			Phone:     "9876543210",
			Password:  "password123",
		})

		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "CreateReseller", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Login(t *testing.T) {
	t.Run("bcrypt credential success", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		got, accessToken, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    reseller.Email,
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, reseller.ID, got.ID)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    reseller.Email,
			Password: "wrong",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrAccountNotFound)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ghost@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		reseller.Status = StatusInactive
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    reseller.Email,
			Password: "password123",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("legacy plaintext credential success", func(t *testing.T) {
		reseller := &Reseller{
			ID:           3,
			Email:        "legacy@example.com",
			PasswordHash: "secret123",
			Status:       StatusActive,
		}
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		got, accessToken, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    reseller.Email,
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, 3, got.ID)
		assert.NotEmpty(t, accessToken)
		// migration flag off: no rehash
		repo.AssertNotCalled(t, "UpdateResellerPassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("legacy plaintext credential wrong password", func(t *testing.T) {
		reseller := &Reseller{
			ID:           3,
			Email:        "legacy@example.com",
			PasswordHash: "secret123",
			Status:       StatusActive,
		}
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    reseller.Email,
			Password: "wrong",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("database failure is not a credential failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, "ravi@example.com").Return(nil, assert.AnError)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ravi@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("legacy credential rehashed when migration enabled", func(t *testing.T) {
		reseller := &Reseller{
			ID:           3,
			Email:        "legacy@example.com",
			PasswordHash: "secret123",
			Status:       StatusActive,
		}
		repo := new(MockRepository)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)
		repo.On("UpdateResellerPassword", mock.Anything, 3, mock.MatchedBy(func(hash string) bool {
			return auth.IsBcryptHash(hash) && auth.CheckPassword(hash, "secret123")
		})).Return(true, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, true)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    reseller.Email,
			Password: "secret123",
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_AdminLogin(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		hash, err := auth.HashPassword("adminPass1")
		require.NoError(t, err)
		admin := &Admin{ID: 5, Name: "Ops", Email: "ops@example.com", PasswordHash: hash, Status: StatusActive}

		repo := new(MockRepository)
		repo.On("FindAdminByEmail", mock.Anything, admin.Email).Return(admin, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		got, accessToken, _, err := svc.AdminLogin(context.Background(), LoginRequest{
			Email:    admin.Email,
			Password: "adminPass1",
		})

		require.NoError(t, err)
		assert.Equal(t, 5, got.ID)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("database failure is not a credential failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindAdminByEmail", mock.Anything, "ops@example.com").Return(nil, assert.AnError)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, _, err := svc.AdminLogin(context.Background(), LoginRequest{
			Email:    "ops@example.com",
			Password: "adminPass1",
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Refresh(t *testing.T) {
	t.Run("valid refresh token for active reseller", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		repo := new(MockRepository)
		repo.On("FindResellerByID", mock.Anything, reseller.ID).Return(reseller, nil)

		refreshToken, err := auth.GenerateRefreshToken(reseller.ID, reseller.Email, auth.RoleReseller, testSecret)
		require.NoError(t, err)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		newAccess, newRefresh, err := svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("access token rejected", func(t *testing.T) {
		accessToken, err := auth.GenerateAccessToken(1, "ravi@example.com", auth.RoleReseller, testSecret)
		require.NoError(t, err)

		svc := NewService(new(MockRepository), new(MockEmailSender), testSecret, false)

		_, _, err = svc.Refresh(context.Background(), accessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
	})

	t.Run("database failure passes through", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindResellerByID", mock.Anything, 1).Return(nil, assert.AnError)

		refreshToken, err := auth.GenerateRefreshToken(1, "ravi@example.com", auth.RoleReseller, testSecret)
		require.NoError(t, err)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, err = svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("deactivated account rejected", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		reseller.Status = StatusSuspended
		repo := new(MockRepository)
		repo.On("FindResellerByID", mock.Anything, reseller.ID).Return(reseller, nil)

		refreshToken, err := auth.GenerateRefreshToken(reseller.ID, reseller.Email, auth.RoleReseller, testSecret)
		require.NoError(t, err)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		_, _, err = svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestService_ForgotPassword(t *testing.T) {
	t.Run("unknown email sends nothing and reports nothing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindAdminByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrAccountNotFound)
		repo.On("FindResellerByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrAccountNotFound)
		sender := new(MockEmailSender)

		svc := NewService(repo, sender, testSecret, false)

		err := svc.ForgotPassword(context.Background(), "ghost@example.com")
		assert.NoError(t, err)
		sender.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inactive account sends nothing and reports nothing", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		reseller.Status = StatusInactive
		repo := new(MockRepository)
		repo.On("FindAdminByEmail", mock.Anything, reseller.Email).Return(nil, ErrAccountNotFound)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)
		sender := new(MockEmailSender)

		svc := NewService(repo, sender, testSecret, false)

		err := svc.ForgotPassword(context.Background(), reseller.Email)
		assert.NoError(t, err)
		sender.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("active reseller gets a reset token", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		repo := new(MockRepository)
		repo.On("FindAdminByEmail", mock.Anything, reseller.Email).Return(nil, ErrAccountNotFound)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)

		sender := new(MockEmailSender)
		sender.On("SendPasswordReset", mock.Anything, reseller.Email, "Ravi Kumar", mock.MatchedBy(func(token string) bool {
			claims, err := auth.ValidatePasswordResetToken(token, testSecret)
			return err == nil && claims.AccountID == reseller.ID
		})).Return(nil)

		svc := NewService(repo, sender, testSecret, false)

		err := svc.ForgotPassword(context.Background(), reseller.Email)
		assert.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("admin checked before reseller", func(t *testing.T) {
		admin := &Admin{ID: 5, Name: "Ops", Email: "ops@example.com", Status: StatusActive}
		repo := new(MockRepository)
		repo.On("FindAdminByEmail", mock.Anything, admin.Email).Return(admin, nil)

		sender := new(MockEmailSender)
		sender.On("SendPasswordReset", mock.Anything, admin.Email, "Ops", mock.Anything).Return(nil)

		svc := NewService(repo, sender, testSecret, false)

		err := svc.ForgotPassword(context.Background(), admin.Email)
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "FindResellerByEmail", mock.Anything, mock.Anything)
	})

	t.Run("send failure is swallowed", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		repo := new(MockRepository)
		repo.On("FindAdminByEmail", mock.Anything, reseller.Email).Return(nil, ErrAccountNotFound)
		repo.On("FindResellerByEmail", mock.Anything, reseller.Email).Return(reseller, nil)

		sender := new(MockEmailSender)
		sender.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		svc := NewService(repo, sender, testSecret, false)

		err := svc.ForgotPassword(context.Background(), reseller.Email)
		assert.NoError(t, err)
	})
}

func TestService_ResetPassword(t *testing.T) {
	t.Run("reseller token updates reseller table", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateResellerPassword", mock.Anything, 1, mock.MatchedBy(func(hash string) bool {
			return auth.CheckPassword(hash, "newPassword1")
		})).Return(true, nil)

		token, err := auth.GeneratePasswordResetToken(1, "ravi@example.com", auth.RoleReseller, testSecret)
		require.NoError(t, err)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		err = svc.ResetPassword(context.Background(), token, "newPassword1")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("admin token updates admin table", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateAdminPassword", mock.Anything, 5, mock.Anything).Return(true, nil)

		token, err := auth.GeneratePasswordResetToken(5, "ops@example.com", auth.RoleAdmin, testSecret)
		require.NoError(t, err)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		err = svc.ResetPassword(context.Background(), token, "newPassword1")
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateResellerPassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("session token rejected", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(1, "ravi@example.com", auth.RoleReseller, testSecret)
		require.NoError(t, err)

		svc := NewService(new(MockRepository), new(MockEmailSender), testSecret, false)

		err = svc.ResetPassword(context.Background(), token, "newPassword1")
		assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
	})

	t.Run("vanished account surfaces not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpdateResellerPassword", mock.Anything, 1, mock.Anything).Return(false, nil)

		token, err := auth.GeneratePasswordResetToken(1, "ravi@example.com", auth.RoleReseller, testSecret)
		require.NoError(t, err)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		err = svc.ResetPassword(context.Background(), token, "newPassword1")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("same password rejected", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockEmailSender), testSecret, false)

		err := svc.ChangePassword(context.Background(), auth.RoleReseller, 1, "password123", "password123")
		assert.ErrorIs(t, err, ErrSamePassword)
	})

	t.Run("wrong current password rejected", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		repo := new(MockRepository)
		repo.On("FindResellerByID", mock.Anything, reseller.ID).Return(reseller, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		err := svc.ChangePassword(context.Background(), auth.RoleReseller, reseller.ID, "wrong", "newPassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("successful change", func(t *testing.T) {
		reseller := activeReseller(t, "password123")
		repo := new(MockRepository)
		repo.On("FindResellerByID", mock.Anything, reseller.ID).Return(reseller, nil)
		repo.On("UpdateResellerPassword", mock.Anything, reseller.ID, mock.MatchedBy(func(hash string) bool {
			return auth.CheckPassword(hash, "newPassword1")
		})).Return(true, nil)

		svc := NewService(repo, new(MockEmailSender), testSecret, false)

		err := svc.ChangePassword(context.Background(), auth.RoleReseller, reseller.ID, "password123", "newPassword1")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
