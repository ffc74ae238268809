package account

import (
	"context"
	"errors"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/auth"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/logger"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/metrics"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
	ErrSamePassword       = errors.New("new password must differ from current password")
)

// EmailSender is the slice of the email service the orchestrator needs.
type EmailSender interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
	SendWelcome(ctx context.Context, to, name string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Reseller, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*Reseller, string, string, error)
	AdminLogin(ctx context.Context, req LoginRequest) (*Admin, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, role string, accountID int, currentPassword, newPassword string) error

	GetReseller(ctx context.Context, id int) (*Reseller, error)
	GetResellerContact(ctx context.Context, id int) (email, name string, err error)
	GetAdmin(ctx context.Context, id int) (*Admin, error)
	UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Reseller, error)
	AdvanceOnboarding(ctx context.Context, id, step int) error
	SetVerificationFlag(ctx context.Context, id int, field string, value bool) error
}

type service struct {
	repo          Repository
	email         EmailSender
	jwtSecret     string
	migrateLegacy bool
}

func NewService(repo Repository, email EmailSender, jwtSecret string, migrateLegacy bool) Service {
	return &service{
		repo:          repo,
		email:         email,
		jwtSecret:     jwtSecret,
		migrateLegacy: migrateLegacy,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Reseller, string, string, error) {
	exists, err := s.repo.ResellerEmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	reseller, err := s.repo.CreateReseller(ctx, req, passwordHash)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokenPair(
		reseller.ID,
		reseller.Email,
		auth.RoleReseller,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	metrics.RecordRegistration()

	// The account is created either way; a stuck welcome email is not
	// worth failing the registration over.
	if err := s.email.SendWelcome(ctx, reseller.Email, reseller.FullName()); err != nil {
		logger.Error("failed to queue welcome email", "reseller_id", reseller.ID, "error", err)
	}

	return reseller, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Reseller, string, string, error) {
	reseller, err := s.repo.FindResellerByEmail(ctx, req.Email)
	if err != nil {
		// Only a missing account counts as bad credentials. A broken
		// lookup surfaces as a server error, not a 401.
		if errors.Is(err, ErrAccountNotFound) {
			metrics.RecordLogin(auth.RoleReseller, "failure")
			return nil, "", "", ErrInvalidCredentials
		}
		logger.Error("reseller lookup failed during login", "error", err)
		return nil, "", "", err
	}
	if reseller.Status != StatusActive {
		metrics.RecordLogin(auth.RoleReseller, "failure")
		return nil, "", "", ErrInvalidCredentials
	}

	ok, legacy := verifyPassword(reseller.PasswordHash, req.Password)
	if !ok {
		metrics.RecordLogin(auth.RoleReseller, "failure")
		return nil, "", "", ErrInvalidCredentials
	}

	if legacy && s.migrateLegacy {
		// Opportunistic upgrade of a plaintext credential. The login
		// already succeeded, so a failed rehash only gets logged.
		if hash, hashErr := auth.HashPassword(req.Password); hashErr == nil {
			if _, updErr := s.repo.UpdateResellerPassword(ctx, reseller.ID, hash); updErr != nil {
				logger.Error("failed to migrate legacy password", "reseller_id", reseller.ID, "error", updErr)
			} else {
				reseller.PasswordHash = hash
			}
		}
	}

	accessToken, refreshToken, err := auth.GenerateTokenPair(
		reseller.ID,
		reseller.Email,
		auth.RoleReseller,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	metrics.RecordLogin(auth.RoleReseller, "success")

	return reseller, accessToken, refreshToken, nil
}

func (s *service) AdminLogin(ctx context.Context, req LoginRequest) (*Admin, string, string, error) {
	admin, err := s.repo.FindAdminByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			metrics.RecordLogin(auth.RoleAdmin, "failure")
			return nil, "", "", ErrInvalidCredentials
		}
		logger.Error("admin lookup failed during login", "error", err)
		return nil, "", "", err
	}
	if admin.Status != StatusActive {
		metrics.RecordLogin(auth.RoleAdmin, "failure")
		return nil, "", "", ErrInvalidCredentials
	}

	if ok, _ := verifyPassword(admin.PasswordHash, req.Password); !ok {
		metrics.RecordLogin(auth.RoleAdmin, "failure")
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokenPair(
		admin.ID,
		admin.Email,
		auth.RoleAdmin,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	metrics.RecordLogin(auth.RoleAdmin, "success")

	return admin, accessToken, refreshToken, nil
}

// Refresh re-checks the account before issuing a fresh pair: a valid
// refresh token alone does not prove the account still exists or is
// active.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", "", err
	}

	switch claims.Role {
	case auth.RoleAdmin:
		admin, err := s.repo.FindAdminByID(ctx, claims.AccountID)
		if err != nil {
			if !errors.Is(err, ErrAccountNotFound) {
				logger.Error("admin lookup failed during token refresh", "admin_id", claims.AccountID, "error", err)
			}
			return "", "", err
		}
		if admin.Status != StatusActive {
			return "", "", ErrAccountInactive
		}
	default:
		reseller, err := s.repo.FindResellerByID(ctx, claims.AccountID)
		if err != nil {
			if !errors.Is(err, ErrAccountNotFound) {
				logger.Error("reseller lookup failed during token refresh", "reseller_id", claims.AccountID, "error", err)
			}
			return "", "", err
		}
		if reseller.Status != StatusActive {
			return "", "", ErrAccountInactive
		}
	}

	return auth.GenerateTokenPair(claims.AccountID, claims.Email, claims.Role, s.jwtSecret)
}

// ForgotPassword never tells the caller whether the email exists. Admins
// are checked first, then resellers; inactive accounts get the same
// silence as unknown ones, with the real reason kept in the logs.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	var (
		accountID int
		name      string
		role      string
		status    string
	)

	if admin, err := s.repo.FindAdminByEmail(ctx, email); err == nil {
		accountID, name, role, status = admin.ID, admin.Name, auth.RoleAdmin, admin.Status
	} else if reseller, err := s.repo.FindResellerByEmail(ctx, email); err == nil {
		accountID, name, role, status = reseller.ID, reseller.FullName(), auth.RoleReseller, reseller.Status
	} else {
		logger.Debug("forgot password for unknown email", "email", email)
		return nil
	}

	if status != StatusActive {
		logger.Info("forgot password for inactive account", "role", role, "account_id", accountID)
		return nil
	}

	token, err := auth.GeneratePasswordResetToken(accountID, email, role, s.jwtSecret)
	if err != nil {
		logger.Error("failed to generate password reset token", "error", err)
		return nil
	}

	// Send failures are swallowed so the response stays indistinguishable
	// from the unknown-email case.
	if err := s.email.SendPasswordReset(ctx, email, name, token); err != nil {
		logger.Error("failed to queue password reset email", "email", email, "error", err)
	}

	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := auth.ValidatePasswordResetToken(token, s.jwtSecret)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	switch claims.Role {
	case auth.RoleAdmin:
		updated, err := s.repo.UpdateAdminPassword(ctx, claims.AccountID, passwordHash)
		if err != nil {
			return err
		}
		if !updated {
			return ErrAccountNotFound
		}
	case auth.RoleReseller:
		updated, err := s.repo.UpdateResellerPassword(ctx, claims.AccountID, passwordHash)
		if err != nil {
			return err
		}
		if !updated {
			return ErrAccountNotFound
		}
	default:
		// Tokens minted before roles were embedded: try the admin table
		// first, then resellers.
		if updated, err := s.repo.UpdateAdminPassword(ctx, claims.AccountID, passwordHash); err == nil && updated {
			return nil
		}
		updated, err := s.repo.UpdateResellerPassword(ctx, claims.AccountID, passwordHash)
		if err != nil {
			return err
		}
		if !updated {
			return ErrAccountNotFound
		}
	}

	return nil
}

func (s *service) ChangePassword(ctx context.Context, role string, accountID int, currentPassword, newPassword string) error {
	if newPassword == currentPassword {
		return ErrSamePassword
	}

	var stored string
	switch role {
	case auth.RoleAdmin:
		admin, err := s.repo.FindAdminByID(ctx, accountID)
		if err != nil {
			return err
		}
		stored = admin.PasswordHash
	default:
		reseller, err := s.repo.FindResellerByID(ctx, accountID)
		if err != nil {
			return err
		}
		stored = reseller.PasswordHash
	}

	if ok, _ := verifyPassword(stored, currentPassword); !ok {
		return ErrInvalidCredentials
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if role == auth.RoleAdmin {
		_, err = s.repo.UpdateAdminPassword(ctx, accountID, passwordHash)
	} else {
		_, err = s.repo.UpdateResellerPassword(ctx, accountID, passwordHash)
	}

	return err
}

func (s *service) GetReseller(ctx context.Context, id int) (*Reseller, error) {
	return s.repo.FindResellerByID(ctx, id)
}

func (s *service) GetResellerContact(ctx context.Context, id int) (string, string, error) {
	reseller, err := s.repo.FindResellerByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return reseller.Email, reseller.FullName(), nil
}

func (s *service) GetAdmin(ctx context.Context, id int) (*Admin, error) {
	return s.repo.FindAdminByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Reseller, error) {
	return s.repo.UpdateResellerProfile(ctx, id, req)
}

func (s *service) AdvanceOnboarding(ctx context.Context, id, step int) error {
	return s.repo.UpdateOnboardingStep(ctx, id, step)
}

func (s *service) SetVerificationFlag(ctx context.Context, id int, field string, value bool) error {
	return s.repo.SetVerificationFlag(ctx, id, field, value)
}

// verifyPassword checks a supplied password against a stored credential,
// which is either a bcrypt hash or a legacy plaintext value awaiting
// migration. The second return reports the legacy case.
func verifyPassword(stored, supplied string) (ok, legacy bool) {
	if auth.IsBcryptHash(stored) {
		return auth.CheckPassword(stored, supplied), false
	}
	return auth.CheckLegacyPassword(stored, supplied), true
}
