package account

import "context"

type Repository interface {
	CreateReseller(ctx context.Context, req RegisterRequest, passwordHash string) (*Reseller, error)
	FindResellerByEmail(ctx context.Context, email string) (*Reseller, error)
	FindResellerByID(ctx context.Context, id int) (*Reseller, error)
	ResellerEmailExists(ctx context.Context, email string) (bool, error)
	UpdateResellerPassword(ctx context.Context, id int, passwordHash string) (bool, error)
	UpdateResellerProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Reseller, error)
	UpdateOnboardingStep(ctx context.Context, id, step int) error
	SetVerificationFlag(ctx context.Context, id int, field string, value bool) error

	FindAdminByEmail(ctx context.Context, email string) (*Admin, error)
	FindAdminByID(ctx context.Context, id int) (*Admin, error)
	UpdateAdminPassword(ctx context.Context, id int, passwordHash string) (bool, error)
}
