package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrAccountNotFound = errors.New("account not found")

// verificationColumns whitelists the KYC flag columns reachable through
// SetVerificationFlag.
var verificationColumns = map[string]string{
	"email":   "email_verified",
	"phone":   "phone_verified",
	"pan":     "pan_verified",
	"aadhaar": "aadhaar_verified",
	"gst":     "gst_verified",
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const resellerColumns = `id, first_name, last_name, email, phone, password_hash, company_name,
	status, onboarding_step, email_verified, phone_verified, pan_verified,
	aadhaar_verified, gst_verified, created_at, updated_at`

func (r *repository) CreateReseller(ctx context.Context, req RegisterRequest, passwordHash string) (*Reseller, error) {
	query := `
		INSERT INTO resellers (first_name, last_name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + resellerColumns

	var reseller Reseller
	err := r.db.GetContext(ctx, &reseller, query, req.FirstName, req.LastName, req.Email, req.Phone, passwordHash)
	if err != nil {
		return nil, err
	}

	return &reseller, nil
}

func (r *repository) FindResellerByEmail(ctx context.Context, email string) (*Reseller, error) {
	query := `SELECT ` + resellerColumns + ` FROM resellers WHERE email = $1`

	var reseller Reseller
	err := r.db.GetContext(ctx, &reseller, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &reseller, nil
}

func (r *repository) FindResellerByID(ctx context.Context, id int) (*Reseller, error) {
	query := `SELECT ` + resellerColumns + ` FROM resellers WHERE id = $1`

	var reseller Reseller
	err := r.db.GetContext(ctx, &reseller, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &reseller, nil
}

func (r *repository) ResellerEmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM resellers WHERE email = $1)`, email)
}

func (r *repository) UpdateResellerPassword(ctx context.Context, id int, passwordHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE resellers SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *repository) UpdateResellerProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Reseller, error) {
	query := `
		UPDATE resellers
		SET first_name   = COALESCE(NULLIF($1, ''), first_name),
		    last_name    = COALESCE(NULLIF($2, ''), last_name),
		    phone        = COALESCE(NULLIF($3, ''), phone),
		    company_name = COALESCE(NULLIF($4, ''), company_name),
		    updated_at   = NOW()
		WHERE id = $5
		RETURNING ` + resellerColumns

	var reseller Reseller
	err := r.db.GetContext(ctx, &reseller, query, req.FirstName, req.LastName, req.Phone, req.CompanyName, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &reseller, nil
}

func (r *repository) UpdateOnboardingStep(ctx context.Context, id, step int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE resellers SET onboarding_step = $1, updated_at = NOW() WHERE id = $2`,
		step, id,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *repository) SetVerificationFlag(ctx context.Context, id int, field string, value bool) error {
	column, ok := verificationColumns[field]
	if !ok {
		return fmt.Errorf("unknown verification field %q", field)
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE resellers SET %s = $1, updated_at = NOW() WHERE id = $2`, column),
		value, id,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *repository) FindAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `
		SELECT id, name, email, password_hash, role_id, status, created_at, updated_at
		FROM admins
		WHERE email = $1
	`

	var admin Admin
	err := r.db.GetContext(ctx, &admin, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &admin, nil
}

func (r *repository) FindAdminByID(ctx context.Context, id int) (*Admin, error) {
	query := `
		SELECT id, name, email, password_hash, role_id, status, created_at, updated_at
		FROM admins
		WHERE id = $1
	`

	var admin Admin
	err := r.db.GetContext(ctx, &admin, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &admin, nil
}

func (r *repository) UpdateAdminPassword(ctx context.Context, id int, passwordHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
