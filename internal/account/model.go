package account

import "time"

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

type Admin struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	RoleID       *int      `db:"role_id" json:"role_id,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Reseller struct {
	ID              int       `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Email           string    `db:"email" json:"email"`
	Phone           string    `db:"phone" json:"phone"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	CompanyName     string    `db:"company_name" json:"company_name"`
	Status          string    `db:"status" json:"status"`
	OnboardingStep  int       `db:"onboarding_step" json:"onboarding_step"`
	EmailVerified   bool      `db:"email_verified" json:"email_verified"`
	PhoneVerified   bool      `db:"phone_verified" json:"phone_verified"`
	PANVerified     bool      `db:"pan_verified" json:"pan_verified"`
	AadhaarVerified bool      `db:"aadhaar_verified" json:"aadhaar_verified"`
	GSTVerified     bool      `db:"gst_verified" json:"gst_verified"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Reseller) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required" validate:"required"`
	LastName  string `json:"last_name" binding:"required" validate:"required"`
	Email     string `json:"email" binding:"required,email" validate:"required,email"`
	Phone     string `json:"phone" binding:"required" validate:"required"`
	Password  string `json:"password" binding:"required,min=6" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

type OnboardingRequest struct {
	Step int `json:"step" binding:"required,gte=1"`
}

type VerificationRequest struct {
	Field string `json:"field" binding:"required,oneof=email phone pan aadhaar gst"`
	Value bool   `json:"value"`
}

type LoginResponse struct {
	Success      bool      `json:"success"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	User         *Reseller `json:"user,omitempty"`
	Admin        *Admin    `json:"admin,omitempty"`
}

type RefreshResponse struct {
	Success      bool   `json:"success"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
