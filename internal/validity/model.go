package validity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive  = "ACTIVE"
	StatusExpired = "EXPIRED"

	ActionWalletRechargeReset = "WALLET_RECHARGE_RESET"
	ActionAdminReset          = "ADMIN_RESET"
	ActionManualUpdate        = "MANUAL_UPDATE"

	DefaultValidityDays = 365
)

// Validity is the single current window per reseller. Every recharge
// restarts it from now; remaining days never stack.
type Validity struct {
	ID                 int             `db:"id" json:"id"`
	ResellerID         int             `db:"reseller_id" json:"reseller_id"`
	ValidityStartDate  time.Time       `db:"validity_start_date" json:"validity_start_date"`
	ValidityEndDate    time.Time       `db:"validity_end_date" json:"validity_end_date"`
	ValidityDays       int             `db:"validity_days" json:"validity_days"`
	LastWalletID       *int            `db:"last_wallet_id" json:"last_wallet_id,omitempty"`
	LastRechargeAmount decimal.Decimal `db:"last_recharge_amount" json:"last_recharge_amount"`
	Status             string          `db:"status" json:"status"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// HistoryEntry is an append-only audit row written alongside every
// validity change.
type HistoryEntry struct {
	ID                int             `db:"id" json:"id"`
	ResellerID        int             `db:"reseller_id" json:"reseller_id"`
	PreviousStartDate *time.Time      `db:"previous_start_date" json:"previous_start_date,omitempty"`
	PreviousEndDate   *time.Time      `db:"previous_end_date" json:"previous_end_date,omitempty"`
	NewStartDate      time.Time       `db:"new_start_date" json:"new_start_date"`
	NewEndDate        time.Time       `db:"new_end_date" json:"new_end_date"`
	ValidityDays      int             `db:"validity_days" json:"validity_days"`
	Action            string          `db:"action" json:"action"`
	RechargeAmount    decimal.Decimal `db:"recharge_amount" json:"recharge_amount"`
	WalletID          *int            `db:"wallet_id" json:"wallet_id,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

type AdminResetRequest struct {
	ValidityDays int `json:"validity_days"`
}
