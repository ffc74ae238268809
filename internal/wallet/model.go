package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
)

// Wallet holds a reseller's balance plus running credit/debit totals. The
// balance is always derivable from the transaction log; the aggregates
// are maintained in the same transaction as each ledger row.
type Wallet struct {
	ID                int             `db:"id" json:"id"`
	ResellerID        int             `db:"reseller_id" json:"reseller_id"`
	Balance           decimal.Decimal `db:"balance" json:"balance"`
	CreditAmount      decimal.Decimal `db:"credit_amount" json:"credit_amount"`
	DebitAmount       decimal.Decimal `db:"debit_amount" json:"debit_amount"`
	LastTransactionAt *time.Time      `db:"last_transaction_at" json:"last_transaction_at,omitempty"`
	UserType          string          `db:"user_type" json:"user_type"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction is an immutable ledger row. Rows are only ever inserted.
type Transaction struct {
	ID            int             `db:"id" json:"id"`
	WalletID      int             `db:"wallet_id" json:"wallet_id"`
	Type          string          `db:"type" json:"type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description   string          `db:"description" json:"description"`
	Reference     string          `db:"reference" json:"reference"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type LedgerRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}
