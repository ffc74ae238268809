package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	GetOrCreateWallet(ctx context.Context, resellerID int) (*Wallet, error)
	ApplyTransaction(ctx context.Context, resellerID int, txType string, amount decimal.Decimal, description, reference string) (*Transaction, error)
	GetTransactions(ctx context.Context, resellerID, limit, offset int) ([]Transaction, error)
}
