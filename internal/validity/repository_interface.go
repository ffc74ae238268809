package validity

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Reset(ctx context.Context, resellerID int, walletID *int, rechargeAmount decimal.Decimal, action string, validityDays int) (*Validity, *HistoryEntry, error)
	Get(ctx context.Context, resellerID int) (*Validity, error)
	GetHistory(ctx context.Context, resellerID, limit int) ([]HistoryEntry, error)
}
