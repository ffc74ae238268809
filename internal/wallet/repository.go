package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const walletColumns = `id, reseller_id, balance, credit_amount, debit_amount, last_transaction_at, user_type, created_at, updated_at`

func (r *repository) GetOrCreateWallet(ctx context.Context, resellerID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT `+walletColumns+` FROM wallets WHERE reseller_id = $1`, resellerID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (reseller_id)
		 VALUES ($1)
		 RETURNING `+walletColumns,
		resellerID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// ApplyTransaction performs the whole read-modify-write under one row
// lock: balance read, ledger insert and aggregate update either all
// commit or none do, so concurrent operations against the same wallet
// serialize on the wallet row.
func (r *repository) ApplyTransaction(ctx context.Context, resellerID int, txType string, amount decimal.Decimal, description, reference string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if txType != TypeCredit && txType != TypeDebit {
		return nil, fmt.Errorf("unknown transaction type %q", txType)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w Wallet
	err = tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+`
		 FROM wallets
		 WHERE reseller_id = $1
		 FOR UPDATE`,
		resellerID,
	).StructScan(&w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO wallets (reseller_id)
				 VALUES ($1)
				 RETURNING `+walletColumns,
				resellerID,
			).StructScan(&w)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	balanceBefore := w.Balance
	var balanceAfter decimal.Decimal
	if txType == TypeCredit {
		balanceAfter = balanceBefore.Add(amount)
	} else {
		balanceAfter = balanceBefore.Sub(amount)
		if balanceAfter.IsNegative() {
			return nil, ErrInsufficientBalance
		}
	}

	var record Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, type, amount, balance_before, balance_after, description, reference)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, wallet_id, type, amount, balance_before, balance_after, description, reference, created_at`,
		w.ID, txType, amount, balanceBefore, balanceAfter, description, reference,
	).StructScan(&record)
	if err != nil {
		return nil, err
	}

	creditDelta := decimal.Zero
	debitDelta := decimal.Zero
	if txType == TypeCredit {
		creditDelta = amount
	} else {
		debitDelta = amount
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = $1,
		     credit_amount = credit_amount + $2,
		     debit_amount = debit_amount + $3,
		     last_transaction_at = NOW(),
		     updated_at = NOW()
		 WHERE id = $4`,
		balanceAfter, creditDelta, debitDelta, w.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) GetTransactions(ctx context.Context, resellerID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID,
		`SELECT id FROM wallets WHERE reseller_id = $1`, resellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, type, amount, balance_before, balance_after, description, reference, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
