package validity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrNoValidity = errors.New("no validity window for reseller")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const validityColumns = `id, reseller_id, validity_start_date, validity_end_date, validity_days,
	last_wallet_id, last_recharge_amount, status, created_at, updated_at`

const historyColumns = `id, reseller_id, previous_start_date, previous_end_date, new_start_date,
	new_end_date, validity_days, action, recharge_amount, wallet_id, created_at`

// Reset upserts the validity row and appends the history row in one
// transaction. A validity row can never change without its audit row.
func (r *repository) Reset(ctx context.Context, resellerID int, walletID *int, rechargeAmount decimal.Decimal, action string, validityDays int) (*Validity, *HistoryEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var previousStart, previousEnd *time.Time
	var existing Validity
	err = tx.QueryRowxContext(ctx,
		`SELECT `+validityColumns+`
		 FROM reseller_validity
		 WHERE reseller_id = $1
		 FOR UPDATE`,
		resellerID,
	).StructScan(&existing)
	if err == nil {
		previousStart = &existing.ValidityStartDate
		previousEnd = &existing.ValidityEndDate
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}

	newStart := time.Now().UTC()
	newEnd := newStart.AddDate(0, 0, validityDays)

	var current Validity
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO reseller_validity
		   (reseller_id, validity_start_date, validity_end_date, validity_days, last_wallet_id, last_recharge_amount, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (reseller_id) DO UPDATE
		 SET validity_start_date  = EXCLUDED.validity_start_date,
		     validity_end_date    = EXCLUDED.validity_end_date,
		     validity_days        = EXCLUDED.validity_days,
		     last_wallet_id       = EXCLUDED.last_wallet_id,
		     last_recharge_amount = EXCLUDED.last_recharge_amount,
		     status               = EXCLUDED.status,
		     updated_at           = NOW()
		 RETURNING `+validityColumns,
		resellerID, newStart, newEnd, validityDays, walletID, rechargeAmount, StatusActive,
	).StructScan(&current)
	if err != nil {
		return nil, nil, err
	}

	var entry HistoryEntry
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO reseller_validity_history
		   (reseller_id, previous_start_date, previous_end_date, new_start_date, new_end_date, validity_days, action, recharge_amount, wallet_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+historyColumns,
		resellerID, previousStart, previousEnd, newStart, newEnd, validityDays, action, rechargeAmount, walletID,
	).StructScan(&entry)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &current, &entry, nil
}

func (r *repository) Get(ctx context.Context, resellerID int) (*Validity, error) {
	var v Validity
	err := r.db.GetContext(ctx, &v,
		`SELECT `+validityColumns+` FROM reseller_validity WHERE reseller_id = $1`,
		resellerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoValidity
		}
		return nil, err
	}

	return &v, nil
}

func (r *repository) GetHistory(ctx context.Context, resellerID, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []HistoryEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT `+historyColumns+`
		 FROM reseller_validity_history
		 WHERE reseller_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		resellerID, limit,
	)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
