package validity

import (
	"context"
	"errors"
	"time"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/metrics"

	"github.com/shopspring/decimal"
)

type Service interface {
	UpdateOnRecharge(ctx context.Context, resellerID int, walletID *int, rechargeAmount decimal.Decimal, action string, validityDays int) (*Validity, *HistoryEntry, error)
	ResetOnRecharge(ctx context.Context, resellerID, walletID int, rechargeAmount decimal.Decimal) error
	AdminReset(ctx context.Context, resellerID, validityDays int) (*Validity, *HistoryEntry, error)
	Get(ctx context.Context, resellerID int) (*Validity, error)
	GetHistory(ctx context.Context, resellerID, limit int) ([]HistoryEntry, error)
	IsActive(ctx context.Context, resellerID int, now time.Time) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) UpdateOnRecharge(ctx context.Context, resellerID int, walletID *int, rechargeAmount decimal.Decimal, action string, validityDays int) (*Validity, *HistoryEntry, error) {
	if validityDays <= 0 {
		validityDays = DefaultValidityDays
	}

	current, entry, err := s.repo.Reset(ctx, resellerID, walletID, rechargeAmount, action, validityDays)
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordValidityReset(action)

	return current, entry, nil
}

// ResetOnRecharge is the wallet service hook for a committed credit.
func (s *service) ResetOnRecharge(ctx context.Context, resellerID, walletID int, rechargeAmount decimal.Decimal) error {
	_, _, err := s.UpdateOnRecharge(ctx, resellerID, &walletID, rechargeAmount, ActionWalletRechargeReset, DefaultValidityDays)
	return err
}

func (s *service) AdminReset(ctx context.Context, resellerID, validityDays int) (*Validity, *HistoryEntry, error) {
	return s.UpdateOnRecharge(ctx, resellerID, nil, decimal.Zero, ActionAdminReset, validityDays)
}

func (s *service) Get(ctx context.Context, resellerID int) (*Validity, error) {
	return s.repo.Get(ctx, resellerID)
}

// maxPageSize caps client-supplied page sizes before they reach the DB.
const maxPageSize = 500

func (s *service) GetHistory(ctx context.Context, resellerID, limit int) ([]HistoryEntry, error) {
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.repo.GetHistory(ctx, resellerID, limit)
}

func (s *service) IsActive(ctx context.Context, resellerID int, now time.Time) (bool, error) {
	v, err := s.repo.Get(ctx, resellerID)
	if err != nil {
		if errors.Is(err, ErrNoValidity) {
			return false, nil
		}
		return false, err
	}

	if v.Status != StatusActive {
		return false, nil
	}

	return !now.Before(v.ValidityStartDate) && now.Before(v.ValidityEndDate), nil
}
