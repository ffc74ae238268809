package wallet

import (
	"context"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/logger"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidityResetter is implemented by the validity service. A successful
// credit restarts the reseller's validity window.
type ValidityResetter interface {
	ResetOnRecharge(ctx context.Context, resellerID, walletID int, rechargeAmount decimal.Decimal) error
}

// ContactDirectory resolves a reseller ID to an email address and
// display name. Implemented by the account service.
type ContactDirectory interface {
	GetResellerContact(ctx context.Context, id int) (email, name string, err error)
}

// RechargeNotifier queues a receipt email after a credit.
type RechargeNotifier interface {
	SendRechargeReceipt(ctx context.Context, to, name, amount, balance, reference string) error
}

type Service interface {
	Credit(ctx context.Context, resellerID int, amount decimal.Decimal, description, reference string) (*Transaction, error)
	Debit(ctx context.Context, resellerID int, amount decimal.Decimal, description, reference string) (*Transaction, error)
	GetWallet(ctx context.Context, resellerID int) (*Wallet, error)
	ListTransactions(ctx context.Context, resellerID, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo     Repository
	validity ValidityResetter
	contacts ContactDirectory
	notifier RechargeNotifier
}

func NewService(repo Repository, validity ValidityResetter, contacts ContactDirectory, notifier RechargeNotifier) Service {
	return &service{
		repo:     repo,
		validity: validity,
		contacts: contacts,
		notifier: notifier,
	}
}

func (s *service) Credit(ctx context.Context, resellerID int, amount decimal.Decimal, description, reference string) (*Transaction, error) {
	if reference == "" {
		reference = uuid.NewString()
	}

	record, err := s.repo.ApplyTransaction(ctx, resellerID, TypeCredit, amount, description, reference)
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(TypeCredit, amount.InexactFloat64())

	// The credit is committed; a validity failure here must not undo it.
	// The window is repaired on the next recharge or by an admin reset.
	if err := s.validity.ResetOnRecharge(ctx, resellerID, record.WalletID, amount); err != nil {
		logger.Error("validity reset failed after wallet credit",
			"reseller_id", resellerID,
			"wallet_id", record.WalletID,
			"transaction_id", record.ID,
			"error", err,
		)
	}

	s.sendReceipt(ctx, resellerID, record)

	return record, nil
}

// sendReceipt queues a recharge receipt; failures only get logged.
func (s *service) sendReceipt(ctx context.Context, resellerID int, record *Transaction) {
	email, name, err := s.contacts.GetResellerContact(ctx, resellerID)
	if err != nil {
		logger.Error("failed to resolve reseller contact for receipt",
			"reseller_id", resellerID,
			"error", err,
		)
		return
	}

	err = s.notifier.SendRechargeReceipt(ctx, email, name,
		record.Amount.StringFixed(2),
		record.BalanceAfter.StringFixed(2),
		record.Reference,
	)
	if err != nil {
		logger.Error("failed to queue recharge receipt",
			"reseller_id", resellerID,
			"error", err,
		)
	}
}

func (s *service) Debit(ctx context.Context, resellerID int, amount decimal.Decimal, description, reference string) (*Transaction, error) {
	if reference == "" {
		reference = uuid.NewString()
	}

	record, err := s.repo.ApplyTransaction(ctx, resellerID, TypeDebit, amount, description, reference)
	if err != nil {
		return nil, err
	}

	metrics.RecordWalletTransaction(TypeDebit, amount.InexactFloat64())

	return record, nil
}

func (s *service) GetWallet(ctx context.Context, resellerID int) (*Wallet, error) {
	return s.repo.GetOrCreateWallet(ctx, resellerID)
}

// maxPageSize caps client-supplied page sizes before they reach the DB.
const maxPageSize = 500

func (s *service) ListTransactions(ctx context.Context, resellerID, limit, offset int) ([]Transaction, error) {
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.repo.GetTransactions(ctx, resellerID, limit, offset)
}
