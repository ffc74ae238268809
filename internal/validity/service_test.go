package validity

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Reset(ctx context.Context, resellerID int, walletID *int, rechargeAmount decimal.Decimal, action string, validityDays int) (*Validity, *HistoryEntry, error) {
	args := m.Called(ctx, resellerID, walletID, rechargeAmount, action, validityDays)
	var v *Validity
	var h *HistoryEntry
	if args.Get(0) != nil {
		v = args.Get(0).(*Validity)
	}
	if args.Get(1) != nil {
		h = args.Get(1).(*HistoryEntry)
	}
	return v, h, args.Error(2)
}

func (m *MockRepository) Get(ctx context.Context, resellerID int) (*Validity, error) {
	args := m.Called(ctx, resellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Validity), args.Error(1)
}

func (m *MockRepository) GetHistory(ctx context.Context, resellerID, limit int) ([]HistoryEntry, error) {
	args := m.Called(ctx, resellerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]HistoryEntry), args.Error(1)
}

func TestUpdateOnRecharge_DefaultsValidityDays(t *testing.T) {
	walletID := 7
	repo := new(MockRepository)
	repo.On("Reset", mock.Anything, 20, &walletID, decimal.NewFromInt(500), ActionWalletRechargeReset, DefaultValidityDays).
		Return(&Validity{ID: 1}, &HistoryEntry{ID: 1}, nil)

	svc := NewService(repo)

	_, _, err := svc.UpdateOnRecharge(context.Background(), 20, &walletID, decimal.NewFromInt(500), ActionWalletRechargeReset, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestResetOnRecharge_UsesWalletRechargeAction(t *testing.T) {
	walletID := 7
	repo := new(MockRepository)
	repo.On("Reset", mock.Anything, 20, &walletID, decimal.NewFromInt(500), ActionWalletRechargeReset, DefaultValidityDays).
		Return(&Validity{ID: 1}, &HistoryEntry{ID: 1}, nil)

	svc := NewService(repo)

	err := svc.ResetOnRecharge(context.Background(), 20, walletID, decimal.NewFromInt(500))
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAdminReset_UsesAdminAction(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Reset", mock.Anything, 20, (*int)(nil), decimal.Zero, ActionAdminReset, 30).
		Return(&Validity{ID: 1}, &HistoryEntry{ID: 1}, nil)

	svc := NewService(repo)

	_, _, err := svc.AdminReset(context.Background(), 20, 30)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetHistory_CapsPageSize(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetHistory", mock.Anything, 20, maxPageSize).Return([]HistoryEntry{}, nil)

	svc := NewService(repo)

	_, err := svc.GetHistory(context.Background(), 20, 1000000)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestIsActive(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		validity *Validity
		err      error
		want     bool
	}{
		{
			name: "inside window",
			validity: &Validity{
				ValidityStartDate: now.AddDate(0, 0, -10),
				ValidityEndDate:   now.AddDate(0, 0, 355),
				Status:            StatusActive,
			},
			want: true,
		},
		{
			name: "expired window",
			validity: &Validity{
				ValidityStartDate: now.AddDate(0, -13, 0),
				ValidityEndDate:   now.AddDate(0, -1, 0),
				Status:            StatusActive,
			},
			want: false,
		},
		{
			name: "non-active status",
			validity: &Validity{
				ValidityStartDate: now.AddDate(0, 0, -10),
				ValidityEndDate:   now.AddDate(0, 0, 355),
				Status:            StatusExpired,
			},
			want: false,
		},
		{
			name: "no validity row",
			err:  ErrNoValidity,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.validity != nil {
				repo.On("Get", mock.Anything, 20).Return(tt.validity, nil)
			} else {
				repo.On("Get", mock.Anything, 20).Return(nil, tt.err)
			}

			svc := NewService(repo)

			active, err := svc.IsActive(context.Background(), 20, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, active)
		})
	}
}
