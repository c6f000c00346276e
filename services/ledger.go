package services

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
)

// LedgerService derives balances from the append-only deposit ledger and
// the withdrawal request table. It never writes; deposits are appended by
// the deposit service and withdrawal rows by the withdrawal service.
type LedgerService interface {
	// AvailableBalance is completed deposits minus completed withdrawals.
	AvailableBalance(ctx context.Context, accountID string, currency models.Currency) (float64, error)
	// DailyWithdrawn sums withdrawals still reserving funds (pending,
	// approved, processing, completed) created in the same UTC day as asOf.
	DailyWithdrawn(ctx context.Context, accountID string, currency models.Currency, asOf time.Time) (float64, error)

	Snapshot(ctx context.Context, accountID string, currency models.Currency, asOf time.Time) (*models.LedgerSnapshot, error)
	// SnapshotWith reads the snapshot through the given runner, so the
	// withdrawal service can take it inside the transaction that holds the
	// per-user balance lock.
	SnapshotWith(ctx context.Context, runner sq.BaseRunner, accountID string, currency models.Currency, asOf time.Time) (*models.LedgerSnapshot, error)
}

func NewLedgerService(dataDatabase *sql.DB, log *zap.Logger) LedgerService {
	return &ledgerService{
		service: service{
			dataDB: dataDatabase,
			log:    log,
		},
	}
}

type ledgerService struct {
	service
}

func (l *ledgerService) AvailableBalance(ctx context.Context, accountID string, currency models.Currency) (float64, error) {
	return l.availableBalance(ctx, l.dataDB, accountID, currency)
}

func (l *ledgerService) DailyWithdrawn(ctx context.Context, accountID string, currency models.Currency, asOf time.Time) (float64, error) {
	return l.dailyWithdrawn(ctx, l.dataDB, accountID, currency, asOf)
}

func (l *ledgerService) Snapshot(ctx context.Context, accountID string, currency models.Currency, asOf time.Time) (*models.LedgerSnapshot, error) {
	return l.SnapshotWith(ctx, l.dataDB, accountID, currency, asOf)
}

func (l *ledgerService) SnapshotWith(ctx context.Context, runner sq.BaseRunner, accountID string, currency models.Currency, asOf time.Time) (*models.LedgerSnapshot, error) {
	available, err := l.availableBalance(ctx, runner, accountID, currency)
	if err != nil {
		return nil, err
	}
	withdrawnToday, err := l.dailyWithdrawn(ctx, runner, accountID, currency, asOf)
	if err != nil {
		return nil, err
	}

	return &models.LedgerSnapshot{
		AccountID:      accountID,
		Currency:       currency,
		Available:      available,
		WithdrawnToday: withdrawnToday,
		AsOf:           asOf,
	}, nil
}

func (l *ledgerService) availableBalance(ctx context.Context, runner sq.BaseRunner, accountID string, currency models.Currency) (float64, error) {
	var deposited float64
	err := sq.
		Select("COALESCE(SUM(amount), 0)").
		From("deposits").
		Where(sq.Eq{"account_id": accountID, "currency": currency, "status": models.Confirmed_DepositStatus}).
		RunWith(runner).
		QueryRowContext(ctx).
		Scan(&deposited)
	if err != nil {
		return 0, errors.HandleDataDBError(err)
	}

	var withdrawn float64
	err = sq.
		Select("COALESCE(SUM(amount), 0)").
		From("withdrawals").
		Where(sq.Eq{"account_id": accountID, "currency": currency, "status": models.Completed_WithdrawalStatus}).
		RunWith(runner).
		QueryRowContext(ctx).
		Scan(&withdrawn)
	if err != nil {
		return 0, errors.HandleDataDBError(err)
	}

	return deposited - withdrawn, nil
}

func (l *ledgerService) dailyWithdrawn(ctx context.Context, runner sq.BaseRunner, accountID string, currency models.Currency, asOf time.Time) (float64, error) {
	var total float64
	err := sq.
		Select("COALESCE(SUM(amount), 0)").
		From("withdrawals").
		Where(sq.Eq{"account_id": accountID, "currency": currency, "status": models.AcceptedWithdrawalStatuses}).
		Where(sq.GtOrEq{"created_at": models.DayStart(asOf)}).
		Where(sq.LtOrEq{"created_at": asOf.UTC()}).
		RunWith(runner).
		QueryRowContext(ctx).
		Scan(&total)
	if err != nil {
		return 0, errors.HandleDataDBError(err)
	}

	return total, nil
}
