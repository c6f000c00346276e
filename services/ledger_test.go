package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/models"
)

type fakeResult struct{ rows int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

type fakeRow struct {
	scan func(dest ...any) error
}

func (r *fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeDeposit struct {
	status models.DepositStatus
	amount float64
}

type fakeWithdrawal struct {
	status    models.WithdrawalStatus
	amount    float64
	createdAt time.Time
}

// fakeLedgerRunner answers the ledger's aggregate queries from in-memory
// entries, applying the status and time-window filters the query arguments
// carry. It lets the summation semantics be exercised without a database.
type fakeLedgerRunner struct {
	deposits    []fakeDeposit
	withdrawals []fakeWithdrawal
}

func (f *fakeLedgerRunner) Exec(string, ...interface{}) (sql.Result, error) {
	panic("unreachable")
}

func (f *fakeLedgerRunner) Query(string, ...interface{}) (*sql.Rows, error) {
	panic("unreachable")
}

func (f *fakeLedgerRunner) QueryRowContext(_ context.Context, query string, args ...interface{}) sq.RowScanner {
	// squirrel converts driver.Valuer args at SQL-build time, so status
	// filters arrive as their string form rather than the typed constants
	var statuses []string
	var bounds []time.Time
	for _, arg := range args {
		switch v := arg.(type) {
		case models.DepositStatus:
			statuses = append(statuses, v.String())
		case models.WithdrawalStatus:
			statuses = append(statuses, v.String())
		case string:
			statuses = append(statuses, v)
		case time.Time:
			bounds = append(bounds, v)
		}
	}

	var total float64
	switch {
	case strings.Contains(query, "FROM deposits"):
		for _, d := range f.deposits {
			for _, status := range statuses {
				if d.status.String() == status {
					total += d.amount
				}
			}
		}
	default:
		for _, w := range f.withdrawals {
			if len(bounds) == 2 && (w.createdAt.Before(bounds[0]) || w.createdAt.After(bounds[1])) {
				continue
			}
			for _, status := range statuses {
				if w.status.String() == status {
					total += w.amount
				}
			}
		}
	}

	return &fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*float64)) = total
		return nil
	}}
}

func TestSnapshotCountsOnlySettledEntries(t *testing.T) {
	asOf := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	today := asOf.Add(-time.Hour)
	yesterday := asOf.Add(-24 * time.Hour)

	runner := &fakeLedgerRunner{
		deposits: []fakeDeposit{
			{models.Confirmed_DepositStatus, 1},
			{models.Confirmed_DepositStatus, 0.5},
			{models.Pending_DepositStatus, 5},
			{models.Failed_DepositStatus, 2},
		},
		withdrawals: []fakeWithdrawal{
			{models.Completed_WithdrawalStatus, 0.75, today},
			{models.Pending_WithdrawalStatus, 0.25, today},
			{models.Failed_WithdrawalStatus, 0.5, today},
			{models.Rejected_WithdrawalStatus, 0.125, today},
			{models.Approved_WithdrawalStatus, 0.25, yesterday},
		},
	}

	svc := NewLedgerService(nil, zap.NewNop())
	snapshot, err := svc.SnapshotWith(context.Background(), runner, "acct-1", models.BTC, asOf)
	if err != nil {
		t.Fatalf("taking snapshot: %v", err)
	}

	// only confirmed deposits (1.5) minus completed withdrawals (0.75) spend
	if snapshot.Available != 0.75 {
		t.Errorf("available: got %v, want 0.75", snapshot.Available)
	}

	// reserving states inside today's window: completed 0.75 + pending 0.25;
	// failed and rejected never reserve, yesterday's approved is out of window
	if snapshot.WithdrawnToday != 1 {
		t.Errorf("withdrawn today: got %v, want 1", snapshot.WithdrawnToday)
	}
}

func TestSnapshotEmptyLedgerIsZero(t *testing.T) {
	svc := NewLedgerService(nil, zap.NewNop())
	snapshot, err := svc.SnapshotWith(context.Background(), &fakeLedgerRunner{}, "acct-1", models.BTC, time.Now().UTC())
	if err != nil {
		t.Fatalf("taking snapshot: %v", err)
	}
	if snapshot.Available != 0 || snapshot.WithdrawnToday != 0 {
		t.Fatalf("empty ledger snapshot not zero: %+v", snapshot)
	}
}
