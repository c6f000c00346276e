package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/chain"
	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/types/responses"
	"github.com/moonrake/cashier-go/utils"
)

type WithdrawalService interface {
	CreateWithdrawal(ctx context.Context, req *requests.CreateWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error)
	FetchWithdrawal(ctx context.Context, req *requests.FetchWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error)
	FetchWithdrawals(ctx context.Context, req *requests.FetchWithdrawalsRequest) (*responses.Response[[]*responses.WithdrawalResponseData], error)

	FetchPendingWithdrawals(ctx context.Context, req *requests.FetchPendingWithdrawalsRequest) (*responses.Response[[]*responses.WithdrawalResponseData], error)
	ApproveWithdrawal(ctx context.Context, req *requests.ApproveWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error)
	RejectWithdrawal(ctx context.Context, req *requests.RejectWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error)
	DispatchWithdrawal(ctx context.Context, req *requests.DispatchWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error)
	ConfirmWithdrawal(ctx context.Context, req *requests.ConfirmWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error)
}

func NewWithdrawalService(
	dataDatabase *sql.DB,
	cfg *config.Config,
	accountService AccountService,
	ledgerService LedgerService,
	policy *WithdrawalPolicy,
	webhookService WebhookService,
	schedulerService SchedulerService,
	broadcasters chain.Broadcasters,
	log *zap.Logger,
) WithdrawalService {
	return &withdrawalService{
		service: service{
			dataDB:         dataDatabase,
			cfg:            cfg,
			accountService: accountService,
			ledgerService:  ledgerService,
			webhookService: webhookService,
			log:            log,
		},
		policy:       policy,
		scheduler:    schedulerService,
		broadcasters: broadcasters,
	}
}

type withdrawalService struct {
	service
	policy       *WithdrawalPolicy
	scheduler    SchedulerService
	broadcasters chain.Broadcasters
}

var withdrawalColumns = []string{
	"id", "account_id", "currency", "amount", "destination_address",
	"status", "tx_id", "admin_notes", "created_at", "processed_at",
}

func (s *withdrawalService) CreateWithdrawal(ctx context.Context, req *requests.CreateWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error) {
	user, err := s.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}
	amount := utils.ApproximateAmount(req.Currency, float64(req.Amount))

	tx, err := s.dataDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	// Serialize creations per (account, currency): competing requests queue
	// on this row until the insert below commits, so the snapshot taken here
	// cannot go stale between validation and insert.
	_, err = sq.
		Insert("balance_locks").
		Columns("account_id", "currency").
		Values(user.Data.ID, req.Currency).
		Suffix("ON DUPLICATE KEY UPDATE account_id = account_id").
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	var locked string
	err = sq.
		Select("account_id").
		From("balance_locks").
		Where(sq.Eq{"account_id": user.Data.ID, "currency": req.Currency}).
		Suffix("FOR UPDATE").
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&locked)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	now := time.Now().UTC()
	snapshot, err := s.ledgerService.SnapshotWith(ctx, tx, user.Data.ID, req.Currency, now)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Evaluate(snapshot, req.Currency, amount, req.DestinationAddress); err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		ID:                 uuid.NewString(),
		AccountID:          user.Data.ID,
		Currency:           req.Currency,
		Amount:             amount,
		DestinationAddress: req.DestinationAddress,
		Status:             models.Pending_WithdrawalStatus,
		CreatedAt:          now,
	}

	_, err = sq.
		Insert("withdrawals").
		Columns("id", "account_id", "currency", "amount", "destination_address", "status", "admin_notes", "created_at").
		Values(
			withdrawal.ID, withdrawal.AccountID, withdrawal.Currency, withdrawal.Amount,
			withdrawal.DestinationAddress, withdrawal.Status, withdrawal.AdminNotes, withdrawal.CreatedAt,
		).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	data := withdrawalResponse(withdrawal, user.Data)
	go s.webhookService.NotifyAdminsOfWithdrawal(data)

	return &responses.Response[*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (s *withdrawalService) ApproveWithdrawal(ctx context.Context, req *requests.ApproveWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error) {
	admin := ctx.Value("user").(*models.Account)
	note := fmt.Sprintf("approved by admin %s", admin.ID)
	if req.Note != "" {
		note += ": " + req.Note
	}

	if err := s.transition(
		ctx, s.dataDB, req.WithdrawalID,
		models.Pending_WithdrawalStatus, models.Approved_WithdrawalStatus,
		note, nil, nil,
	); err != nil {
		return nil, err
	}

	withdrawal, user, err := s.fetchRecord(ctx, req.WithdrawalID)
	if err != nil {
		return nil, err
	}
	data := withdrawalResponse(withdrawal, user)

	if s.cfg.Cashier.AutoDispatch {
		id := withdrawal.ID
		s.scheduler.ScheduleDispatch(id, func(taskCtx context.Context) error {
			_, err := s.DispatchWithdrawal(taskCtx, &requests.DispatchWithdrawalRequest{WithdrawalID: id})
			return err
		})
	}
	go s.webhookService.SendWithdrawalApprovedEvent(user, data)

	return &responses.Response[*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (s *withdrawalService) RejectWithdrawal(ctx context.Context, req *requests.RejectWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error) {
	admin := ctx.Value("user").(*models.Account)
	note := fmt.Sprintf("rejected by admin %s: %s", admin.ID, req.Reason)

	if err := s.transition(
		ctx, s.dataDB, req.WithdrawalID,
		models.Pending_WithdrawalStatus, models.Rejected_WithdrawalStatus,
		note, nil, nil,
	); err != nil {
		return nil, err
	}

	withdrawal, user, err := s.fetchRecord(ctx, req.WithdrawalID)
	if err != nil {
		return nil, err
	}
	data := withdrawalResponse(withdrawal, user)
	go s.webhookService.SendWithdrawalRejectedEvent(user, data)

	return &responses.Response[*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (s *withdrawalService) DispatchWithdrawal(ctx context.Context, req *requests.DispatchWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error) {
	tx, err := s.dataDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the row for the duration of the broadcast so a concurrent
	// dispatcher queues here and then fails the status guard instead of
	// broadcasting the same payout twice. The broadcast timeout bounds how
	// long the lock is held.
	row := sq.
		Select(withdrawalColumns...).
		From("withdrawals").
		Where(sq.Eq{"id": req.WithdrawalID}).
		Suffix("FOR UPDATE").
		RunWith(tx).
		QueryRowContext(ctx)
	withdrawal, err := scanWithdrawal(row)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	if withdrawal.Status != models.Approved_WithdrawalStatus {
		return nil, errors.NewConflictError(fmt.Sprintf(
			"cannot dispatch withdrawal in %s state", withdrawal.Status,
		))
	}

	broadcaster, ok := s.broadcasters[withdrawal.Currency]
	if !ok {
		return nil, errors.NewFailedDependencyError(fmt.Sprintf("no broadcaster configured for %s", withdrawal.Currency))
	}

	broadcastCtx, cancel := context.WithTimeout(ctx, s.cfg.Cashier.BroadcastTimeout)
	defer cancel()
	txID, broadcastErr := broadcaster.Broadcast(broadcastCtx, withdrawal)

	now := time.Now().UTC()
	if broadcastErr != nil {
		// A timed-out broadcast may still have landed on-chain, so the
		// record is parked in failed for manual review; it is never
		// redispatched automatically.
		note := fmt.Sprintf("broadcast failed: %s", broadcastErr)
		if err := s.transition(
			ctx, tx, withdrawal.ID,
			models.Approved_WithdrawalStatus, models.Failed_WithdrawalStatus,
			note, nil, &now,
		); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, errors.HandleDataDBError(err)
		}

		s.log.Error("withdrawal broadcast failed",
			zap.String("withdrawal_id", withdrawal.ID),
			zap.Error(broadcastErr),
		)
		if _, user, err := s.fetchRecord(ctx, withdrawal.ID); err == nil {
			withdrawal.Status = models.Failed_WithdrawalStatus
			withdrawal.ProcessedAt = &now
			go s.webhookService.SendWithdrawalFailedEvent(user, withdrawalResponse(withdrawal, user))
		}
		return nil, errors.NewFailedDependencyError(broadcastErr.Error())
	}

	if err := s.transition(
		ctx, tx, withdrawal.ID,
		models.Approved_WithdrawalStatus, models.Processing_WithdrawalStatus,
		"", &txID, &now,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	record, user, err := s.fetchRecord(ctx, withdrawal.ID)
	if err != nil {
		return nil, err
	}
	return &responses.Response[*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   withdrawalResponse(record, user),
	}, nil
}

func (s *withdrawalService) ConfirmWithdrawal(ctx context.Context, req *requests.ConfirmWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error) {
	note := "confirmation observed"
	if req.Confirmations > 0 {
		note = fmt.Sprintf("confirmation observed after %d confirmations", req.Confirmations)
	}

	if err := s.transition(
		ctx, s.dataDB, req.WithdrawalID,
		models.Processing_WithdrawalStatus, models.Completed_WithdrawalStatus,
		note, nil, nil,
	); err != nil {
		return nil, err
	}

	withdrawal, user, err := s.fetchRecord(ctx, req.WithdrawalID)
	if err != nil {
		return nil, err
	}
	data := withdrawalResponse(withdrawal, user)
	go s.webhookService.SendWithdrawalCompletedEvent(user, data)

	return &responses.Response[*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (s *withdrawalService) FetchWithdrawal(ctx context.Context, req *requests.FetchWithdrawalRequest) (*responses.Response[*responses.WithdrawalResponseData], error) {
	user, err := s.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	row := sq.
		Select(withdrawalColumns...).
		From("withdrawals").
		Where(sq.Eq{"id": req.WithdrawalID, "account_id": user.Data.ID}).
		RunWith(s.dataDB).
		QueryRowContext(ctx)
	withdrawal, err := scanWithdrawal(row)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return &responses.Response[*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   withdrawalResponse(withdrawal, user.Data),
	}, nil
}

func (s *withdrawalService) FetchWithdrawals(ctx context.Context, req *requests.FetchWithdrawalsRequest) (*responses.Response[[]*responses.WithdrawalResponseData], error) {
	user, err := s.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	stmt := sq.
		Select(withdrawalColumns...).
		From("withdrawals").
		Where(sq.Eq{"account_id": user.Data.ID}).
		OrderBy("created_at DESC")
	if req.Currency != nil {
		stmt = stmt.Where(sq.Eq{"currency": *req.Currency})
	}
	if req.State != nil {
		stmt = stmt.Where(sq.Eq{"status": *req.State})
	}

	rows, err := stmt.RunWith(s.dataDB).QueryContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	defer rows.Close()

	data := make([]*responses.WithdrawalResponseData, 0)
	for rows.Next() {
		withdrawal, err := scanWithdrawal(rows)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		data = append(data, withdrawalResponse(withdrawal, user.Data))
	}

	return &responses.Response[[]*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (s *withdrawalService) FetchPendingWithdrawals(ctx context.Context, req *requests.FetchPendingWithdrawalsRequest) (*responses.Response[[]*responses.WithdrawalResponseData], error) {
	rows, err := sq.
		Select(withdrawalColumns...).
		From("withdrawals").
		Where(sq.Eq{"status": models.Pending_WithdrawalStatus}).
		OrderBy("created_at ASC").
		Limit(req.Limit).
		RunWith(s.dataDB).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	defer rows.Close()

	withdrawals := make([]*models.Withdrawal, 0)
	accountIds := make([]string, 0)
	for rows.Next() {
		withdrawal, err := scanWithdrawal(rows)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		withdrawals = append(withdrawals, withdrawal)
		accountIds = append(accountIds, withdrawal.AccountID)
	}

	accounts, err := s.accountService.LookupAccounts(ctx, accountIds)
	if err != nil {
		return nil, err
	}

	data := make([]*responses.WithdrawalResponseData, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		data = append(data, withdrawalResponse(withdrawal, accounts[withdrawal.AccountID]))
	}

	return &responses.Response[[]*responses.WithdrawalResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

// transition applies a guarded state change: the update only lands when the
// record is still in the expected state, which is what makes concurrent
// admin actions safe. The note is appended to the audit trail, never
// overwriting it.
func (s *withdrawalService) transition(
	ctx context.Context,
	runner sq.BaseRunner,
	withdrawalID string,
	from, to models.WithdrawalStatus,
	note string,
	txID *string,
	processedAt *time.Time,
) error {
	if !from.CanTransition(to) {
		return errors.NewConflictError(fmt.Sprintf("no transition from %s to %s", from, to))
	}

	stmt := sq.
		Update("withdrawals").
		Set("status", to).
		Where(sq.Eq{"id": withdrawalID, "status": from})
	if note != "" {
		stmt = stmt.Set("admin_notes", sq.Expr("CONCAT(admin_notes, ?)", note+"\n"))
	}
	if txID != nil {
		stmt = stmt.Set("tx_id", *txID)
	}
	if processedAt != nil {
		stmt = stmt.Set("processed_at", *processedAt)
	}

	res, err := stmt.RunWith(runner).ExecContext(ctx)
	if err != nil {
		return errors.HandleDataDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.HandleDataDBError(err)
	}
	if affected == 0 {
		return s.transitionConflict(ctx, runner, withdrawalID, to)
	}
	return nil
}

// transitionConflict distinguishes a missing record from one that has
// already moved on, so double-processing surfaces as a conflict the caller
// can detect.
func (s *withdrawalService) transitionConflict(ctx context.Context, runner sq.BaseRunner, withdrawalID string, to models.WithdrawalStatus) error {
	row := sq.
		Select(withdrawalColumns...).
		From("withdrawals").
		Where(sq.Eq{"id": withdrawalID}).
		RunWith(runner).
		QueryRowContext(ctx)
	withdrawal, err := scanWithdrawal(row)
	if err != nil {
		return errors.HandleDataDBError(err)
	}
	return errors.NewConflictError(fmt.Sprintf(
		"cannot transition withdrawal from %s to %s", withdrawal.Status, to,
	))
}

func (s *withdrawalService) fetchRecord(ctx context.Context, withdrawalID string) (*models.Withdrawal, *models.Account, error) {
	row := sq.
		Select(withdrawalColumns...).
		From("withdrawals").
		Where(sq.Eq{"id": withdrawalID}).
		RunWith(s.dataDB).
		QueryRowContext(ctx)
	withdrawal, err := scanWithdrawal(row)
	if err != nil {
		return nil, nil, errors.HandleDataDBError(err)
	}

	user, err := s.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: withdrawal.AccountID})
	if err != nil {
		return nil, nil, err
	}
	return withdrawal, user.Data, nil
}

func scanWithdrawal(row sq.RowScanner) (*models.Withdrawal, error) {
	withdrawal := &models.Withdrawal{}
	err := row.Scan(
		&withdrawal.ID, &withdrawal.AccountID, &withdrawal.Currency, &withdrawal.Amount,
		&withdrawal.DestinationAddress, &withdrawal.Status, &withdrawal.TxID,
		&withdrawal.AdminNotes, &withdrawal.CreatedAt, &withdrawal.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

func withdrawalResponse(withdrawal *models.Withdrawal, user *models.Account) *responses.WithdrawalResponseData {
	return &responses.WithdrawalResponseData{
		ID:                 withdrawal.ID,
		Currency:           withdrawal.Currency,
		Amount:             withdrawal.Amount,
		DestinationAddress: withdrawal.DestinationAddress,
		Status:             withdrawal.Status,
		TxID:               withdrawal.TxID,
		AdminNotes:         withdrawal.AdminNotes,
		CreatedAt:          withdrawal.CreatedAt,
		ProcessedAt:        withdrawal.ProcessedAt,
		User:               user,
	}
}
