package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/types/responses"
	"github.com/moonrake/cashier-go/utils"
)

type DepositService interface {
	RecordDeposit(ctx context.Context, req *requests.RecordDepositRequest) (*responses.Response[*responses.DepositResponseData], error)
	ConfirmDeposit(ctx context.Context, req *requests.ConfirmDepositRequest) (*responses.Response[*responses.DepositResponseData], error)
	FetchDeposits(ctx context.Context, req *requests.FetchDepositsRequest) (*responses.Response[[]*responses.DepositResponseData], error)
}

func NewDepositService(
	dataDatabase *sql.DB,
	cfg *config.Config,
	accountService AccountService,
	webhookService WebhookService,
	log *zap.Logger,
) DepositService {
	return &depositService{
		service: service{
			dataDB:         dataDatabase,
			cfg:            cfg,
			accountService: accountService,
			webhookService: webhookService,
			log:            log,
		},
	}
}

type depositService struct {
	service
}

var depositColumns = []string{
	"id", "account_id", "currency", "amount", "tx_id", "status", "created_at",
}

func (d *depositService) RecordDeposit(ctx context.Context, req *requests.RecordDepositRequest) (*responses.Response[*responses.DepositResponseData], error) {
	user, err := d.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	deposit := &models.Deposit{
		ID:        uuid.NewString(),
		AccountID: user.Data.ID,
		Currency:  req.Currency,
		Amount:    utils.ApproximateAmount(req.Currency, float64(req.Amount)),
		TxID:      req.TxID,
		Status:    models.Pending_DepositStatus,
		CreatedAt: time.Now().UTC(),
	}
	if req.Confirmed {
		deposit.Status = models.Confirmed_DepositStatus
	}

	_, err = sq.
		Insert("deposits").
		Columns(depositColumns...).
		Values(deposit.ID, deposit.AccountID, deposit.Currency, deposit.Amount, deposit.TxID, deposit.Status, deposit.CreatedAt).
		RunWith(d.dataDB).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	data := depositResponse(deposit, user.Data)
	if deposit.Status == models.Confirmed_DepositStatus {
		go d.webhookService.SendDepositConfirmedEvent(user.Data, data)
	}

	return &responses.Response[*responses.DepositResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (d *depositService) ConfirmDeposit(ctx context.Context, req *requests.ConfirmDepositRequest) (*responses.Response[*responses.DepositResponseData], error) {
	// Guarded flip so a double confirmation cannot count funds twice.
	res, err := sq.
		Update("deposits").
		Set("status", models.Confirmed_DepositStatus).
		Where(sq.Eq{"id": req.DepositID, "status": models.Pending_DepositStatus}).
		RunWith(d.dataDB).
		ExecContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	row := sq.
		Select(depositColumns...).
		From("deposits").
		Where(sq.Eq{"id": req.DepositID}).
		RunWith(d.dataDB).
		QueryRowContext(ctx)
	deposit, err := scanDeposit(row)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	if affected == 0 {
		return nil, errors.NewConflictError(fmt.Sprintf("deposit is already %s", deposit.Status))
	}

	user, err := d.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: deposit.AccountID})
	if err != nil {
		return nil, err
	}

	data := depositResponse(deposit, user.Data)
	go d.webhookService.SendDepositConfirmedEvent(user.Data, data)

	return &responses.Response[*responses.DepositResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func (d *depositService) FetchDeposits(ctx context.Context, req *requests.FetchDepositsRequest) (*responses.Response[[]*responses.DepositResponseData], error) {
	user, err := d.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	stmt := sq.
		Select(depositColumns...).
		From("deposits").
		Where(sq.Eq{"account_id": user.Data.ID}).
		OrderBy("created_at DESC")
	if req.Currency != nil {
		stmt = stmt.Where(sq.Eq{"currency": *req.Currency})
	}

	rows, err := stmt.RunWith(d.dataDB).QueryContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	defer rows.Close()

	data := make([]*responses.DepositResponseData, 0)
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		data = append(data, depositResponse(deposit, user.Data))
	}

	return &responses.Response[[]*responses.DepositResponseData]{
		Status: "successful",
		Data:   data,
	}, nil
}

func scanDeposit(row sq.RowScanner) (*models.Deposit, error) {
	deposit := &models.Deposit{}
	err := row.Scan(
		&deposit.ID, &deposit.AccountID, &deposit.Currency, &deposit.Amount,
		&deposit.TxID, &deposit.Status, &deposit.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

func depositResponse(deposit *models.Deposit, user *models.Account) *responses.DepositResponseData {
	return &responses.DepositResponseData{
		ID:        deposit.ID,
		Currency:  deposit.Currency,
		Amount:    deposit.Amount,
		TxID:      deposit.TxID,
		Status:    deposit.Status,
		CreatedAt: deposit.CreatedAt,
		User:      user,
	}
}
