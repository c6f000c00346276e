package services

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/types/responses"
)

type AccountService interface {
	CreateAccount(context.Context, *requests.CreateAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error)
	FetchAccountDetails(context.Context, *requests.FetchAccountDetailsRequest) (*responses.Response[*models.Account], error)
	LookupAccounts(ctx context.Context, ids []string) (map[string]*models.Account, error)
	GetAccountByAccessToken(context.Context, string) (*models.Account, error)
}

func NewAccountService(dataDatabase *sql.DB, log *zap.Logger) AccountService {
	return &accountService{
		service{
			dataDB: dataDatabase,
			log:    log,
		},
	}
}

type accountService struct {
	service
}

var accountColumns = []string{
	"id", "sn", "display_name", "email", "first_name", "last_name",
	"is_admin", "callback_url", "webhook_key", "created_at", "updated_at",
}

func (a *accountService) CreateAccount(ctx context.Context, req *requests.CreateAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error) {
	now := time.Now()

	account := &models.Account{
		ID:          uuid.NewString(),
		SN:          cuid.New(),
		DisplayName: req.DisplayName,
		Email:       cases.Lower(language.English).String(req.Email),
		FirstName:   cases.Title(language.English).String(req.FirstName),
		LastName:    cases.Title(language.English).String(req.LastName),
		CallbackURL: req.CallbackURL,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	password, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := a.dataDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	// * create user account
	_, err = sq.
		Insert("accounts").
		Columns("id", "sn", "display_name", "email", "first_name", "last_name", "is_admin", "callback_url", "webhook_key", "created_at", "updated_at").
		Values(account.ID, account.SN, account.DisplayName, account.Email, account.FirstName, account.LastName, false, account.CallbackURL, "whk_"+cuid.Slug(), now, now).
		RunWith(tx).
		ExecContext(ctx)

	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	credentials := &models.Credentials{
		ID:       account.ID,
		Password: string(password),
	}

	_, err = sq.
		Insert("credentials").
		Columns("id", "password").
		Values(credentials.ID, credentials.Password).
		RunWith(tx).
		ExecContext(ctx)

	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	accessToken := &models.AccessToken{
		ID:          uuid.NewString(),
		Name:        "Default Token",
		Description: "default token for user requests",
		AccountID:   account.ID,
		Token:       "pub_" + cuid.Slug(),
	}

	// * create user access token to authenticate requests
	_, err = sq.
		Insert("access_tokens").
		Columns("id", "name", "description", "account_id", "token").
		Values(accessToken.ID, accessToken.Name, accessToken.Description, accessToken.AccountID, accessToken.Token).
		RunWith(tx).
		ExecContext(ctx)

	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return &responses.Response[*responses.CreateAccountResponseData]{
		Status: "successful",
		Data: &responses.CreateAccountResponseData{
			Account:     account,
			AccessToken: accessToken.Token,
		},
	}, nil
}

func (a *accountService) FetchAccountDetails(ctx context.Context, req *requests.FetchAccountDetailsRequest) (*responses.Response[*models.Account], error) {
	userID := req.UserID
	// Scope to the authenticated account: a token only acts on its own user
	// unless it carries the admin flag. Internal calls made without a ctx
	// user (the dispatch scheduler) are already trusted.
	if caller, ok := ctx.Value("user").(*models.Account); ok {
		if userID == "me" {
			userID = caller.ID
		}
		if !caller.IsAdmin && userID != caller.ID {
			return nil, errors.NewPermissionError("access to this user is not permitted")
		}
	}

	row := sq.
		Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"id": userID}).
		Limit(1).
		RunWith(a.dataDB).
		QueryRowContext(ctx)

	account, err := scanAccount(row)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return &responses.Response[*models.Account]{
		Status: "successful",
		Data:   account,
	}, nil
}

func (a *accountService) LookupAccounts(ctx context.Context, ids []string) (map[string]*models.Account, error) {
	accounts := make(map[string]*models.Account, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	rows, err := sq.
		Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"id": ids}).
		RunWith(a.dataDB).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		accounts[account.ID] = account
	}

	return accounts, nil
}

func (a *accountService) GetAccountByAccessToken(ctx context.Context, token string) (*models.Account, error) {
	row := sq.
		Select(
			"accounts.id", "accounts.sn", "accounts.display_name", "accounts.email",
			"accounts.first_name", "accounts.last_name", "accounts.is_admin",
			"accounts.callback_url", "accounts.webhook_key", "accounts.created_at", "accounts.updated_at",
		).
		From("access_tokens").
		Join("accounts on access_tokens.account_id = accounts.id").
		Where(sq.Eq{"token": token}).
		RunWith(a.dataDB).
		QueryRowContext(ctx)

	account, err := scanAccount(row)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return account, nil
}

func scanAccount(row sq.RowScanner) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.SN, &account.DisplayName, &account.Email,
		&account.FirstName, &account.LastName, &account.IsAdmin,
		&account.CallbackURL, &account.WebhookKey, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
