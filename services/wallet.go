package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/chain"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/types/responses"
)

type WalletService interface {
	FetchUserWallet(ctx context.Context, req *requests.FetchUserWalletRequest) (*responses.Response[*responses.UserWalletResponseData], error)
	FetchDepositAddress(ctx context.Context, req *requests.FetchDepositAddressRequest) (*responses.Response[*responses.DepositAddressResponseData], error)
}

func NewWalletService(accountService AccountService, ledgerService LedgerService, codec *chain.AddressCodec, log *zap.Logger) WalletService {
	return &walletService{
		service: service{
			accountService: accountService,
			ledgerService:  ledgerService,
			log:            log,
		},
		codec: codec,
	}
}

type walletService struct {
	service
	codec *chain.AddressCodec
}

func (w *walletService) FetchUserWallet(ctx context.Context, req *requests.FetchUserWalletRequest) (*responses.Response[*responses.UserWalletResponseData], error) {
	user, err := w.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	snapshot, err := w.ledgerService.Snapshot(ctx, user.Data.ID, req.Currency, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	address, err := w.codec.DeriveAddress(user.Data.ID, req.Currency, 0)
	if err != nil {
		return nil, err
	}

	return &responses.Response[*responses.UserWalletResponseData]{
		Status: "successful",
		Data: &responses.UserWalletResponseData{
			Currency:       req.Currency,
			Name:           CurrencyNames[string(req.Currency)],
			Balance:        snapshot.Available,
			WithdrawnToday: snapshot.WithdrawnToday,
			DepositAddress: address,
			User:           user.Data,
		},
	}, nil
}

func (w *walletService) FetchDepositAddress(ctx context.Context, req *requests.FetchDepositAddressRequest) (*responses.Response[*responses.DepositAddressResponseData], error) {
	user, err := w.accountService.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
	if err != nil {
		return nil, err
	}

	address, err := w.codec.DeriveAddress(user.Data.ID, req.Currency, req.Index)
	if err != nil {
		return nil, err
	}

	return &responses.Response[*responses.DepositAddressResponseData]{
		Status: "successful",
		Data: &responses.DepositAddressResponseData{
			Currency: req.Currency,
			Address:  address,
			Index:    req.Index,
		},
	}, nil
}
