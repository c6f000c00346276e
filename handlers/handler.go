package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/services"
)

type handler struct {
	accountService    services.AccountService
	walletService     services.WalletService
	depositService    services.DepositService
	withdrawalService services.WithdrawalService
	middlewares       MiddleWareHandler

	log *zap.Logger
}

type Handler interface {
	ServeHttp(*http.ServeMux)
}
