package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/services"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/utils"
)

type WalletHandler interface {
	FetchUserWallet(w http.ResponseWriter, r *http.Request)
	FetchDepositAddress(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewWalletHandler(walletService services.WalletService, middlewares MiddleWareHandler, log *zap.Logger) WalletHandler {
	return &walletHandler{
		handler: handler{walletService: walletService, middlewares: middlewares, log: log},
	}
}

type walletHandler struct {
	handler
}

func (h *walletHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/users/{user_id}/wallets/{currency}", h.middlewares.ValidateAccessToken(h.FetchUserWallet))
	mux.HandleFunc("GET /api/v1/users/{user_id}/wallets/{currency}/address", h.middlewares.ValidateAccessToken(h.FetchDepositAddress))
}

func (h *walletHandler) FetchUserWallet(w http.ResponseWriter, r *http.Request) {
	req := new(requests.FetchUserWalletRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.walletService.FetchUserWallet(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *walletHandler) FetchDepositAddress(w http.ResponseWriter, r *http.Request) {
	req := new(requests.FetchDepositAddressRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.walletService.FetchDepositAddress(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
