package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/services"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/utils"
)

type DepositHandler interface {
	RecordDeposit(w http.ResponseWriter, r *http.Request)
	ConfirmDeposit(w http.ResponseWriter, r *http.Request)
	FetchDeposits(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewDepositHandler(depositService services.DepositService, middlewares MiddleWareHandler, log *zap.Logger) DepositHandler {
	return &depositHandler{
		handler: handler{depositService: depositService, middlewares: middlewares, log: log},
	}
}

type depositHandler struct {
	handler
}

func (h *depositHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/users/{user_id}/deposits", h.middlewares.ValidateAccessToken(h.FetchDeposits))

	mux.HandleFunc("POST /api/v1/admin/users/{user_id}/deposits", h.middlewares.ValidateAdminAccessToken(h.RecordDeposit))
	mux.HandleFunc("POST /api/v1/admin/deposits/{deposit_id}/confirm", h.middlewares.ValidateAdminAccessToken(h.ConfirmDeposit))
}

func (h *depositHandler) RecordDeposit(w http.ResponseWriter, r *http.Request) {
	req := new(requests.RecordDepositRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.depositService.RecordDeposit(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (h *depositHandler) ConfirmDeposit(w http.ResponseWriter, r *http.Request) {
	req := &requests.ConfirmDepositRequest{DepositID: r.PathValue("deposit_id")}

	res, err := h.depositService.ConfirmDeposit(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *depositHandler) FetchDeposits(w http.ResponseWriter, r *http.Request) {
	req := new(requests.FetchDepositsRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.depositService.FetchDeposits(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
