package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/services"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/utils"
)

type WithdrawalHandler interface {
	CreateWithdrawal(w http.ResponseWriter, r *http.Request)
	FetchWithdrawal(w http.ResponseWriter, r *http.Request)
	FetchWithdrawals(w http.ResponseWriter, r *http.Request)

	FetchPendingWithdrawals(w http.ResponseWriter, r *http.Request)
	ApproveWithdrawal(w http.ResponseWriter, r *http.Request)
	RejectWithdrawal(w http.ResponseWriter, r *http.Request)
	DispatchWithdrawal(w http.ResponseWriter, r *http.Request)
	ConfirmWithdrawal(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewWithdrawalHandler(withdrawalService services.WithdrawalService, middlewares MiddleWareHandler, log *zap.Logger) WithdrawalHandler {
	return &withdrawalHandler{
		handler: handler{withdrawalService: withdrawalService, middlewares: middlewares, log: log},
	}
}

type withdrawalHandler struct {
	handler
}

func (h *withdrawalHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/users/{user_id}/withdrawals", h.middlewares.ValidateAccessToken(h.CreateWithdrawal))
	mux.HandleFunc("GET /api/v1/users/{user_id}/withdrawals", h.middlewares.ValidateAccessToken(h.FetchWithdrawals))
	mux.HandleFunc("GET /api/v1/users/{user_id}/withdrawals/{withdrawal_id}", h.middlewares.ValidateAccessToken(h.FetchWithdrawal))

	mux.HandleFunc("GET /api/v1/admin/withdrawals", h.middlewares.ValidateAdminAccessToken(h.FetchPendingWithdrawals))
	mux.HandleFunc("POST /api/v1/admin/withdrawals/{withdrawal_id}/approve", h.middlewares.ValidateAdminAccessToken(h.ApproveWithdrawal))
	mux.HandleFunc("POST /api/v1/admin/withdrawals/{withdrawal_id}/reject", h.middlewares.ValidateAdminAccessToken(h.RejectWithdrawal))
	mux.HandleFunc("POST /api/v1/admin/withdrawals/{withdrawal_id}/dispatch", h.middlewares.ValidateAdminAccessToken(h.DispatchWithdrawal))
	mux.HandleFunc("POST /api/v1/admin/withdrawals/{withdrawal_id}/confirm", h.middlewares.ValidateAdminAccessToken(h.ConfirmWithdrawal))
}

func (h *withdrawalHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	req := new(requests.CreateWithdrawalRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.withdrawalService.CreateWithdrawal(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (h *withdrawalHandler) FetchWithdrawal(w http.ResponseWriter, r *http.Request) {
	req := new(requests.FetchWithdrawalRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.withdrawalService.FetchWithdrawal(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *withdrawalHandler) FetchWithdrawals(w http.ResponseWriter, r *http.Request) {
	req := new(requests.FetchWithdrawalsRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.withdrawalService.FetchWithdrawals(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *withdrawalHandler) FetchPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	req := new(requests.FetchPendingWithdrawalsRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.withdrawalService.FetchPendingWithdrawals(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *withdrawalHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	req := new(requests.ApproveWithdrawalRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.withdrawalService.ApproveWithdrawal(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *withdrawalHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	req := new(requests.RejectWithdrawalRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.withdrawalService.RejectWithdrawal(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *withdrawalHandler) DispatchWithdrawal(w http.ResponseWriter, r *http.Request) {
	req := &requests.DispatchWithdrawalRequest{WithdrawalID: r.PathValue("withdrawal_id")}

	res, err := h.withdrawalService.DispatchWithdrawal(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (h *withdrawalHandler) ConfirmWithdrawal(w http.ResponseWriter, r *http.Request) {
	req := new(requests.ConfirmWithdrawalRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := h.withdrawalService.ConfirmWithdrawal(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
