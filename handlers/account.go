package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/services"
	"github.com/moonrake/cashier-go/types/requests"
	"github.com/moonrake/cashier-go/utils"
)

type AccountHandler interface {
	CreateAccount(w http.ResponseWriter, r *http.Request)
	FetchAccountDetails(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewAccountHandler(accountService services.AccountService, middlewares MiddleWareHandler, log *zap.Logger) AccountHandler {
	return &accountHandler{
		handler: handler{accountService: accountService, middlewares: middlewares, log: log},
	}
}

type accountHandler struct {
	handler
}

func (a *accountHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/accounts", a.CreateAccount)

	mux.HandleFunc("GET /api/v1/users/{user_id}", a.middlewares.ValidateAccessToken(a.FetchAccountDetails))
}

func (a *accountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req := new(requests.CreateAccountRequest)
	err := utils.Bind(r, req)
	if err != nil {
		errors.HandleBindError(err).Serialize(w)
		return
	}

	res, err := a.accountService.CreateAccount(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (a *accountHandler) FetchAccountDetails(w http.ResponseWriter, r *http.Request) {
	req := &requests.FetchAccountDetailsRequest{UserID: r.PathValue("user_id")}

	res, err := a.accountService.FetchAccountDetails(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
