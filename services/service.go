package services

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/config"
)

type service struct {
	dataDB *sql.DB
	cfg    *config.Config

	accountService AccountService
	ledgerService  LedgerService
	webhookService WebhookService

	log *zap.Logger
}

// CurrencyNames maps ledger currencies to their display names.
var CurrencyNames = map[string]string{
	"btc": "Bitcoin",
	"eth": "Ethereum",
}
