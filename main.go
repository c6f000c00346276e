package main

import (
	"net/http"

	"github.com/madflojo/tasks"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/chain"
	"github.com/moonrake/cashier-go/db"
	"github.com/moonrake/cashier-go/handlers"
	"github.com/moonrake/cashier-go/services"
)

func main() {
	fx.New(
		fx.Provide(
			NewConfig,
			NewHttpServer,
			fx.Annotate(
				NewServeMux,
				fx.ParamTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewAccountHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewWalletHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewDepositHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewWithdrawalHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			handlers.NewMiddlewareHandler,
			fx.Annotate(
				chain.NewBTCBroadcaster,
				fx.As(new(chain.Broadcaster)),
				fx.ResultTags(`group:"broadcasters"`),
			),
			fx.Annotate(
				chain.NewETHBroadcaster,
				fx.As(new(chain.Broadcaster)),
				fx.ResultTags(`group:"broadcasters"`),
			),
			fx.Annotate(
				chain.NewBroadcasterSet,
				fx.ParamTags(`group:"broadcasters"`),
			),
			chain.NewAddressCodec,
			services.NewWithdrawalService,
			services.NewWithdrawalPolicy,
			services.NewWalletService,
			services.NewDepositService,
			services.NewLedgerService,
			services.NewWebhookService,
			services.NewSchedulerService,
			services.NewAccountService,
			db.NewDataDBConnection,
			tasks.New,
			zap.NewProduction,
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}
