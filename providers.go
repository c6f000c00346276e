package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/MadAppGang/httplog"
	lzap "github.com/MadAppGang/httplog/zap"
	gorilla "github.com/gorilla/handlers"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/handlers"
)

func NewConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	return config.Load(path)
}

func NewHttpServer(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux, log *zap.Logger) *http.Server {
	var root http.Handler = mux
	root = httplog.LoggerWithFormatterAndName("cashier", lzap.DefaultZapLogger(log, zapcore.InfoLevel, ""))(root)
	root = gorilla.CORS(
		gorilla.AllowedHeaders([]string{"authorization", "content-type"}),
		gorilla.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(root)
	root = gorilla.RecoveryHandler(gorilla.RecoveryLogger(zap.NewStdLog(log)))(root)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      root,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

func NewServeMux(routers []handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	for _, router := range routers {
		router.ServeHttp(mux)
	}
	return mux
}
