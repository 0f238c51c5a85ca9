package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkrupp/expensetracker/internal/infra/cache"
	"github.com/mkrupp/expensetracker/internal/infra/config"
	"github.com/mkrupp/expensetracker/internal/infra/database"
	"github.com/mkrupp/expensetracker/internal/infra/logging"
	http_ "github.com/mkrupp/expensetracker/internal/infra/transport/http"
	"github.com/mkrupp/expensetracker/internal/svc/authsvc"
)

const loggerName = "expensetracker.expensesvc"

type Config struct {
	Log     logging.LoggerConfig      `yaml:"log" env-prefix:"EXPENSES_LOG_"`
	HTTP    http_.HTTPTransportConfig `yaml:"http" env-prefix:"EXPENSES_HTTP_"`
	Storage database.StorageConfig    `yaml:"storage" env-prefix:"EXPENSES_"`
	Auth    authsvc.AuthConfig        `yaml:"auth" env-prefix:"EXPENSES_AUTH_"`
	Cache   cache.CacheConfig         `yaml:"cache" env-prefix:"EXPENSES_CACHE_"`
}

func main() {
	var (
		cfg        Config
		configPath = flag.String("config", "", "optional YAML config file; environment variables take precedence")
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), config.Usage(&cfg))
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Load(&cfg, *configPath); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	if err := run(ctx, cfg); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.expensesvc")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
		} else {
			log.InfoContext(ctx, "shutdown")
		}
	}()

	app, err := newApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("new app: %w", err)
	}
	defer app.Close()

	if err := http_.ListenAndServe(ctx, app.Handler, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
