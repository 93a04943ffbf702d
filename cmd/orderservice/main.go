package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/service"
	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/infrastructure/event"
	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/infrastructure/mysql"
	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/transport"
)

const appID = "orderservice"

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	app := &cli.App{
		Name:  appID,
		Usage: "order placement service",
		Action: func(c *cli.Context) error {
			return runService(c.Context, log)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runService(ctx context.Context, log *logrus.Logger) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	db, err := mysql.NewClient(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := mysql.Migrate(db); err != nil {
		return err
	}

	customers := mysql.NewCustomerRepository(db)
	products := mysql.NewProductRepository(db)
	orders := mysql.NewOrderRepository(db)
	trans := mysql.NewTransactionalClient(db)
	dispatcher := event.NewLogDispatcher(log)

	customerService := service.NewCustomerService(customers, dispatcher)
	productService := service.NewProductService(products, dispatcher)
	orderService := service.NewOrderService(customers, products, orders, trans, dispatcher)

	srv := &http.Server{
		Addr:    cfg.ServeRESTAddress,
		Handler: transport.Router(customerService, productService, orderService),
	}

	serveErrs := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.ServeRESTAddress).Info("listening for http requests")
		serveErrs <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErrs:
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	case <-ctx.Done():
		log.Info("shutting down")
	}

	if err := srv.Shutdown(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
