package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/config"
	"github.com/meridianbank/ledgercore/domain"
	"github.com/meridianbank/ledgercore/driver/postgres"
	extamqp "github.com/meridianbank/ledgercore/extension/amqp"
	extprometheus "github.com/meridianbank/ledgercore/extension/prometheus"
	extzap "github.com/meridianbank/ledgercore/extension/zap"
	"github.com/meridianbank/ledgercore/provider"
	"github.com/meridianbank/ledgercore/service"
)

func newServeCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9102", "listen address for the prometheus metrics endpoint")

	return cmd
}

func serve(ctx context.Context, metricsAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()
	logger := extzap.Wrap(zapLogger)

	registry := ledgercore.NewPayloadRegistry()
	if err := domain.RegisterPayloads(registry); err != nil {
		return err
	}

	metrics := extprometheus.NewMetrics()
	promRegistry := prometheus.NewRegistry()
	if err := metrics.RegisterMetrics(promRegistry); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	store, err := postgres.NewEventStore(db, registry, logger, metrics)
	if err != nil {
		return err
	}

	bus, err := extamqp.NewEventBus(cfg.RabbitMQ.URL, registry, logger, metrics)
	if err != nil {
		return err
	}
	defer bus.Close()

	providers, err := provider.NewSet(cfg.Integrations, logger)
	if err != nil {
		return err
	}

	accounts, err := service.NewAccountService(store, bus, cfg, logger)
	if err != nil {
		return err
	}
	customers, err := service.NewCustomerService(store, bus, providers.KYC, cfg, logger)
	if err != nil {
		return err
	}
	transactions, err := service.NewTransactionService(store, bus, providers.Fraud, cfg, logger)
	if err != nil {
		return err
	}

	if err := subscribeCustodyProvisioner(bus, accounts, providers.Custody, logger); err != nil {
		return err
	}
	if err := subscribeManualReviewAlert(bus, customers, logger); err != nil {
		return err
	}
	if err := subscribeFailedTransactionAlert(bus, transactions, logger); err != nil {
		return err
	}
	if err := subscribeAuditLogger(bus, logger); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("metrics server failed")
		}
	}()

	logger.WithFields(ledgercore.Fields{
		"bank":         cfg.Bank.Name,
		"metrics_addr": metricsAddr,
	}).Info("ledger running")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-signals:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case <-ctx.Done():
	}

	return metricsServer.Shutdown(context.Background())
}

// subscribeCustodyProvisioner creates a custody wallet whenever a
// bitcoin-collateral account requests one. Without a custody provider the
// subscription is skipped.
func subscribeCustodyProvisioner(
	bus ledgercore.EventBus,
	accounts *service.AccountService,
	custody provider.Custody,
	logger ledgercore.Logger,
) error {
	if custody == nil {
		return nil
	}

	return bus.Subscribe(domain.BitcoinWalletRequiredName, func(ctx context.Context, event ledgercore.DomainEvent) error {
		payload, ok := event.Payload.(*domain.BitcoinWalletRequired)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.EventName)
		}

		account, err := accounts.GetAccount(ctx, payload.AccountID)
		if err != nil {
			return err
		}
		if account.Type() != domain.AccountTypeBitcoinCollateral {
			return nil
		}

		wallet, err := custody.CreateWallet(ctx, fmt.Sprintf("collateral-%s", payload.AccountID))
		if err != nil {
			return err
		}

		logger.WithFields(ledgercore.Fields{
			"account_id":  payload.AccountID,
			"customer_id": payload.CustomerID,
			"wallet_id":   wallet.WalletID,
		}).Info("custody wallet provisioned")

		return nil
	})
}

// subscribeManualReviewAlert surfaces customers flagged for manual review in
// the operational log
func subscribeManualReviewAlert(bus ledgercore.EventBus, customers *service.CustomerService, logger ledgercore.Logger) error {
	return bus.Subscribe(domain.CustomerFlaggedForManualReviewName, func(ctx context.Context, event ledgercore.DomainEvent) error {
		customer, err := customers.GetCustomer(ctx, event.AggregateID)
		if err != nil {
			return err
		}

		logger.WithFields(ledgercore.Fields{
			"customer_id": event.AggregateID,
			"email":       customer.Email(),
			"risk_level":  customer.RiskLevel(),
		}).Warn("customer requires manual review")

		return nil
	})
}

// subscribeFailedTransactionAlert surfaces failed transactions in the
// operational log
func subscribeFailedTransactionAlert(bus ledgercore.EventBus, transactions *service.TransactionService, logger ledgercore.Logger) error {
	return bus.Subscribe(domain.TransactionFailedName, func(ctx context.Context, event ledgercore.DomainEvent) error {
		transaction, err := transactions.GetTransaction(ctx, event.AggregateID)
		if err != nil {
			return err
		}

		logger.WithFields(ledgercore.Fields{
			"transaction_id": event.AggregateID,
			"type":           string(transaction.Type()),
			"amount":         transaction.Amount().String(),
			"reason":         transaction.FailureReason(),
		}).Warn("transaction failed")

		return nil
	})
}

// subscribeAuditLogger logs every published domain event
func subscribeAuditLogger(bus ledgercore.EventBus, logger ledgercore.Logger) error {
	for _, eventName := range domain.EventNames() {
		err := bus.Subscribe(eventName, func(ctx context.Context, event ledgercore.DomainEvent) error {
			logger.WithFields(ledgercore.Fields{
				"event_id":     event.EventID.String(),
				"event_name":   event.EventName,
				"aggregate_id": event.AggregateID,
				"version":      event.Version,
			}).Info("domain event")

			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
