package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/policycfg"
	"marketplace/internal/adapters/out/postgres/applicationrepo"
	"marketplace/internal/adapters/out/postgres/idemrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/settlementrepo"
	"marketplace/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs(logger)

	db, err := openDatabase(configs)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	policy, err := loadPolicy(configs)
	if err != nil {
		logger.Error("failed to load commission policy", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	root := cmd.NewCompositionRoot(configs, db, policy, logger, registry)

	jobManager := jobs.NewJobManager(
		root.CreateMarkSettlementsPayableCommandHandler(),
		configs.SweepCronSpec,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&root, registry, configs.HTTPPort)
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn("no .env file found, relying on environment")
	}

	depositPermille, err := strconv.Atoi(envOrDefault("DEPOSIT_PERMILLE", "200"))
	if err != nil {
		logger.Error("invalid DEPOSIT_PERMILLE", "error", err)
		os.Exit(1)
	}

	return cmd.Config{
		HTTPPort:        envOrDefault("HTTP_PORT", "8080"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          envOrDefault("DB_PORT", "5432"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBSslMode:       envOrDefault("DB_SSLMODE", "disable"),
		PolicyPath:      os.Getenv("POLICY_PATH"),
		DepositPermille: depositPermille,
		SweepCronSpec:   envOrDefault("SWEEP_CRON_SPEC", "0 * * * * *"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&applicationrepo.ApplicationDTO{},
		&settlementrepo.SettlementDTO{},
		&settlementrepo.LedgerEntryDTO{},
		&idemrepo.IdempotencyKeyDTO{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func loadPolicy(configs cmd.Config) (*policycfg.Policy, error) {
	if configs.PolicyPath == "" {
		return policycfg.Default(configs.DepositPermille)
	}
	return policycfg.Load(configs.PolicyPath)
}

func startWebServer(root *cmd.CompositionRoot, registry *prometheus.Registry, port string) {
	e := echo.New()
	e.HideBanner = true

	server := httpin.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateChangeOrderStatusCommandHandler(),
		root.CreateRecoverOrderStatusCommandHandler(),
		root.CreateSubmitApplicationCommandHandler(),
		root.CreateSelectHelperCommandHandler(),
		root.CreateSubmitClosingReportCommandHandler(),
		root.CreateConfirmFinalAmountCommandHandler(),
		root.CreatePayBalanceCommandHandler(),
		root.CreatePaySettlementCommandHandler(),
		root.CreateResolveDisputeCommandHandler(),
		root.CreateApplyDeductionCommandHandler(),
		root.CreateReverseDeductionCommandHandler(),
		root.CreateGetActiveOrdersQueryHandler(),
		root.CreateGetSettlementQueryHandler(),
		root.CreateGetNextStatusesQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	))

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
