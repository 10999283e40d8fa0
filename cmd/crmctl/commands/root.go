package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"salescrm/cmd/crmctl/output"
	"salescrm/internal/cache"
	"salescrm/internal/config"
	"salescrm/internal/db"
	"salescrm/internal/logging"
	"salescrm/internal/repository"
	"salescrm/internal/service"
)

var (
	// Global flags
	configFile string
	dbDriver   string
	dsn        string
	logLevel   string
	format     string
)

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "Sales CRM administration tool",
	Long: `crmctl administers the Sales CRM store directly.

It bootstraps the schema and sample data, browses tables and runs SQL
statements. Statements that may modify or delete data must be confirmed,
either interactively or with --yes.

Settings come from the same environment variables as the server
(DB_DRIVER, MYSQL_DSN, POSTGRES_DSN, REDIS_ADDR, ...), from the file
named by --config, and from the flags below.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, output.FormatError(err))
		os.Exit(1)
	}
}

// NewRootCommand returns the command tree. Tests use it to run commands in-process.
func NewRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver (mysql or postgres)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database connection string for the selected driver")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&format, "output", "o", output.FormatTable, "Output format (table, json, yaml)")

	rootCmd.AddCommand(newBootstrapCommand())
	rootCmd.AddCommand(newTablesCommand())
	rootCmd.AddCommand(newDescribeCommand())
	rootCmd.AddCommand(newRowsCommand())
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newConsoleCommand())
}

// loadConfig layers defaults, environment, the optional config file and flags.
func loadConfig() (*config.Config, error) {
	v := config.NewViper()
	if configFile != "" {
		if err := config.ReadFile(v, configFile); err != nil {
			return nil, err
		}
	}
	applyFlagOverrides(v)

	cfg := config.FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlagOverrides(v *viper.Viper) {
	if dbDriver != "" {
		v.Set("db_driver", dbDriver)
	}
	if dsn != "" {
		key := "mysql_dsn"
		if v.GetString("db_driver") == config.DriverPostgres {
			key = "postgres_dsn"
		}
		v.Set(key, dsn)
	}
	v.Set("log_level", logLevel)
}

// env is everything a command needs to talk to the store.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	cache   *cache.Client
	console service.ConsoleService
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	gormDB, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Debug("redis unavailable; catalog cache will not be invalidated", slog.String("error", err.Error()))
	}

	// Writes made here bypass the server, so its cached catalog reads are dropped.
	catalog := service.NewCatalogService(repository.NewProductRepository(gormDB), cacheClient)
	console := service.NewConsoleService(repository.NewConsoleRepository(gormDB), cfg.ConsoleTimeout, func(ctx context.Context) {
		if err := catalog.InvalidateCache(ctx); err != nil {
			logger.Warn("catalog cache invalidation failed", slog.String("error", err.Error()))
		}
	}, logger)

	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      gormDB,
		cache:   cacheClient,
		console: console,
	}, nil
}

func (e *env) Close() {
	_ = e.cache.Close()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
