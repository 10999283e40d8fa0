// Package bootstrap creates the schema and seeds the admin account and sample data.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/internal/service"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&model.User{},
		&model.Product{},
		&model.Feedback{},
		&model.Sale{},
		&model.InventoryLog{},
	}
}

// Options controls a bootstrap run.
type Options struct {
	AdminUsername string
	AdminPassword string
	// Reset drops every table before migrating.
	Reset bool
	// DefaultAdminPassword is logged as a warning when it is used.
	DefaultAdminPassword string
}

// Report summarizes what a run changed.
type Report struct {
	AdminCreated   bool `json:"admin_created" yaml:"admin_created"`
	ProductsSeeded int  `json:"products_seeded" yaml:"products_seeded"`
	SalesSeeded    int  `json:"sales_seeded" yaml:"sales_seeded"`
	LogsSeeded     int  `json:"inventory_logs_seeded" yaml:"inventory_logs_seeded"`
}

// Reset drops every table.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Run migrates the schema and seeds it. It is idempotent: the admin is only
// created when absent and sample data only when the products table is empty.
func Run(ctx context.Context, db *gorm.DB, credentials service.CredentialService, opts Options, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Reset {
		logger.Warn("dropping all tables before migration")
		if err := Reset(db.WithContext(ctx)); err != nil {
			return nil, err
		}
	}
	if err := Migrate(db.WithContext(ctx)); err != nil {
		return nil, err
	}
	logger.Info("database migrations completed")

	report := &Report{}
	created, err := EnsureAdmin(ctx, credentials, opts.AdminUsername, opts.AdminPassword)
	if err != nil {
		return nil, err
	}
	report.AdminCreated = created
	if created {
		logger.Info("admin user created", slog.String("username", opts.AdminUsername))
		if opts.DefaultAdminPassword != "" && opts.AdminPassword == opts.DefaultAdminPassword {
			logger.Warn("admin user uses the default password; set ADMIN_PASSWORD")
		}
	}

	if err := SeedSampleData(ctx, repository.NewSeedRepository(db), report); err != nil {
		return nil, err
	}
	if report.ProductsSeeded > 0 {
		logger.Info("sample data seeded",
			slog.Int("products", report.ProductsSeeded),
			slog.Int("sales", report.SalesSeeded),
			slog.Int("inventory_logs", report.LogsSeeded),
		)
	}
	return report, nil
}

// EnsureAdmin registers the admin account unless the username already exists.
func EnsureAdmin(ctx context.Context, credentials service.CredentialService, username, password string) (bool, error) {
	exists, err := credentials.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	_, err = credentials.Register(ctx, username, password, model.RoleAdmin)
	if errors.Is(err, apperrors.ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

// SeedSampleData inserts the sample catalog, sales and inventory log in one
// transaction, only when no product exists yet.
func SeedSampleData(ctx context.Context, repo repository.SeedRepository, report *Report) error {
	count, err := repo.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	return repo.WithTransaction(ctx, func(ctx context.Context, tx repository.SeedRepository) error {
		products := SampleProducts()
		if err := tx.CreateProducts(ctx, products); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}

		sales, err := SampleSales(products)
		if err != nil {
			return err
		}
		if err := tx.CreateSales(ctx, sales); err != nil {
			return fmt.Errorf("seed sales: %w", err)
		}

		logs, err := SampleInventoryLogs(products)
		if err != nil {
			return err
		}
		if err := tx.CreateInventoryLogs(ctx, logs); err != nil {
			return fmt.Errorf("seed inventory log: %w", err)
		}

		report.ProductsSeeded = len(products)
		report.SalesSeeded = len(sales)
		report.LogsSeeded = len(logs)
		return nil
	})
}
