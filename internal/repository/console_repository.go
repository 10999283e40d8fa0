package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"salescrm/internal/model"
)

// ConsoleRepository runs caller-authored SQL and reads schema metadata.
// It is the only raw-SQL path into the store.
type ConsoleRepository interface {
	Query(ctx context.Context, statement string) (*model.RowSet, error)
	Exec(ctx context.Context, statement string) (int64, error)
	ListTables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]model.ColumnInfo, error)
	SampleRows(ctx context.Context, table string, limit int) ([]model.Row, error)
	CountRows(ctx context.Context, table string) (int64, error)
	SelectAll(ctx context.Context, table string) (*model.RowSet, error)
}

type consoleRepository struct {
	db *gorm.DB
}

// NewConsoleRepository creates a new console repository.
func NewConsoleRepository(db *gorm.DB) ConsoleRepository {
	return &consoleRepository{db: db}
}

// Query runs a row-returning statement and materializes every row.
func (r *consoleRepository) Query(ctx context.Context, statement string) (*model.RowSet, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, err
	}
	rows, err := sqlDB.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRowSet(rows)
}

// Exec runs a statement in autocommit mode and returns the affected row count as
// reported by the driver, or -1 when the driver cannot report it.
func (r *consoleRepository) Exec(ctx context.Context, statement string) (int64, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return 0, err
	}
	res, err := sqlDB.ExecContext(ctx, statement)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return -1, nil
	}
	return affected, nil
}

func (r *consoleRepository) ListTables(ctx context.Context) ([]string, error) {
	return r.db.WithContext(ctx).Migrator().GetTables()
}

// Columns describes table's columns in declaration order. Position is zero-based.
func (r *consoleRepository) Columns(ctx context.Context, table string) ([]model.ColumnInfo, error) {
	types, err := r.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, err
	}

	columns := make([]model.ColumnInfo, 0, len(types))
	for i, ct := range types {
		info := model.ColumnInfo{
			Position:     i,
			Name:         ct.Name(),
			DeclaredType: ct.DatabaseTypeName(),
		}
		if declared, ok := ct.ColumnType(); ok && declared != "" {
			info.DeclaredType = declared
		}
		if nullable, ok := ct.Nullable(); ok {
			info.NotNull = !nullable
		}
		if def, ok := ct.DefaultValue(); ok {
			info.DefaultValue = &def
		}
		if pk, ok := ct.PrimaryKey(); ok {
			info.IsPrimaryKey = pk
		}
		columns = append(columns, info)
	}
	return columns, nil
}

func (r *consoleRepository) SampleRows(ctx context.Context, table string, limit int) ([]model.Row, error) {
	rows, err := r.db.WithContext(ctx).Table(table).Limit(limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set, err := scanRowSet(rows)
	if err != nil {
		return nil, err
	}
	return set.Rows, nil
}

func (r *consoleRepository) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *consoleRepository) SelectAll(ctx context.Context, table string) (*model.RowSet, error) {
	rows, err := r.db.WithContext(ctx).Table(table).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRowSet(rows)
}

// scanRowSet reads all rows into column-keyed maps. Byte slices become strings
// so that text columns render as text.
func scanRowSet(rows *sql.Rows) (*model.RowSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	set := &model.RowSet{Columns: columns, Rows: []model.Row{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(model.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		set.Rows = append(set.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}
