package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
	"salescrm/internal/repository"
	"salescrm/internal/sqlclass"
)

const describeSampleRows = 5

// ConsoleService is the administrative query console and schema browser.
type ConsoleService interface {
	// Execute runs caller-authored SQL. Failures are reported in the result,
	// never as an error. Confirmation of mutating statements is the caller's job.
	// Transaction and session control statements are refused without running.
	Execute(ctx context.Context, statement string) *model.QueryResult
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTable returns ErrUnknownTable for names the store does not list.
	DescribeTable(ctx context.Context, table string) (*model.TableDescription, error)
	// BrowseTable returns every row of a listed table.
	BrowseTable(ctx context.Context, table string) (*model.QueryResult, error)
}

// WriteHook is called after a non-read statement succeeds.
type WriteHook func(ctx context.Context)

type consoleService struct {
	consoleRepo repository.ConsoleRepository
	timeout     time.Duration
	onWrite     WriteHook
	logger      *slog.Logger
}

// NewConsoleService creates a console whose statements run under timeout
// (zero disables it). onWrite may be nil.
func NewConsoleService(consoleRepo repository.ConsoleRepository, timeout time.Duration, onWrite WriteHook, logger *slog.Logger) ConsoleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &consoleService{
		consoleRepo: consoleRepo,
		timeout:     timeout,
		onWrite:     onWrite,
		logger:      logger,
	}
}

func (s *consoleService) Execute(ctx context.Context, statement string) *model.QueryResult {
	text := strings.TrimSpace(statement)
	if text == "" {
		return &model.QueryResult{Success: false, Kind: sqlclass.KindUnknown.String(), Error: "empty statement"}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	inspection := sqlclass.Inspect(text)
	kind := inspection.Kind()
	logger := s.logger.With(slog.String("kind", kind.String()))

	// Statements share the store's connection pool with every other caller.
	if inspection.ChangesSession() {
		logger.Warn("console session control statement refused")
		return failedResult(sqlclass.KindControl, apperrors.ErrSessionControl)
	}

	if kind.ReturnsRows() {
		set, err := s.consoleRepo.Query(ctx, text)
		if err != nil {
			logger.Warn("console query failed", slog.String("error", err.Error()))
			return failedResult(kind, err)
		}
		logger.Info("console query executed", slog.Int("rows", len(set.Rows)))
		return &model.QueryResult{
			Success:  true,
			Kind:     kind.String(),
			Columns:  set.Columns,
			Rows:     set.Rows,
			RowCount: len(set.Rows),
		}
	}

	affected, err := s.consoleRepo.Exec(ctx, text)
	if err != nil {
		logger.Warn("console statement failed", slog.String("error", err.Error()))
		return failedResult(kind, err)
	}
	logger.Info("console statement executed", slog.Int64("rows_affected", affected))
	if s.onWrite != nil {
		s.onWrite(ctx)
	}
	return &model.QueryResult{
		Success:      true,
		Kind:         kind.String(),
		RowsAffected: &affected,
	}
}

func failedResult(kind sqlclass.Kind, err error) *model.QueryResult {
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "statement timed out: " + msg
	}
	return &model.QueryResult{Success: false, Kind: kind.String(), Error: msg}
}

func (s *consoleService) ListTables(ctx context.Context) ([]string, error) {
	tables, err := s.consoleRepo.ListTables(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list tables", err)
	}
	return tables, nil
}

// checkTable accepts only names reported by ListTables, which keeps caller text
// out of identifier positions.
func (s *consoleService) checkTable(ctx context.Context, table string) error {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", apperrors.ErrUnknownTable, table)
}

func (s *consoleService) DescribeTable(ctx context.Context, table string) (*model.TableDescription, error) {
	if err := s.checkTable(ctx, table); err != nil {
		return nil, err
	}

	columns, err := s.consoleRepo.Columns(ctx, table)
	if err != nil {
		return nil, apperrors.NewStorageError("describe table", err)
	}
	sample, err := s.consoleRepo.SampleRows(ctx, table, describeSampleRows)
	if err != nil {
		return nil, apperrors.NewStorageError("sample rows", err)
	}
	count, err := s.consoleRepo.CountRows(ctx, table)
	if err != nil {
		return nil, apperrors.NewStorageError("count rows", err)
	}

	return &model.TableDescription{
		Name:       table,
		Columns:    columns,
		SampleRows: sample,
		RowCount:   count,
	}, nil
}

func (s *consoleService) BrowseTable(ctx context.Context, table string) (*model.QueryResult, error) {
	if err := s.checkTable(ctx, table); err != nil {
		return nil, err
	}

	set, err := s.consoleRepo.SelectAll(ctx, table)
	if err != nil {
		return failedResult(sqlclass.KindRead, err), nil
	}
	return &model.QueryResult{
		Success:  true,
		Kind:     sqlclass.KindRead.String(),
		Columns:  set.Columns,
		Rows:     set.Rows,
		RowCount: len(set.Rows),
	}, nil
}
