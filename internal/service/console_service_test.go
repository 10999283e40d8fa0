package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "salescrm/internal/errors"
	"salescrm/internal/model"
)

func TestConsoleService_Execute(t *testing.T) {
	productRows := &model.RowSet{
		Columns: []string{"id", "name"},
		Rows:    []model.Row{{"id": int64(1), "name": "Laptop Pro"}, {"id": int64(2), "name": "Office Chair"}},
	}

	tests := []struct {
		name      string
		statement string
		setupMock func(*MockConsoleRepository)
		check     func(*testing.T, *model.QueryResult)
		wroteOnce bool
	}{
		{
			name:      "select returns rows",
			statement: "  SELECT id, name FROM products ",
			setupMock: func(m *MockConsoleRepository) {
				m.On("Query", mock.Anything, "SELECT id, name FROM products").Return(productRows, nil)
			},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.True(t, r.Success)
				assert.Equal(t, "read", r.Kind)
				assert.Equal(t, []string{"id", "name"}, r.Columns)
				assert.Equal(t, len(r.Rows), r.RowCount)
				assert.Nil(t, r.RowsAffected)
				assert.True(t, r.ReturnedRows())
			},
		},
		{
			name:      "show is a read",
			statement: "SHOW TABLES",
			setupMock: func(m *MockConsoleRepository) {
				m.On("Query", mock.Anything, "SHOW TABLES").Return(&model.RowSet{Columns: []string{"Tables_in_crm"}, Rows: []model.Row{}}, nil)
			},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.True(t, r.Success)
				assert.Zero(t, r.RowCount)
			},
		},
		{
			name:      "delete reports affected rows",
			statement: "DELETE FROM sales WHERE id = 1",
			setupMock: func(m *MockConsoleRepository) {
				m.On("Exec", mock.Anything, "DELETE FROM sales WHERE id = 1").Return(int64(1), nil)
			},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.True(t, r.Success)
				assert.Equal(t, "write", r.Kind)
				require.NotNil(t, r.RowsAffected)
				assert.Equal(t, int64(1), *r.RowsAffected)
				assert.Empty(t, r.Rows)
			},
			wroteOnce: true,
		},
		{
			name:      "driver count passed through unchanged",
			statement: "CREATE TABLE notes (id INT)",
			setupMock: func(m *MockConsoleRepository) {
				m.On("Exec", mock.Anything, "CREATE TABLE notes (id INT)").Return(int64(-1), nil)
			},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.True(t, r.Success)
				assert.Equal(t, int64(-1), *r.RowsAffected)
			},
			wroteOnce: true,
		},
		{
			name:      "unknown table becomes failed result",
			statement: "SELECT * FROM nonexistent_table",
			setupMock: func(m *MockConsoleRepository) {
				m.On("Query", mock.Anything, "SELECT * FROM nonexistent_table").Return(nil, errors.New("Error 1146: Table 'crm.nonexistent_table' doesn't exist"))
			},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.False(t, r.Success)
				assert.Contains(t, r.Error, "nonexistent_table")
			},
		},
		{
			name:      "failed write does not fire hook",
			statement: "UPDATE products SET price = -1",
			setupMock: func(m *MockConsoleRepository) {
				m.On("Exec", mock.Anything, "UPDATE products SET price = -1").Return(int64(0), errors.New("constraint failed"))
			},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.False(t, r.Success)
				assert.Equal(t, "constraint failed", r.Error)
			},
		},
		{
			name:      "transaction control is refused",
			statement: "BEGIN",
			setupMock: func(m *MockConsoleRepository) {},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.False(t, r.Success)
				assert.Equal(t, "control", r.Kind)
				assert.Equal(t, apperrors.ErrSessionControl.Error(), r.Error)
			},
		},
		{
			name:      "session setting behind a read is refused",
			statement: "SELECT 1; SET autocommit = 0",
			setupMock: func(m *MockConsoleRepository) {},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.False(t, r.Success)
				assert.Equal(t, apperrors.ErrSessionControl.Error(), r.Error)
				assert.Nil(t, r.Rows)
			},
		},
		{
			name:      "empty statement",
			statement: "   ",
			setupMock: func(m *MockConsoleRepository) {},
			check: func(t *testing.T, r *model.QueryResult) {
				assert.False(t, r.Success)
				assert.NotEmpty(t, r.Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockConsoleRepository)
			tt.setupMock(mockRepo)

			writes := 0
			svc := NewConsoleService(mockRepo, time.Second, func(context.Context) { writes++ }, testLogger)
			result := svc.Execute(context.Background(), tt.statement)

			require.NotNil(t, result)
			tt.check(t, result)
			if tt.wroteOnce {
				assert.Equal(t, 1, writes)
			} else {
				assert.Zero(t, writes)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestConsoleService_ExecuteAppliesTimeout(t *testing.T) {
	mockRepo := new(MockConsoleRepository)
	mockRepo.On("Query", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "SELECT SLEEP(10)").Return(nil, context.DeadlineExceeded)

	svc := NewConsoleService(mockRepo, 50*time.Millisecond, nil, testLogger)
	result := svc.Execute(context.Background(), "SELECT SLEEP(10)")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
	mockRepo.AssertExpectations(t)
}

func TestConsoleService_DescribeTable(t *testing.T) {
	defaultCustomer := "'customer'"
	columns := []model.ColumnInfo{
		{Position: 0, Name: "id", DeclaredType: "bigint unsigned", NotNull: true, IsPrimaryKey: true},
		{Position: 1, Name: "role", DeclaredType: "varchar(20)", NotNull: true, DefaultValue: &defaultCustomer},
	}

	mockRepo := new(MockConsoleRepository)
	mockRepo.On("ListTables", mock.Anything).Return([]string{"feedback", "products", "users"}, nil)
	mockRepo.On("Columns", mock.Anything, "users").Return(columns, nil)
	mockRepo.On("SampleRows", mock.Anything, "users", 5).Return([]model.Row{{"id": int64(1), "role": "admin"}}, nil)
	mockRepo.On("CountRows", mock.Anything, "users").Return(int64(1), nil)

	svc := NewConsoleService(mockRepo, 0, nil, testLogger)

	desc, err := svc.DescribeTable(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, "users", desc.Name)
	assert.Equal(t, columns, desc.Columns)
	assert.Len(t, desc.SampleRows, 1)
	assert.Equal(t, int64(1), desc.RowCount)

	_, err = svc.DescribeTable(context.Background(), "users; DROP TABLE users")
	assert.ErrorIs(t, err, apperrors.ErrUnknownTable)
	mockRepo.AssertNotCalled(t, "Columns", mock.Anything, "users; DROP TABLE users")
}

func TestConsoleService_BrowseTable(t *testing.T) {
	mockRepo := new(MockConsoleRepository)
	mockRepo.On("ListTables", mock.Anything).Return([]string{"sales"}, nil)
	mockRepo.On("SelectAll", mock.Anything, "sales").Return(&model.RowSet{
		Columns: []string{"id"},
		Rows:    []model.Row{{"id": int64(1)}, {"id": int64(2)}},
	}, nil)

	svc := NewConsoleService(mockRepo, 0, nil, testLogger)

	result, err := svc.BrowseTable(context.Background(), "sales")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.RowCount)

	_, err = svc.BrowseTable(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUnknownTable)
}

func TestConsoleService_ListTablesStorageFailure(t *testing.T) {
	mockRepo := new(MockConsoleRepository)
	mockRepo.On("ListTables", mock.Anything).Return(nil, errors.New("gone"))

	svc := NewConsoleService(mockRepo, 0, nil, testLogger)
	_, err := svc.ListTables(context.Background())

	var storageErr *apperrors.StorageError
	assert.ErrorAs(t, err, &storageErr)
}
